package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// EventStore implements MongoDB event storage
type EventStore struct {
	collection *mongo.Collection
}

func (s *EventStore) Create(ctx context.Context, event *domain.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	_, err := s.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (s *EventStore) FindHolidayEvent(ctx context.Context, title string, start, end time.Time) (*domain.Event, error) {
	var event domain.Event
	err := s.collection.FindOne(ctx, bson.M{
		"title":      title,
		"start_date": start,
		"end_date":   end,
		"event_type": domain.EventTypeHoliday,
	}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find holiday event: %w", err)
	}
	return &event, nil
}

func (s *EventStore) List(ctx context.Context, q storage.ListQuery) ([]*domain.Event, int64, error) {
	q.Normalize()
	filter := buildFilter(q)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	cursor, err := s.collection.Find(ctx, filter, buildFindOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, 0, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, total, nil
}

// HolidayStore implements MongoDB holiday reference storage
type HolidayStore struct {
	collection *mongo.Collection
}

func (s *HolidayStore) Create(ctx context.Context, holiday *domain.Holiday) error {
	holiday.CreatedAt = time.Now()
	holiday.UpdatedAt = time.Now()

	_, err := s.collection.InsertOne(ctx, holiday)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (s *HolidayStore) GetAllActive(ctx context.Context) ([]*domain.Holiday, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer cursor.Close(ctx)

	var holidays []*domain.Holiday
	if err := cursor.All(ctx, &holidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}
	return holidays, nil
}

func (s *HolidayStore) Count(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}
	return count, nil
}
