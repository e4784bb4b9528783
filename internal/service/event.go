package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// ErrEventNotFound is returned when an event id does not resolve.
var ErrEventNotFound = errors.New("event not found")

// EventService exposes the calendar surface. Holiday-derived events
// are created by the seeder; this service covers manual entries and
// reads.
type EventService struct {
	store  storage.Store
	logger *zap.Logger
}

// NewEventService creates a new EventService
func NewEventService(store storage.Store, logger *zap.Logger) *EventService {
	return &EventService{
		store:  store,
		logger: logger.Named("event-service"),
	}
}

// Create creates a calendar event on behalf of the actor.
func (s *EventService) Create(ctx context.Context, actor *domain.User, req *domain.CreateEventRequest) (*domain.Event, error) {
	eventType := req.EventType
	if eventType == "" {
		eventType = domain.EventTypeGeneral
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.EventPriorityMedium
	}

	event := &domain.Event{
		ID:             domain.NewEventID(),
		Title:          req.Title,
		Header:         req.Header,
		Body:           req.Body,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsAllDay:       req.IsAllDay,
		Priority:       priority,
		TargetAudience: req.TargetAudience,
		EventType:      eventType,
		CreatedBy:      actor.ID,
	}

	if err := s.store.Events().Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title))
	return event, nil
}

// Get retrieves an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.store.Events().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// List retrieves events matching the query.
func (s *EventService) List(ctx context.Context, q storage.ListQuery) ([]*domain.Event, int64, error) {
	return s.store.Events().List(ctx, q)
}
