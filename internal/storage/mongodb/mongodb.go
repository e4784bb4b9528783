package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/pkg/config"
)

// Store implements MongoDB storage
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      *config.MongoDBConfig

	users      *UserStore
	subjects   *SubjectStore
	holidays   *HolidayStore
	events     *EventStore
	activities *ActivityStore
	grades     *GradeStore
}

// NewStore creates a new MongoDB store
func NewStore(ctx context.Context, cfg *config.MongoDBConfig) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(time.Duration(cfg.Timeout) * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.Database)

	s := &Store{
		client:   client,
		database: database,
		cfg:      cfg,
	}

	// Initialize sub-stores
	s.users = &UserStore{collection: database.Collection("users")}
	s.subjects = &SubjectStore{collection: database.Collection("subjects")}
	s.holidays = &HolidayStore{collection: database.Collection("holidays")}
	s.events = &EventStore{collection: database.Collection("events")}
	s.activities = &ActivityStore{collection: database.Collection("activities")}
	s.grades = &GradeStore{collection: database.Collection("grades")}

	// Create indexes
	if err := s.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return s, nil
}

func (s *Store) createIndexes(ctx context.Context) error {
	// Users collection indexes
	_, err := s.users.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	// Subjects collection indexes
	_, err = s.subjects.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "teacher", Value: 1}, {Key: "is_archived", Value: 1}}},
		{Keys: bson.D{{Key: "school_year", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create subject indexes: %w", err)
	}

	// Holidays collection indexes
	_, err = s.holidays.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "month", Value: 1}, {Key: "day", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create holiday indexes: %w", err)
	}

	// Events collection indexes - holiday identity keeps the seeder idempotent
	// even if two reconcile passes race on the existence check
	_, err = s.events.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: 1},
				{Key: "start_date", Value: 1},
				{Key: "end_date", Value: 1},
				{Key: "event_type", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"event_type": "holiday"}),
		},
		{Keys: bson.D{{Key: "start_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}

	// Activity and grade collections are owned elsewhere; only the
	// subject reference used by cascade deletion is indexed here
	_, err = s.activities.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "subject", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}

	_, err = s.grades.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "subject", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create grade indexes: %w", err)
	}

	return nil
}

func (s *Store) Users() storage.UserStore          { return s.users }
func (s *Store) Subjects() storage.SubjectStore    { return s.subjects }
func (s *Store) Holidays() storage.HolidayStore    { return s.holidays }
func (s *Store) Events() storage.EventStore        { return s.events }
func (s *Store) Activities() storage.ActivityStore { return s.activities }
func (s *Store) Grades() storage.GradeStore        { return s.grades }

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
