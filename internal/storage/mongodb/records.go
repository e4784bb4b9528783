package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classpoint/school-backend/internal/domain"
)

// ActivityStore implements the cascade-deletion slice of activity storage
type ActivityStore struct {
	collection *mongo.Collection
}

func (s *ActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	activity.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

func (s *ActivityStore) CountBySubject(ctx context.Context, subjectID string) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"subject": subjectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func (s *ActivityStore) DeleteBySubject(ctx context.Context, subjectID string) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"subject": subjectID}); err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}
	return nil
}

// GradeStore implements the cascade-deletion slice of grade storage
type GradeStore struct {
	collection *mongo.Collection
}

func (s *GradeStore) Create(ctx context.Context, grade *domain.Grade) error {
	grade.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, grade); err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

func (s *GradeStore) CountBySubject(ctx context.Context, subjectID string) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"subject": subjectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count grades: %w", err)
	}
	return count, nil
}

func (s *GradeStore) DeleteBySubject(ctx context.Context, subjectID string) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"subject": subjectID}); err != nil {
		return fmt.Errorf("failed to delete grades: %w", err)
	}
	return nil
}
