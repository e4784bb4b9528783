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

// SubjectStore implements MongoDB subject storage
type SubjectStore struct {
	collection *mongo.Collection
}

func (s *SubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	subject.CreatedAt = time.Now()
	subject.UpdatedAt = time.Now()
	if subject.StudentIDs == nil {
		subject.StudentIDs = []string{}
	}

	_, err := s.collection.InsertOne(ctx, subject)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (s *SubjectStore) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	var subject domain.Subject
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &subject, nil
}

func (s *SubjectStore) Update(ctx context.Context, subject *domain.Subject) error {
	subject.UpdatedAt = time.Now()
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": subject.ID}, subject)
	if err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SubjectStore) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SubjectStore) List(ctx context.Context, q storage.ListQuery) ([]*domain.Subject, int64, error) {
	q.Normalize()
	filter := buildFilter(q)

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subjects: %w", err)
	}

	cursor, err := s.collection.Find(ctx, filter, buildFindOptions(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer cursor.Close(ctx)

	var subjects []*domain.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, 0, fmt.Errorf("failed to decode subjects: %w", err)
	}
	return subjects, total, nil
}

func (s *SubjectStore) CountActiveByTeacher(ctx context.Context, teacherID string) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"teacher":     teacherID,
		"is_archived": false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count teacher subjects: %w", err)
	}
	return count, nil
}
