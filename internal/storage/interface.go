package storage

import (
	"context"
	"errors"
	"time"

	"github.com/classpoint/school-backend/internal/domain"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabase      = errors.New("database error")
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUsernameOrEmail retrieves a user whose username or email
	// matches the identifier
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)

	// Update updates a user
	Update(ctx context.Context, user *domain.User) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error

	// List retrieves users matching the query
	List(ctx context.Context, q ListQuery) ([]*domain.User, int64, error)
}

// SubjectStore defines the interface for subject storage operations
type SubjectStore interface {
	// Create creates a new subject
	Create(ctx context.Context, subject *domain.Subject) error

	// GetByID retrieves a subject by ID
	GetByID(ctx context.Context, id string) (*domain.Subject, error)

	// Update updates a subject
	Update(ctx context.Context, subject *domain.Subject) error

	// Delete permanently deletes a subject
	Delete(ctx context.Context, id string) error

	// List retrieves subjects matching the query
	List(ctx context.Context, q ListQuery) ([]*domain.Subject, int64, error)

	// CountActiveByTeacher counts non-archived subjects assigned to a teacher
	CountActiveByTeacher(ctx context.Context, teacherID string) (int64, error)
}

// HolidayStore defines the interface for holiday reference data
type HolidayStore interface {
	// Create creates a holiday entry
	Create(ctx context.Context, holiday *domain.Holiday) error

	// GetAllActive retrieves all active holidays
	GetAllActive(ctx context.Context) ([]*domain.Holiday, error)

	// Count counts all holiday entries
	Count(ctx context.Context) (int64, error)
}

// EventStore defines the interface for calendar event storage
type EventStore interface {
	// Create creates a new event
	Create(ctx context.Context, event *domain.Event) error

	// GetByID retrieves an event by ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// FindHolidayEvent looks up a holiday-derived event by its identity
	// (title, start date, end date, event_type="holiday")
	FindHolidayEvent(ctx context.Context, title string, start, end time.Time) (*domain.Event, error)

	// List retrieves events matching the query
	List(ctx context.Context, q ListQuery) ([]*domain.Event, int64, error)
}

// ActivityStore covers the slice of activity storage this backend
// needs: cascade deletion when a subject is permanently removed.
type ActivityStore interface {
	// Create creates an activity
	Create(ctx context.Context, activity *domain.Activity) error

	// CountBySubject counts activities referencing a subject
	CountBySubject(ctx context.Context, subjectID string) (int64, error)

	// DeleteBySubject deletes all activities referencing a subject
	DeleteBySubject(ctx context.Context, subjectID string) error
}

// GradeStore covers the slice of grade storage this backend needs.
type GradeStore interface {
	// Create creates a grade record
	Create(ctx context.Context, grade *domain.Grade) error

	// CountBySubject counts grades referencing a subject
	CountBySubject(ctx context.Context, subjectID string) (int64, error)

	// DeleteBySubject deletes all grades referencing a subject
	DeleteBySubject(ctx context.Context, subjectID string) error
}

// Store aggregates all storage interfaces
type Store interface {
	Users() UserStore
	Subjects() SubjectStore
	Holidays() HolidayStore
	Events() EventStore
	Activities() ActivityStore
	Grades() GradeStore

	// Close closes the storage connection
	Close() error

	// Ping checks if the storage is alive
	Ping(ctx context.Context) error
}
