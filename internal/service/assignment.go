package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// UnassignResult reports the outcome of an unassign call. Removed is
// false when the subject had no teacher, which is a no-op with a
// warning rather than an error.
type UnassignResult struct {
	Removed bool
	Teacher *domain.User
	Subject *domain.Subject
}

// AssignmentService assigns and unassigns teachers, keeping the
// inverse reference on the user record in step.
type AssignmentService struct {
	store  storage.Store
	lookup *LookupService
	links  *relationshipManager
	logger *zap.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(store storage.Store, lookup *LookupService, links *relationshipManager, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		store:  store,
		lookup: lookup,
		links:  links,
		logger: logger.Named("assignment-service"),
	}
}

// Assign sets the subject's teacher. Assigning the already-assigned
// teacher is a no-op; a different teacher is subject to the capacity
// check, and the previous teacher (if any) loses the subject from its
// assigned set.
func (s *AssignmentService) Assign(ctx context.Context, subjectID, teacherIdentifier string) (*domain.Subject, *domain.User, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}

	teacher, err := s.lookup.FindByIdentifier(ctx, teacherIdentifier, domain.RoleTeacher, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrTeacherNotFound
		}
		return nil, nil, err
	}

	if subject.TeacherID == teacher.ID {
		return subject, teacher, nil
	}

	count, err := s.store.Subjects().CountActiveByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, nil, err
	}
	if count >= domain.MaxSubjectsPerTeacher {
		return nil, nil, &TeacherCapacityError{TeacherName: teacher.FullName()}
	}

	oldTeacher, err := s.currentTeacher(ctx, subject)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.links.setTeacher(ctx, subject, oldTeacher, teacher); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Teacher assigned",
		zap.String("subject_id", subject.ID),
		zap.String("teacher_id", teacher.ID))
	return subject, teacher, nil
}

// Unassign clears the subject's teacher. A subject without a teacher
// yields Removed=false, explicitly not an error.
func (s *AssignmentService) Unassign(ctx context.Context, subjectID string) (*UnassignResult, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if subject.TeacherID == "" {
		return &UnassignResult{Removed: false, Subject: subject}, nil
	}

	teacher, err := s.currentTeacher(ctx, subject)
	if err != nil {
		return nil, err
	}

	if _, err := s.links.setTeacher(ctx, subject, teacher, nil); err != nil {
		return nil, err
	}

	s.logger.Info("Teacher unassigned", zap.String("subject_id", subject.ID))
	return &UnassignResult{Removed: true, Teacher: teacher, Subject: subject}, nil
}

func (s *AssignmentService) getSubject(ctx context.Context, id string) (*domain.Subject, error) {
	if !domain.IsValidID(id) {
		return nil, ErrInvalidSubjectID
	}
	subject, err := s.store.Subjects().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func (s *AssignmentService) currentTeacher(ctx context.Context, subject *domain.Subject) (*domain.User, error) {
	if subject.TeacherID == "" {
		return nil, nil
	}
	teacher, err := s.store.Users().GetByID(ctx, subject.TeacherID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return teacher, nil
}
