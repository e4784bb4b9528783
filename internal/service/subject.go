package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

var (
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrSubjectArchived    = errors.New("subject is already archived")
	ErrSubjectNotArchived = errors.New("subject is not archived")
	ErrInvalidSubjectID   = errors.New("invalid subject id")
	ErrTeacherNotFound    = errors.New("teacher not found or inactive")
)

// TeacherCapacityError is returned when an assignment would push a
// teacher past the active-subject limit. It names the teacher so the
// client message identifies who is at capacity.
type TeacherCapacityError struct {
	TeacherName string
}

func (e *TeacherCapacityError) Error() string {
	return fmt.Sprintf("Teacher %s already has the maximum of %d active subjects",
		e.TeacherName, domain.MaxSubjectsPerTeacher)
}

// SubjectService manages the subject lifecycle: create, update,
// archive, restore and permanent deletion, with the cascades the
// bidirectional references require.
type SubjectService struct {
	store  storage.Store
	lookup *LookupService
	links  *relationshipManager
	logger *zap.Logger
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(store storage.Store, lookup *LookupService, links *relationshipManager, logger *zap.Logger) *SubjectService {
	return &SubjectService{
		store:  store,
		lookup: lookup,
		links:  links,
		logger: logger.Named("subject-service"),
	}
}

// Create creates a subject. Teacher assignment is optional; a
// requesting teacher who supplies no explicit teacher identifier is
// self-assigned. Any assignment is subject to the capacity check.
func (s *SubjectService) Create(ctx context.Context, actor *domain.User, req *domain.CreateSubjectRequest) (*domain.Subject, error) {
	var teacher *domain.User
	switch {
	case req.Teacher != "":
		t, err := s.lookup.FindByIdentifier(ctx, req.Teacher, domain.RoleTeacher, true)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return nil, ErrTeacherNotFound
			}
			return nil, err
		}
		teacher = t
	case actor.Role == domain.RoleTeacher:
		teacher = actor
	}

	if teacher != nil {
		if err := s.checkTeacherCapacity(ctx, teacher); err != nil {
			return nil, err
		}
	}

	subject := &domain.Subject{
		ID:          domain.NewSubjectID(),
		Name:        req.Name,
		Description: req.Description,
		GradeLevel:  req.GradeLevel,
		Section:     req.Section,
		SchoolYear:  req.SchoolYear,
		StudentIDs:  []string{},
	}

	if err := s.store.Subjects().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	if teacher != nil {
		if _, err := s.links.setTeacher(ctx, subject, nil, teacher); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Subject created",
		zap.String("subject_id", subject.ID),
		zap.String("name", subject.Name),
		zap.String("teacher_id", subject.TeacherID))
	return subject, nil
}

// Update applies a partial update. A teacher change re-runs the
// capacity check (skipped when the teacher is unchanged) and moves the
// subject id between the old and new teachers' assigned sets. The
// request's teacher field accepts "" or "null" to clear the assignment.
func (s *SubjectService) Update(ctx context.Context, id string, req *domain.UpdateSubjectRequest) (*domain.Subject, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}
	if req.GradeLevel != nil {
		subject.GradeLevel = *req.GradeLevel
	}
	if req.Section != nil {
		subject.Section = *req.Section
	}
	if req.SchoolYear != nil {
		subject.SchoolYear = *req.SchoolYear
	}

	if req.Teacher == nil {
		if err := s.store.Subjects().Update(ctx, subject); err != nil {
			return nil, fmt.Errorf("failed to update subject: %w", err)
		}
		return subject, nil
	}

	oldTeacher, err := s.currentTeacher(ctx, subject)
	if err != nil {
		return nil, err
	}

	if req.ClearsTeacher() {
		if _, err := s.links.setTeacher(ctx, subject, oldTeacher, nil); err != nil {
			return nil, err
		}
		return subject, nil
	}

	newTeacher, err := s.lookup.FindByIdentifier(ctx, *req.Teacher, domain.RoleTeacher, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	if newTeacher.ID == subject.TeacherID {
		// Same teacher, no capacity re-check; persist the field updates.
		if err := s.store.Subjects().Update(ctx, subject); err != nil {
			return nil, fmt.Errorf("failed to update subject: %w", err)
		}
		return subject, nil
	}

	if err := s.checkTeacherCapacity(ctx, newTeacher); err != nil {
		return nil, err
	}

	if _, err := s.links.setTeacher(ctx, subject, oldTeacher, newTeacher); err != nil {
		return nil, err
	}
	return subject, nil
}

// Archive soft-deletes a subject. The teacher and student references
// stay on the subject document so the operation is reversible, but the
// mirrored references on the user records are removed.
func (s *SubjectService) Archive(ctx context.Context, actor *domain.User, id string) (*domain.Subject, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject.IsArchived {
		return nil, ErrSubjectArchived
	}

	now := time.Now()
	subject.IsArchived = true
	subject.ArchivedAt = &now
	subject.ArchivedBy = actor.ID

	if err := s.store.Subjects().Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to archive subject: %w", err)
	}

	if err := s.links.detachUserRefs(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("Subject archived",
		zap.String("subject_id", subject.ID),
		zap.String("archived_by", actor.ID))
	return subject, nil
}

// Restore reverses an archive, reinstating the mirrored references on
// the teacher and every listed student.
func (s *SubjectService) Restore(ctx context.Context, id string) (*domain.Subject, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !subject.IsArchived {
		return nil, ErrSubjectNotArchived
	}

	subject.IsArchived = false
	subject.ArchivedAt = nil
	subject.ArchivedBy = ""

	if err := s.store.Subjects().Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to restore subject: %w", err)
	}

	if err := s.links.attachUserRefs(ctx, subject); err != nil {
		return nil, err
	}

	s.logger.Info("Subject restored", zap.String("subject_id", subject.ID))
	return subject, nil
}

// PermanentDelete removes an archived subject and every Activity and
// Grade record referencing it. User references are detached defensively
// in case the archive cascade was bypassed. This is the only
// irreversible operation.
func (s *SubjectService) PermanentDelete(ctx context.Context, id string) error {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return err
	}
	if !subject.IsArchived {
		return ErrSubjectNotArchived
	}

	if err := s.links.detachUserRefs(ctx, subject); err != nil {
		return err
	}

	if err := s.store.Activities().DeleteBySubject(ctx, subject.ID); err != nil {
		return fmt.Errorf("failed to delete subject activities: %w", err)
	}
	if err := s.store.Grades().DeleteBySubject(ctx, subject.ID); err != nil {
		return fmt.Errorf("failed to delete subject grades: %w", err)
	}

	if err := s.store.Subjects().Delete(ctx, subject.ID); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	s.logger.Info("Subject permanently deleted", zap.String("subject_id", subject.ID))
	return nil
}

// Get retrieves a subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*domain.Subject, error) {
	return s.getSubject(ctx, id)
}

// List retrieves subjects. Teacher actors are auto-scoped to their own
// subjects regardless of any teacher filter in the query; archived
// defaults to false.
func (s *SubjectService) List(ctx context.Context, actor *domain.User, q storage.ListQuery, archived bool, teacherFilter string) ([]*domain.Subject, int64, error) {
	q = q.WithFilter("is_archived", fmt.Sprintf("%t", archived))

	if actor.Role == domain.RoleTeacher {
		q = q.WithFilter("teacher", actor.ID)
	} else if teacherFilter != "" {
		q = q.WithFilter("teacher", teacherFilter)
	}

	return s.store.Subjects().List(ctx, q)
}

func (s *SubjectService) getSubject(ctx context.Context, id string) (*domain.Subject, error) {
	if !domain.IsValidID(id) {
		return nil, ErrInvalidSubjectID
	}
	subject, err := s.store.Subjects().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

// currentTeacher loads the subject's assigned teacher, tolerating a
// dangling reference.
func (s *SubjectService) currentTeacher(ctx context.Context, subject *domain.Subject) (*domain.User, error) {
	if subject.TeacherID == "" {
		return nil, nil
	}
	teacher, err := s.store.Users().GetByID(ctx, subject.TeacherID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Subject references missing teacher",
				zap.String("subject_id", subject.ID),
				zap.String("teacher_id", subject.TeacherID))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current teacher: %w", err)
	}
	return teacher, nil
}

// checkTeacherCapacity rejects the assignment when the teacher already
// carries the maximum number of non-archived subjects.
func (s *SubjectService) checkTeacherCapacity(ctx context.Context, teacher *domain.User) error {
	count, err := s.store.Subjects().CountActiveByTeacher(ctx, teacher.ID)
	if err != nil {
		return err
	}
	if count >= domain.MaxSubjectsPerTeacher {
		return &TeacherCapacityError{TeacherName: teacher.FullName()}
	}
	return nil
}
