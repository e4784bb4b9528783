package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// linkResult reports which side of a dual-sided mutation completed.
// The store has no cross-document transactions, so a failure between
// the two writes leaves the relationship half-updated; callers use
// this to log exactly what landed.
type linkResult struct {
	SubjectUpdated bool
	UserUpdated    bool
}

// relationshipManager is the single place that mutates both sides of
// the Subject<->User references (Subject.teacher <-> User.assigned_subjects,
// Subject.students <-> User.enrolled_subjects).
type relationshipManager struct {
	store  storage.Store
	logger *zap.Logger
}

func newRelationshipManager(store storage.Store, logger *zap.Logger) *relationshipManager {
	return &relationshipManager{
		store:  store,
		logger: logger.Named("relationships"),
	}
}

// setTeacher writes the subject's teacher reference and moves the
// subject id between the old and new teachers' assigned sets.
// Either of oldTeacher/newTeacher may be nil.
func (m *relationshipManager) setTeacher(ctx context.Context, subject *domain.Subject, oldTeacher, newTeacher *domain.User) (linkResult, error) {
	var res linkResult

	if newTeacher != nil {
		subject.TeacherID = newTeacher.ID
	} else {
		subject.TeacherID = ""
	}
	if err := m.store.Subjects().Update(ctx, subject); err != nil {
		return res, fmt.Errorf("failed to update subject teacher: %w", err)
	}
	res.SubjectUpdated = true

	if oldTeacher != nil {
		oldTeacher.RemoveAssignedSubject(subject.ID)
		if err := m.store.Users().Update(ctx, oldTeacher); err != nil {
			m.logLinkFailure("teacher-unlink", subject.ID, oldTeacher.ID, res, err)
			return res, fmt.Errorf("failed to update previous teacher: %w", err)
		}
	}

	if newTeacher != nil {
		newTeacher.AddAssignedSubject(subject.ID)
		if err := m.store.Users().Update(ctx, newTeacher); err != nil {
			m.logLinkFailure("teacher-link", subject.ID, newTeacher.ID, res, err)
			return res, fmt.Errorf("failed to update teacher: %w", err)
		}
	}
	res.UserUpdated = true

	return res, nil
}

// enroll appends the student to the subject roster and mirrors the
// reference on the student record.
func (m *relationshipManager) enroll(ctx context.Context, subject *domain.Subject, student *domain.User) (linkResult, error) {
	var res linkResult

	subject.AddStudent(student.ID)
	if err := m.store.Subjects().Update(ctx, subject); err != nil {
		return res, fmt.Errorf("failed to update subject roster: %w", err)
	}
	res.SubjectUpdated = true

	student.AddEnrolledSubject(subject.ID)
	if err := m.store.Users().Update(ctx, student); err != nil {
		m.logLinkFailure("enroll", subject.ID, student.ID, res, err)
		return res, fmt.Errorf("failed to update student record: %w", err)
	}
	res.UserUpdated = true

	return res, nil
}

// unenroll removes the student from the subject roster and drops the
// mirrored reference on the student record.
func (m *relationshipManager) unenroll(ctx context.Context, subject *domain.Subject, student *domain.User) (linkResult, error) {
	var res linkResult

	subject.RemoveStudent(student.ID)
	if err := m.store.Subjects().Update(ctx, subject); err != nil {
		return res, fmt.Errorf("failed to update subject roster: %w", err)
	}
	res.SubjectUpdated = true

	student.RemoveEnrolledSubject(subject.ID)
	if err := m.store.Users().Update(ctx, student); err != nil {
		m.logLinkFailure("unenroll", subject.ID, student.ID, res, err)
		return res, fmt.Errorf("failed to update student record: %w", err)
	}
	res.UserUpdated = true

	return res, nil
}

// detachUserRefs removes the subject reference from the teacher and
// every listed student without touching the subject document. Used by
// the archive cascade (and defensively before permanent deletion),
// where the subject keeps its own references so the operation stays
// reversible. Best-effort: individual failures are logged and the
// first one is returned after the sweep completes.
func (m *relationshipManager) detachUserRefs(ctx context.Context, subject *domain.Subject) error {
	return m.sweepUserRefs(ctx, subject, false)
}

// attachUserRefs is the inverse of detachUserRefs, used by restore.
func (m *relationshipManager) attachUserRefs(ctx context.Context, subject *domain.Subject) error {
	return m.sweepUserRefs(ctx, subject, true)
}

func (m *relationshipManager) sweepUserRefs(ctx context.Context, subject *domain.Subject, attach bool) error {
	var firstErr error

	if subject.TeacherID != "" {
		if err := m.updateUserRef(ctx, subject.TeacherID, subject.ID, attach); err != nil {
			firstErr = err
		}
	}

	for _, studentID := range subject.StudentIDs {
		if err := m.updateUserRef(ctx, studentID, subject.ID, attach); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (m *relationshipManager) updateUserRef(ctx context.Context, userID, subjectID string, attach bool) error {
	user, err := m.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Dangling reference, nothing to update.
			m.logger.Warn("Referenced user no longer exists",
				zap.String("user_id", userID),
				zap.String("subject_id", subjectID))
			return nil
		}
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	switch user.Role {
	case domain.RoleTeacher:
		if attach {
			user.AddAssignedSubject(subjectID)
		} else {
			user.RemoveAssignedSubject(subjectID)
		}
	case domain.RoleStudent:
		if attach {
			user.AddEnrolledSubject(subjectID)
		} else {
			user.RemoveEnrolledSubject(subjectID)
		}
	default:
		return nil
	}

	if err := m.store.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return nil
}

func (m *relationshipManager) logLinkFailure(op, subjectID, userID string, res linkResult, err error) {
	m.logger.Error("Relationship update partially completed",
		zap.String("op", op),
		zap.String("subject_id", subjectID),
		zap.String("user_id", userID),
		zap.Bool("subject_updated", res.SubjectUpdated),
		zap.Bool("user_updated", res.UserUpdated),
		zap.Error(err))
}
