package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

var (
	ErrNotSubjectTeacher = errors.New("only the subject's teacher or an admin can manage enrollment")
	ErrSubjectFull       = errors.New(ReasonSubjectFull)
	ErrAlreadyEnrolled   = errors.New(ReasonAlreadyEnrolled)
	ErrNotEnrolled       = errors.New("student is not enrolled in this subject")
	ErrStudentNotFound   = errors.New(ReasonStudentNotFound)
	ErrEmptyBatch        = errors.New("student identifier list is empty")
)

// Per-identifier failure reasons reported by bulk enrollment.
const (
	ReasonSubjectFull     = "Subject has reached maximum capacity of 30 students"
	ReasonAlreadyEnrolled = "Student is already enrolled in this subject"
	ReasonStudentNotFound = "Student not found or inactive"
)

// BulkEnrolled describes one successfully enrolled identifier.
type BulkEnrolled struct {
	Identifier string `json:"identifier"`
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
}

// BulkFailure describes one identifier the batch could not enroll.
type BulkFailure struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// BulkEnrollResult reports a bulk enrollment: totals, the resulting
// roster capacity and the per-identifier outcomes.
type BulkEnrollResult struct {
	Attempted int            `json:"attempted"`
	Enrolled  int            `json:"enrolled"`
	Failed    int            `json:"failed"`
	Capacity  string         `json:"capacity"`
	Students  []BulkEnrolled `json:"enrolled_students"`
	Failures  []BulkFailure  `json:"failures"`
}

// EnrollmentService manages student enrollment: single and bulk,
// capacity enforcement and partial-failure reporting.
type EnrollmentService struct {
	store  storage.Store
	lookup *LookupService
	links  *relationshipManager
	logger *zap.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store storage.Store, lookup *LookupService, links *relationshipManager, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		store:  store,
		lookup: lookup,
		links:  links,
		logger: logger.Named("enrollment-service"),
	}
}

// Enroll adds one active student to the subject roster. The actor must
// be an admin or the subject's own teacher.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *domain.User, subjectID, studentIdentifier string) (*domain.Subject, *domain.User, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(actor, subject); err != nil {
		return nil, nil, err
	}
	if subject.IsFull() {
		return nil, nil, ErrSubjectFull
	}

	student, err := s.lookup.FindByIdentifier(ctx, studentIdentifier, domain.RoleStudent, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}

	if subject.HasStudent(student.ID) {
		return nil, nil, ErrAlreadyEnrolled
	}

	if _, err := s.links.enroll(ctx, subject, student); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Student enrolled",
		zap.String("subject_id", subject.ID),
		zap.String("student_id", student.ID))
	return subject, student, nil
}

// Unenroll removes a student from the subject roster and from the
// student's enrolled set.
func (s *EnrollmentService) Unenroll(ctx context.Context, actor *domain.User, subjectID, studentIdentifier string) (*domain.Subject, *domain.User, error) {
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.authorize(actor, subject); err != nil {
		return nil, nil, err
	}

	student, err := s.lookup.FindByIdentifier(ctx, studentIdentifier, domain.RoleStudent, true)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrStudentNotFound
		}
		return nil, nil, err
	}

	if !subject.HasStudent(student.ID) {
		return nil, nil, ErrNotEnrolled
	}

	if _, err := s.links.unenroll(ctx, subject, student); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Student unenrolled",
		zap.String("subject_id", subject.ID),
		zap.String("student_id", student.ID))
	return subject, student, nil
}

// BulkEnroll processes identifiers in input order. The whole call is
// rejected only when the roster is already full; otherwise each
// identifier is attempted independently, later failures never roll
// back earlier successes, and once capacity is exhausted mid-batch the
// remaining identifiers are recorded as capacity failures.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, actor *domain.User, subjectID string, identifiers []string) (*BulkEnrollResult, error) {
	if len(identifiers) == 0 {
		return nil, ErrEmptyBatch
	}

	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, subject); err != nil {
		return nil, err
	}
	if subject.IsFull() {
		return nil, ErrSubjectFull
	}

	baseCount := len(subject.StudentIDs)
	result := &BulkEnrollResult{
		Attempted: len(identifiers),
		Students:  []BulkEnrolled{},
		Failures:  []BulkFailure{},
	}

	for _, identifier := range identifiers {
		if baseCount+len(result.Students) >= domain.MaxStudentsPerSubject {
			result.Failures = append(result.Failures, BulkFailure{
				Identifier: identifier,
				Reason:     ReasonSubjectFull,
			})
			continue
		}

		student, err := s.lookup.FindByIdentifier(ctx, identifier, domain.RoleStudent, true)
		if err != nil {
			reason := ReasonStudentNotFound
			if !errors.Is(err, ErrUserNotFound) {
				reason = "Lookup failed: " + err.Error()
			}
			result.Failures = append(result.Failures, BulkFailure{Identifier: identifier, Reason: reason})
			continue
		}

		if subject.HasStudent(student.ID) {
			result.Failures = append(result.Failures, BulkFailure{
				Identifier: identifier,
				Reason:     ReasonAlreadyEnrolled,
			})
			continue
		}

		if _, err := s.links.enroll(ctx, subject, student); err != nil {
			result.Failures = append(result.Failures, BulkFailure{
				Identifier: identifier,
				Reason:     "Enrollment failed: " + err.Error(),
			})
			continue
		}

		result.Students = append(result.Students, BulkEnrolled{
			Identifier: identifier,
			StudentID:  student.ID,
			Name:       student.FullName(),
		})
	}

	result.Enrolled = len(result.Students)
	result.Failed = len(result.Failures)
	result.Capacity = fmt.Sprintf("%d/%d", len(subject.StudentIDs), domain.MaxStudentsPerSubject)

	s.logger.Info("Bulk enrollment completed",
		zap.String("subject_id", subject.ID),
		zap.Int("attempted", result.Attempted),
		zap.Int("enrolled", result.Enrolled),
		zap.Int("failed", result.Failed))
	return result, nil
}

// authorize allows admins and the subject's own teacher; every other
// actor is forbidden.
func (s *EnrollmentService) authorize(actor *domain.User, subject *domain.Subject) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleTeacher && subject.TeacherID == actor.ID {
		return nil
	}
	return ErrNotSubjectTeacher
}

func (s *EnrollmentService) getSubject(ctx context.Context, id string) (*domain.Subject, error) {
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
