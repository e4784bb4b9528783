package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/classpoint/school-backend/internal/domain"
)

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	student := seedUser(t, store, domain.RoleStudent, "student1")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	enrolled, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, student.Username)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if !enrolled.HasStudent(student.ID) {
		t.Error("subject roster does not contain the student")
	}
	if !reloadUser(t, store, student.ID).HasEnrolledSubject(subject.ID) {
		t.Error("student record does not reference the subject")
	}
}

func TestEnrollmentService_Enroll_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	student := seedUser(t, store, domain.RoleStudent, "student1")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, student.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, student.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("second Enroll() error = %v, want ErrAlreadyEnrolled", err)
	}

	if got := len(reloadSubject(t, store, subject.ID).StudentIDs); got != 1 {
		t.Errorf("roster size = %d after duplicate enrollment, want 1", got)
	}
}

func TestEnrollmentService_Enroll_Authorization(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	owner := seedUser(t, store, domain.RoleTeacher, "owner")
	outsider := seedUser(t, store, domain.RoleTeacher, "outsider")
	student := seedUser(t, store, domain.RoleStudent, "student1")
	student2 := seedUser(t, store, domain.RoleStudent, "student2")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{
		Name:       "Math 7",
		SchoolYear: "2026-2027",
		Teacher:    owner.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := svc.Enrollment.Enroll(ctx, outsider, subject.ID, student.ID); !errors.Is(err, ErrNotSubjectTeacher) {
		t.Errorf("outsider Enroll() error = %v, want ErrNotSubjectTeacher", err)
	}
	if _, _, err := svc.Enrollment.Enroll(ctx, owner, subject.ID, student.ID); err != nil {
		t.Errorf("owning teacher Enroll() error = %v", err)
	}
	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, student2.ID); err != nil {
		t.Errorf("admin Enroll() error = %v", err)
	}
}

func TestEnrollmentService_Enroll_InactiveStudent(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	inactive := seedUserWithStatus(t, store, domain.RoleStudent, "inactive", domain.StatusInactive)

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, inactive.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("Enroll() of inactive student error = %v, want ErrStudentNotFound", err)
	}
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	student := seedUser(t, store, domain.RoleStudent, "student1")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Not enrolled yet.
	if _, _, err := svc.Enrollment.Unenroll(ctx, admin, subject.ID, student.ID); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("Unenroll() error = %v, want ErrNotEnrolled", err)
	}

	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, student.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if _, _, err := svc.Enrollment.Unenroll(ctx, admin, subject.ID, student.ID); err != nil {
		t.Fatalf("Unenroll() error = %v", err)
	}

	if reloadSubject(t, store, subject.ID).HasStudent(student.ID) {
		t.Error("roster still contains the student")
	}
	if reloadUser(t, store, student.ID).HasEnrolledSubject(subject.ID) {
		t.Error("student record still references the subject")
	}
}

func TestEnrollmentService_BulkEnroll_NearCapacity(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 28 students already on the roster.
	for i := 0; i < 28; i++ {
		s := seedUser(t, store, domain.RoleStudent, fmt.Sprintf("existing%02d", i))
		if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, s.ID); err != nil {
			t.Fatalf("Enroll() #%d error = %v", i, err)
		}
	}

	var identifiers []string
	for i := 0; i < 5; i++ {
		s := seedUser(t, store, domain.RoleStudent, fmt.Sprintf("batch%d", i))
		identifiers = append(identifiers, s.ID)
	}

	result, err := svc.Enrollment.BulkEnroll(ctx, admin, subject.ID, identifiers)
	if err != nil {
		t.Fatalf("BulkEnroll() error = %v", err)
	}

	if result.Attempted != 5 || result.Enrolled != 2 || result.Failed != 3 {
		t.Fatalf("BulkEnroll() = %d attempted / %d enrolled / %d failed, want 5/2/3",
			result.Attempted, result.Enrolled, result.Failed)
	}
	if result.Capacity != "30/30" {
		t.Errorf("capacity = %q, want \"30/30\"", result.Capacity)
	}
	for _, f := range result.Failures {
		if f.Reason != ReasonSubjectFull {
			t.Errorf("failure reason = %q, want %q", f.Reason, ReasonSubjectFull)
		}
	}
	if got := len(reloadSubject(t, store, subject.ID).StudentIDs); got != domain.MaxStudentsPerSubject {
		t.Errorf("roster size = %d, want %d", got, domain.MaxStudentsPerSubject)
	}
}

func TestEnrollmentService_BulkEnroll_MixedFailures(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")
	enrolled := seedUser(t, store, domain.RoleStudent, "already")
	fresh := seedUser(t, store, domain.RoleStudent, "fresh")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, enrolled.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	result, err := svc.Enrollment.BulkEnroll(ctx, admin, subject.ID, []string{
		enrolled.ID, // duplicate
		"ghost",     // unknown
		fresh.ID,    // fine
	})
	if err != nil {
		t.Fatalf("BulkEnroll() error = %v", err)
	}

	if result.Enrolled != 1 || result.Failed != 2 {
		t.Fatalf("BulkEnroll() = %d enrolled / %d failed, want 1/2", result.Enrolled, result.Failed)
	}
	want := map[string]string{
		enrolled.ID: ReasonAlreadyEnrolled,
		"ghost":     ReasonStudentNotFound,
	}
	for _, f := range result.Failures {
		if want[f.Identifier] != f.Reason {
			t.Errorf("failure for %q = %q, want %q", f.Identifier, f.Reason, want[f.Identifier])
		}
	}
}

func TestEnrollmentService_BulkEnroll_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	admin := seedUser(t, store, domain.RoleAdmin, "admin")

	subject, err := svc.Subject.Create(ctx, admin, &domain.CreateSubjectRequest{Name: "Math 7", SchoolYear: "2026-2027"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Enrollment.BulkEnroll(ctx, admin, subject.ID, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("empty batch error = %v, want ErrEmptyBatch", err)
	}

	for i := 0; i < domain.MaxStudentsPerSubject; i++ {
		s := seedUser(t, store, domain.RoleStudent, fmt.Sprintf("filler%02d", i))
		if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, s.ID); err != nil {
			t.Fatalf("Enroll() #%d error = %v", i, err)
		}
	}

	late := seedUser(t, store, domain.RoleStudent, "late")
	if _, err := svc.Enrollment.BulkEnroll(ctx, admin, subject.ID, []string{late.ID}); !errors.Is(err, ErrSubjectFull) {
		t.Errorf("bulk into full subject error = %v, want ErrSubjectFull", err)
	}
	if _, _, err := svc.Enrollment.Enroll(ctx, admin, subject.ID, late.ID); !errors.Is(err, ErrSubjectFull) {
		t.Errorf("single enroll into full subject error = %v, want ErrSubjectFull", err)
	}
}
