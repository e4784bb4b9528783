package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/classpoint/school-backend/internal/domain"
)

func TestAssignmentService_Assign(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	teacher := seedUser(t, store, domain.RoleTeacher, "teacher1")
	subject := seedSubject(t, store, "Math 7")

	got, _, err := svc.Assignment.Assign(ctx, subject.ID, teacher.Email)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if got.TeacherID != teacher.ID {
		t.Errorf("subject teacher = %q, want %q", got.TeacherID, teacher.ID)
	}
	if !reloadUser(t, store, teacher.ID).HasAssignedSubject(subject.ID) {
		t.Error("teacher's assigned set does not contain the subject")
	}
}

func TestAssignmentService_Assign_ReplacesTeacher(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	first := seedUser(t, store, domain.RoleTeacher, "first")
	second := seedUser(t, store, domain.RoleTeacher, "second")
	subject := seedSubject(t, store, "Math 7")

	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, first.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, second.ID); err != nil {
		t.Fatalf("reassign error = %v", err)
	}

	if reloadUser(t, store, first.ID).HasAssignedSubject(subject.ID) {
		t.Error("old teacher still carries the subject reference")
	}
	if !reloadUser(t, store, second.ID).HasAssignedSubject(subject.ID) {
		t.Error("new teacher is missing the subject reference")
	}
	if reloadSubject(t, store, subject.ID).TeacherID != second.ID {
		t.Error("subject does not reference the new teacher")
	}
}

func TestAssignmentService_Assign_SameTeacherNoop(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	teacher := seedUser(t, store, domain.RoleTeacher, "teacher1")
	subject := seedSubject(t, store, "Math 7")

	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, teacher.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	// Re-assigning the current teacher succeeds even at capacity.
	for i := 0; i < domain.MaxSubjectsPerTeacher-1; i++ {
		extra := seedSubject(t, store, fmt.Sprintf("Extra %d", i))
		if _, _, err := svc.Assignment.Assign(ctx, extra.ID, teacher.ID); err != nil {
			t.Fatalf("Assign() extra #%d error = %v", i, err)
		}
	}
	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, teacher.ID); err != nil {
		t.Errorf("same-teacher reassign error = %v", err)
	}
}

func TestAssignmentService_Assign_CapacityEnforced(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	teacher := seedUser(t, store, domain.RoleTeacher, "busy")

	for i := 0; i < domain.MaxSubjectsPerTeacher; i++ {
		subject := seedSubject(t, store, fmt.Sprintf("Subject %d", i))
		if _, _, err := svc.Assignment.Assign(ctx, subject.ID, teacher.ID); err != nil {
			t.Fatalf("Assign() #%d error = %v", i, err)
		}
	}

	extra := seedSubject(t, store, "One Too Many")
	_, _, err := svc.Assignment.Assign(ctx, extra.ID, teacher.ID)
	var capErr *TeacherCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Assign() error = %v, want TeacherCapacityError", err)
	}
}

func TestAssignmentService_Assign_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	subject := seedSubject(t, store, "Math 7")
	student := seedUser(t, store, domain.RoleStudent, "student1")

	if _, _, err := svc.Assignment.Assign(ctx, "bogus", "teacher"); !errors.Is(err, ErrInvalidSubjectID) {
		t.Errorf("invalid id error = %v, want ErrInvalidSubjectID", err)
	}
	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, "nobody"); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("unknown teacher error = %v, want ErrTeacherNotFound", err)
	}
	// A student identifier must not resolve as a teacher.
	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, student.ID); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("student identifier error = %v, want ErrTeacherNotFound", err)
	}
}

func TestAssignmentService_Unassign(t *testing.T) {
	ctx := context.Background()
	svc, store := testServices(t)
	teacher := seedUser(t, store, domain.RoleTeacher, "teacher1")
	subject := seedSubject(t, store, "Math 7")

	// No teacher assigned: reported, not an error.
	result, err := svc.Assignment.Unassign(ctx, subject.ID)
	if err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}
	if result.Removed {
		t.Error("Unassign() on unassigned subject reported Removed=true")
	}

	if _, _, err := svc.Assignment.Assign(ctx, subject.ID, teacher.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	result, err = svc.Assignment.Unassign(ctx, subject.ID)
	if err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}
	if !result.Removed || result.Teacher == nil || result.Teacher.ID != teacher.ID {
		t.Error("Unassign() did not report the removed teacher")
	}
	if reloadSubject(t, store, subject.ID).TeacherID != "" {
		t.Error("subject still references the teacher")
	}
	if reloadUser(t, store, teacher.ID).HasAssignedSubject(subject.ID) {
		t.Error("teacher still carries the subject reference")
	}
}
