package domain

import (
	"fmt"
	"testing"
)

func TestSubject_AddStudent(t *testing.T) {
	s := &Subject{ID: NewSubjectID()}

	s.AddStudent("s1")
	s.AddStudent("s1")
	if !s.HasStudent("s1") {
		t.Error("HasStudent() = false after add")
	}
	if len(s.StudentIDs) != 1 {
		t.Errorf("roster size = %d after duplicate add, want 1", len(s.StudentIDs))
	}
}

func TestSubject_IsFull(t *testing.T) {
	s := &Subject{ID: NewSubjectID()}
	for i := 0; i < MaxStudentsPerSubject; i++ {
		if s.IsFull() {
			t.Fatalf("IsFull() = true at %d students", i)
		}
		s.AddStudent(fmt.Sprintf("s%d", i))
	}
	if !s.IsFull() {
		t.Errorf("IsFull() = false at %d students", MaxStudentsPerSubject)
	}
}

func TestSubject_RemoveStudent(t *testing.T) {
	s := &Subject{ID: NewSubjectID(), StudentIDs: []string{"s1", "s2", "s3"}}

	s.RemoveStudent("s2")
	s.RemoveStudent("s2")
	// Order of the remaining entries is preserved.
	if len(s.StudentIDs) != 2 || s.StudentIDs[0] != "s1" || s.StudentIDs[1] != "s3" {
		t.Errorf("roster after removal = %v, want [s1 s3]", s.StudentIDs)
	}
}

func TestUpdateSubjectRequest_ClearsTeacher(t *testing.T) {
	tests := []struct {
		name    string
		teacher *string
		want    bool
	}{
		{"nil", nil, false},
		{"empty string", ptr(""), true},
		{"null literal", ptr("null"), true},
		{"NULL literal", ptr("NULL"), true},
		{"identifier", ptr("teacher1"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &UpdateSubjectRequest{Teacher: tt.teacher}
			if got := req.ClearsTeacher(); got != tt.want {
				t.Errorf("ClearsTeacher() = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr(s string) *string { return &s }
