package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxStudentsPerSubject caps a subject's student roster.
	MaxStudentsPerSubject = 30
	// MaxSubjectsPerTeacher caps a teacher's non-archived subject load,
	// checked at assignment time.
	MaxSubjectsPerTeacher = 10
)

// Subject represents a class offering for a school year.
// TeacherID and StudentIDs mirror the assigned_subjects / enrolled_subjects
// sets on the user records; the two sides are always updated together.
type Subject struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	GradeLevel  string `json:"grade_level,omitempty" bson:"grade_level,omitempty"`
	Section     string `json:"section,omitempty" bson:"section,omitempty"`
	SchoolYear  string `json:"school_year" bson:"school_year"`

	TeacherID  string   `json:"teacher,omitempty" bson:"teacher,omitempty"`
	StudentIDs []string `json:"students" bson:"students"`

	IsArchived bool       `json:"is_archived" bson:"is_archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" bson:"archived_at,omitempty"`
	ArchivedBy string     `json:"archived_by,omitempty" bson:"archived_by,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewSubjectID creates a new subject document id.
func NewSubjectID() string {
	return uuid.New().String()
}

// IsFull reports whether the roster is at capacity.
func (s *Subject) IsFull() bool {
	return len(s.StudentIDs) >= MaxStudentsPerSubject
}

// HasStudent reports whether the student is on the roster.
func (s *Subject) HasStudent(studentID string) bool {
	for _, id := range s.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// AddStudent appends a student to the roster, preserving order.
func (s *Subject) AddStudent(studentID string) {
	if s.HasStudent(studentID) {
		return
	}
	s.StudentIDs = append(s.StudentIDs, studentID)
}

// RemoveStudent removes a student from the roster.
func (s *Subject) RemoveStudent(studentID string) {
	s.StudentIDs = removeRef(s.StudentIDs, studentID)
}

// CreateSubjectRequest is the payload for creating a subject.
// Teacher is an identifier (id, username or email) and optional;
// a requesting teacher who omits it is self-assigned.
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	GradeLevel  string `json:"grade_level"`
	Section     string `json:"section"`
	SchoolYear  string `json:"school_year" binding:"required"`
	Teacher     string `json:"teacher"`
}

// UpdateSubjectRequest is a partial update; only supplied fields change.
// Teacher accepts "" or the literal "null" (case-insensitive) to clear
// the assignment explicitly.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	GradeLevel  *string `json:"grade_level,omitempty"`
	Section     *string `json:"section,omitempty"`
	SchoolYear  *string `json:"school_year,omitempty"`
	Teacher     *string `json:"teacher,omitempty"`
}

// ClearsTeacher reports whether the update explicitly clears the teacher.
func (r *UpdateSubjectRequest) ClearsTeacher() bool {
	if r.Teacher == nil {
		return false
	}
	t := *r.Teacher
	return t == "" || strings.EqualFold(t, "null")
}
