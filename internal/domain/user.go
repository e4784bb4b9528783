package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role defines what a user is allowed to do and which subject
// references the user record carries.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleTeacher Role = "Teacher"
	RoleStudent Role = "Student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Status is the account lifecycle state. Only active users are
// eligible targets for enrollment and assignment lookups.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
	StatusArchived  Status = "archived"
)

// User represents a school account. Role is immutable after creation.
// AssignedSubjects is only populated for teachers, EnrolledSubjects
// only for students; the mutators below enforce that.
type User struct {
	ID           string  `json:"id" bson:"_id"`
	Username     string  `json:"username" bson:"username"`
	Email        string  `json:"email" bson:"email"`
	PasswordHash string  `json:"-" bson:"password_hash"`
	Role         Role    `json:"role" bson:"role"`
	Status       Status  `json:"status" bson:"status"`
	FirstName    string  `json:"first_name" bson:"first_name"`
	LastName     string  `json:"last_name" bson:"last_name"`
	Phone        *string `json:"phone,omitempty" bson:"phone,omitempty"`

	// Subject references, role-gated.
	AssignedSubjects []string `json:"assigned_subjects,omitempty" bson:"assigned_subjects,omitempty"`
	EnrolledSubjects []string `json:"enrolled_subjects,omitempty" bson:"enrolled_subjects,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewUserID creates a new user document id.
func NewUserID() string {
	return uuid.New().String()
}

// IsValidID reports whether s is syntactically a document id.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// FullName returns the display name for user-facing messages.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// IsActive reports whether the user is eligible for lookup in
// enrollment and assignment flows.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasAssignedSubject reports whether a teacher carries the subject reference.
func (u *User) HasAssignedSubject(subjectID string) bool {
	for _, id := range u.AssignedSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}

// AddAssignedSubject adds a subject reference to a teacher's set.
// It is a no-op for non-teachers and for duplicates.
func (u *User) AddAssignedSubject(subjectID string) {
	if u.Role != RoleTeacher || u.HasAssignedSubject(subjectID) {
		return
	}
	u.AssignedSubjects = append(u.AssignedSubjects, subjectID)
}

// RemoveAssignedSubject removes a subject reference from a teacher's set.
func (u *User) RemoveAssignedSubject(subjectID string) {
	u.AssignedSubjects = removeRef(u.AssignedSubjects, subjectID)
}

// HasEnrolledSubject reports whether a student carries the subject reference.
func (u *User) HasEnrolledSubject(subjectID string) bool {
	for _, id := range u.EnrolledSubjects {
		if id == subjectID {
			return true
		}
	}
	return false
}

// AddEnrolledSubject adds a subject reference to a student's set.
// It is a no-op for non-students and for duplicates.
func (u *User) AddEnrolledSubject(subjectID string) {
	if u.Role != RoleStudent || u.HasEnrolledSubject(subjectID) {
		return
	}
	u.EnrolledSubjects = append(u.EnrolledSubjects, subjectID)
}

// RemoveEnrolledSubject removes a subject reference from a student's set.
func (u *User) RemoveEnrolledSubject(subjectID string) {
	u.EnrolledSubjects = removeRef(u.EnrolledSubjects, subjectID)
}

func removeRef(refs []string, id string) []string {
	out := refs[:0]
	for _, r := range refs {
		if r != id {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// RegisterRequest is the payload for creating a user account.
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      Role    `json:"role" binding:"required"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
}

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
