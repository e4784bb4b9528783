package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

func newUser(username string, role domain.Role) *domain.User {
	return &domain.User{
		ID:       domain.NewUserID(),
		Username: username,
		Email:    username + "@school.test",
		Role:     role,
		Status:   domain.StatusActive,
	}
}

func TestUserStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	user := newUser("alice", domain.RoleTeacher)

	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q, want alice", got.Username)
	}

	got.FirstName = "Alice"
	if err := store.Users().Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ = store.Users().GetByID(ctx, user.ID)
	if got.FirstName != "Alice" {
		t.Errorf("first name = %q after update, want Alice", got.FirstName)
	}

	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Users().GetByID(ctx, user.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestUserStore_UniqueUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Users().Create(ctx, newUser("alice", domain.RoleTeacher)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := newUser("alice", domain.RoleStudent)
	if err := store.Users().Create(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate username error = %v, want ErrAlreadyExists", err)
	}

	dupEmail := newUser("bob", domain.RoleStudent)
	dupEmail.Email = "alice@school.test"
	if err := store.Users().Create(ctx, dupEmail); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate email error = %v, want ErrAlreadyExists", err)
	}
}

func TestUserStore_GetByUsernameOrEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	user := newUser("alice", domain.RoleTeacher)
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, identifier := range []string{"alice", "alice@school.test"} {
		got, err := store.Users().GetByUsernameOrEmail(ctx, identifier)
		if err != nil {
			t.Fatalf("GetByUsernameOrEmail(%q) error = %v", identifier, err)
		}
		if got.ID != user.ID {
			t.Errorf("resolved %q, want %q", got.ID, user.ID)
		}
	}
	if _, err := store.Users().GetByUsernameOrEmail(ctx, "carol"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown identifier error = %v, want ErrNotFound", err)
	}
}

func TestUserStore_DefensiveCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	user := newUser("alice", domain.RoleTeacher)
	user.AssignedSubjects = []string{"s1"}
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, _ := store.Users().GetByID(ctx, user.ID)
	got.AssignedSubjects[0] = "mutated"

	again, _ := store.Users().GetByID(ctx, user.ID)
	if again.AssignedSubjects[0] != "s1" {
		t.Error("stored state mutated through a returned copy")
	}
}

func TestUserStore_List_FilterAndPaginate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for i := 0; i < 3; i++ {
		if err := store.Users().Create(ctx, newUser(fmt.Sprintf("teacher%d", i), domain.RoleTeacher)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := store.Users().Create(ctx, newUser(fmt.Sprintf("student%d", i), domain.RoleStudent)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	q := storage.ListQuery{Limit: 2}
	q = q.WithFilter("role", string(domain.RoleStudent))
	q.Normalize()

	users, total, err := store.Users().List(ctx, q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(users) != 2 {
		t.Errorf("page size = %d, want 2", len(users))
	}
	for _, u := range users {
		if u.Role != domain.RoleStudent {
			t.Errorf("filter leaked role %q", u.Role)
		}
	}

	q.Page = 3
	users, _, err = store.Users().List(ctx, q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("last page size = %d, want 1", len(users))
	}
}

func TestSubjectStore_CountActiveByTeacher(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	teacherID := domain.NewUserID()

	for i := 0; i < 3; i++ {
		if err := store.Subjects().Create(ctx, &domain.Subject{
			ID:        domain.NewSubjectID(),
			Name:      fmt.Sprintf("Subject %d", i),
			TeacherID: teacherID,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	archived := &domain.Subject{
		ID:         domain.NewSubjectID(),
		Name:       "Archived",
		TeacherID:  teacherID,
		IsArchived: true,
	}
	if err := store.Subjects().Create(ctx, archived); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, err := store.Subjects().CountActiveByTeacher(ctx, teacherID)
	if err != nil {
		t.Fatalf("CountActiveByTeacher() error = %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3 (archived subjects excluded)", count)
	}
}

func TestSubjectStore_List_ComparisonFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, grade := range []string{"7", "8", "9"} {
		if err := store.Subjects().Create(ctx, &domain.Subject{
			ID:         domain.NewSubjectID(),
			Name:       "Math " + grade,
			GradeLevel: grade,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	q := storage.ListQuery{
		Filters: []storage.Filter{{Field: "grade_level", Op: storage.OpGte, Values: []string{"8"}}},
	}
	q.Normalize()
	subjects, total, err := store.Subjects().List(ctx, q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(subjects) != 2 {
		t.Errorf("gte filter matched %d/%d, want 2/2", len(subjects), total)
	}

	q = storage.ListQuery{
		Filters: []storage.Filter{{Field: "grade_level", Op: storage.OpIn, Values: []string{"7", "9"}}},
	}
	q.Normalize()
	_, total, err = store.Subjects().List(ctx, q)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("in filter matched %d, want 2", total)
	}
}

func TestHolidayStore_UniqueByNameAndDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	holiday := &domain.Holiday{
		ID:    domain.NewEventID(),
		Name:  "Labor Day",
		Month: 5,
		Day:   1,
	}
	if err := store.Holidays().Create(ctx, holiday); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &domain.Holiday{ID: domain.NewEventID(), Name: "Labor Day", Month: 5, Day: 1}
	if err := store.Holidays().Create(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate holiday error = %v, want ErrAlreadyExists", err)
	}
}

func TestEventStore_HolidayIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	date := time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)

	event := &domain.Event{
		ID:        domain.NewEventID(),
		Title:     "Christmas Day",
		StartDate: date,
		EndDate:   date,
		EventType: domain.EventTypeHoliday,
	}
	if err := store.Events().Create(ctx, event); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Same identity is rejected.
	dup := &domain.Event{
		ID:        domain.NewEventID(),
		Title:     "Christmas Day",
		StartDate: date,
		EndDate:   date,
		EventType: domain.EventTypeHoliday,
	}
	if err := store.Events().Create(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Errorf("duplicate holiday event error = %v, want ErrAlreadyExists", err)
	}

	// Non-holiday events with the same title are fine.
	general := &domain.Event{
		ID:        domain.NewEventID(),
		Title:     "Christmas Day",
		StartDate: date,
		EndDate:   date,
		EventType: domain.EventTypeGeneral,
	}
	if err := store.Events().Create(ctx, general); err != nil {
		t.Errorf("general event with same title error = %v", err)
	}

	found, err := store.Events().FindHolidayEvent(ctx, "Christmas Day", date, date)
	if err != nil {
		t.Fatalf("FindHolidayEvent() error = %v", err)
	}
	if found.ID != event.ID {
		t.Errorf("found %q, want %q", found.ID, event.ID)
	}
	if _, err := store.Events().FindHolidayEvent(ctx, "Christmas Day", date.AddDate(1, 0, 0), date.AddDate(1, 0, 0)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("different date error = %v, want ErrNotFound", err)
	}
}

func TestRecordStores_DeleteBySubject(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	subjectID := domain.NewSubjectID()
	otherID := domain.NewSubjectID()

	for i := 0; i < 2; i++ {
		if err := store.Activities().Create(ctx, &domain.Activity{ID: domain.NewEventID(), SubjectID: subjectID}); err != nil {
			t.Fatalf("Create() activity error = %v", err)
		}
		if err := store.Grades().Create(ctx, &domain.Grade{ID: domain.NewEventID(), SubjectID: subjectID}); err != nil {
			t.Fatalf("Create() grade error = %v", err)
		}
	}
	if err := store.Activities().Create(ctx, &domain.Activity{ID: domain.NewEventID(), SubjectID: otherID}); err != nil {
		t.Fatalf("Create() activity error = %v", err)
	}

	if err := store.Activities().DeleteBySubject(ctx, subjectID); err != nil {
		t.Fatalf("DeleteBySubject() error = %v", err)
	}
	if err := store.Grades().DeleteBySubject(ctx, subjectID); err != nil {
		t.Fatalf("DeleteBySubject() error = %v", err)
	}

	if n, _ := store.Activities().CountBySubject(ctx, subjectID); n != 0 {
		t.Errorf("activities left = %d, want 0", n)
	}
	if n, _ := store.Grades().CountBySubject(ctx, subjectID); n != 0 {
		t.Errorf("grades left = %d, want 0", n)
	}
	if n, _ := store.Activities().CountBySubject(ctx, otherID); n != 1 {
		t.Errorf("other subject's activities = %d, want 1", n)
	}
}
