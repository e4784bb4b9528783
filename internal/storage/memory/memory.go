package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// Store implements an in-memory storage
type Store struct {
	users      *UserStore
	subjects   *SubjectStore
	holidays   *HolidayStore
	events     *EventStore
	activities *ActivityStore
	grades     *GradeStore
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		users:      &UserStore{data: make(map[string]*domain.User)},
		subjects:   &SubjectStore{data: make(map[string]*domain.Subject)},
		holidays:   &HolidayStore{data: make(map[string]*domain.Holiday)},
		events:     &EventStore{data: make(map[string]*domain.Event)},
		activities: &ActivityStore{data: make(map[string]*domain.Activity)},
		grades:     &GradeStore{data: make(map[string]*domain.Grade)},
	}
}

func (s *Store) Users() storage.UserStore          { return s.users }
func (s *Store) Subjects() storage.SubjectStore    { return s.subjects }
func (s *Store) Holidays() storage.HolidayStore    { return s.holidays }
func (s *Store) Events() storage.EventStore        { return s.events }
func (s *Store) Activities() storage.ActivityStore { return s.activities }
func (s *Store) Grades() storage.GradeStore        { return s.grades }
func (s *Store) Close() error                      { return nil }
func (s *Store) Ping(ctx context.Context) error    { return nil }

// UserStore implements in-memory user storage
type UserStore struct {
	mu   sync.RWMutex
	data map[string]*domain.User
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.AssignedSubjects = append([]string(nil), u.AssignedSubjects...)
	c.EnrolledSubjects = append([]string(nil), u.EnrolledSubjects...)
	return &c
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[user.ID]; exists {
		return storage.ErrAlreadyExists
	}
	for _, u := range s.data {
		if u.Username == user.Username || u.Email == user.Email {
			return storage.ErrAlreadyExists
		}
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.data[user.ID] = copyUser(user)
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *UserStore) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.data {
		if user.Username == identifier || user.Email == identifier {
			return copyUser(user), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[user.ID]; !exists {
		return storage.ErrNotFound
	}

	user.UpdatedAt = time.Now()
	s.data[user.ID] = copyUser(user)
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *UserStore) List(ctx context.Context, q storage.ListQuery) ([]*domain.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q.Normalize()

	var matched []*domain.User
	for _, user := range s.data {
		if matchFilters(q.Filters, userField(user)) {
			matched = append(matched, copyUser(user))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return sortLess(q.Sort, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, q), total, nil
}

func userField(u *domain.User) fieldFn {
	return func(name string) (string, bool) {
		switch name {
		case "_id":
			return u.ID, true
		case "username":
			return u.Username, true
		case "email":
			return u.Email, true
		case "role":
			return string(u.Role), true
		case "status":
			return string(u.Status), true
		}
		return "", false
	}
}

// SubjectStore implements in-memory subject storage
type SubjectStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Subject
}

func copySubject(s *domain.Subject) *domain.Subject {
	c := *s
	c.StudentIDs = append([]string(nil), s.StudentIDs...)
	if s.ArchivedAt != nil {
		at := *s.ArchivedAt
		c.ArchivedAt = &at
	}
	return &c
}

func (s *SubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[subject.ID]; exists {
		return storage.ErrAlreadyExists
	}

	subject.CreatedAt = time.Now()
	subject.UpdatedAt = time.Now()
	if subject.StudentIDs == nil {
		subject.StudentIDs = []string{}
	}
	s.data[subject.ID] = copySubject(subject)
	return nil
}

func (s *SubjectStore) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subject, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySubject(subject), nil
}

func (s *SubjectStore) Update(ctx context.Context, subject *domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[subject.ID]; !exists {
		return storage.ErrNotFound
	}

	subject.UpdatedAt = time.Now()
	s.data[subject.ID] = copySubject(subject)
	return nil
}

func (s *SubjectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *SubjectStore) List(ctx context.Context, q storage.ListQuery) ([]*domain.Subject, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q.Normalize()

	var matched []*domain.Subject
	for _, subject := range s.data {
		if matchFilters(q.Filters, subjectField(subject)) {
			matched = append(matched, copySubject(subject))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return sortLess(q.Sort, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, q), total, nil
}

func subjectField(s *domain.Subject) fieldFn {
	return func(name string) (string, bool) {
		switch name {
		case "_id":
			return s.ID, true
		case "name":
			return s.Name, true
		case "teacher":
			return s.TeacherID, true
		case "school_year":
			return s.SchoolYear, true
		case "grade_level":
			return s.GradeLevel, true
		case "section":
			return s.Section, true
		case "is_archived":
			return strconv.FormatBool(s.IsArchived), true
		}
		return "", false
	}
}

func (s *SubjectStore) CountActiveByTeacher(ctx context.Context, teacherID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, subject := range s.data {
		if subject.TeacherID == teacherID && !subject.IsArchived {
			count++
		}
	}
	return count, nil
}

// HolidayStore implements in-memory holiday storage
type HolidayStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Holiday
}

func (s *HolidayStore) Create(ctx context.Context, holiday *domain.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.data {
		if h.Name == holiday.Name && h.Month == holiday.Month && h.Day == holiday.Day {
			return storage.ErrAlreadyExists
		}
	}

	holiday.CreatedAt = time.Now()
	holiday.UpdatedAt = time.Now()
	c := *holiday
	s.data[holiday.ID] = &c
	return nil
}

func (s *HolidayStore) GetAllActive(ctx context.Context) ([]*domain.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var holidays []*domain.Holiday
	for _, h := range s.data {
		if h.IsActive {
			c := *h
			holidays = append(holidays, &c)
		}
	}
	sort.Slice(holidays, func(i, j int) bool {
		if holidays[i].Month != holidays[j].Month {
			return holidays[i].Month < holidays[j].Month
		}
		return holidays[i].Day < holidays[j].Day
	})
	return holidays, nil
}

func (s *HolidayStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

// EventStore implements in-memory event storage
type EventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Event
}

func (s *EventStore) Create(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.EventType == domain.EventTypeHoliday {
		for _, e := range s.data {
			if e.EventType == domain.EventTypeHoliday &&
				e.Title == event.Title &&
				e.StartDate.Equal(event.StartDate) &&
				e.EndDate.Equal(event.EndDate) {
				return storage.ErrAlreadyExists
			}
		}
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	c := *event
	s.data[event.ID] = &c
	return nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	c := *event
	return &c, nil
}

func (s *EventStore) FindHolidayEvent(ctx context.Context, title string, start, end time.Time) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.data {
		if e.EventType == domain.EventTypeHoliday &&
			e.Title == title &&
			e.StartDate.Equal(start) &&
			e.EndDate.Equal(end) {
			c := *e
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *EventStore) List(ctx context.Context, q storage.ListQuery) ([]*domain.Event, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q.Normalize()

	var matched []*domain.Event
	for _, e := range s.data {
		if matchFilters(q.Filters, eventField(e)) {
			c := *e
			matched = append(matched, &c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return sortLess(q.Sort, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return paginate(matched, q), total, nil
}

func eventField(e *domain.Event) fieldFn {
	return func(name string) (string, bool) {
		switch name {
		case "_id":
			return e.ID, true
		case "title":
			return e.Title, true
		case "event_type":
			return e.EventType, true
		case "target_audience":
			return e.TargetAudience, true
		case "priority":
			return e.Priority, true
		}
		return "", false
	}
}

// ActivityStore implements in-memory activity storage
type ActivityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Activity
}

func (s *ActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activity.CreatedAt = time.Now()
	c := *activity
	s.data[activity.ID] = &c
	return nil
}

func (s *ActivityStore) CountBySubject(ctx context.Context, subjectID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, a := range s.data {
		if a.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (s *ActivityStore) DeleteBySubject(ctx context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.data {
		if a.SubjectID == subjectID {
			delete(s.data, id)
		}
	}
	return nil
}

// GradeStore implements in-memory grade storage
type GradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Grade
}

func (s *GradeStore) Create(ctx context.Context, grade *domain.Grade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grade.CreatedAt = time.Now()
	c := *grade
	s.data[grade.ID] = &c
	return nil
}

func (s *GradeStore) CountBySubject(ctx context.Context, subjectID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, g := range s.data {
		if g.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

func (s *GradeStore) DeleteBySubject(ctx context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, g := range s.data {
		if g.SubjectID == subjectID {
			delete(s.data, id)
		}
	}
	return nil
}

// fieldFn resolves a document field to its string form for filtering.
type fieldFn func(name string) (string, bool)

func matchFilters(filters []storage.Filter, field fieldFn) bool {
	for _, f := range filters {
		value, ok := field(f.Field)
		if !ok {
			return false
		}
		if !matchFilter(f, value) {
			return false
		}
	}
	return true
}

func matchFilter(f storage.Filter, value string) bool {
	switch f.Op {
	case storage.OpEq:
		return len(f.Values) > 0 && f.Values[0] == value
	case storage.OpIn:
		for _, v := range f.Values {
			if v == value {
				return true
			}
		}
		return false
	case storage.OpGt, storage.OpGte, storage.OpLt, storage.OpLte:
		if len(f.Values) == 0 {
			return false
		}
		return compare(f.Op, value, f.Values[0])
	}
	return false
}

func compare(op, value, want string) bool {
	// Numeric comparison when both sides parse, lexical otherwise.
	var cmp int
	a, errA := strconv.ParseFloat(value, 64)
	b, errB := strconv.ParseFloat(want, 64)
	if errA == nil && errB == nil {
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		switch {
		case value < want:
			cmp = -1
		case value > want:
			cmp = 1
		}
	}

	switch op {
	case storage.OpGt:
		return cmp > 0
	case storage.OpGte:
		return cmp >= 0
	case storage.OpLt:
		return cmp < 0
	case storage.OpLte:
		return cmp <= 0
	}
	return false
}

// sortLess orders by created_at only; the memory store does not try to
// mirror arbitrary-field sorting, which only the Mongo store supports.
func sortLess(sortKeys []string, a, b time.Time) bool {
	desc := false
	for _, key := range sortKeys {
		if key == "created_at" {
			desc = false
			break
		}
		if key == "-created_at" {
			desc = true
			break
		}
	}
	if desc {
		return a.After(b)
	}
	return a.Before(b)
}

func paginate[T any](items []T, q storage.ListQuery) []T {
	start := q.Skip()
	if start >= len(items) {
		return nil
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
