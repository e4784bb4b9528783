package service

import (
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/storage"
	"github.com/classpoint/school-backend/pkg/config"
)

// Services aggregates all application services
type Services struct {
	Auth       *AuthService
	Lookup     *LookupService
	Subject    *SubjectService
	Assignment *AssignmentService
	Enrollment *EnrollmentService
	Event      *EventService
	Seeder     *HolidaySeeder
	SeedWorker *SeederWorker
}

// NewServices creates a new Services instance
func NewServices(store storage.Store, cfg *config.Config, logger *zap.Logger) *Services {
	lookup := NewLookupService(store, logger)
	links := newRelationshipManager(store, logger)
	seeder := NewHolidaySeeder(store, logger)

	return &Services{
		Auth:       NewAuthService(store, cfg, logger),
		Lookup:     lookup,
		Subject:    NewSubjectService(store, lookup, links, logger),
		Assignment: NewAssignmentService(store, lookup, links, logger),
		Enrollment: NewEnrollmentService(store, lookup, links, logger),
		Event:      NewEventService(store, logger),
		Seeder:     seeder,
		SeedWorker: NewSeederWorker(cfg.Seeder, seeder, logger),
	}
}

// Start starts background workers
func (s *Services) Start() {
	if s.SeedWorker != nil {
		s.SeedWorker.Start()
	}
}

// Stop gracefully stops background workers
func (s *Services) Stop() {
	if s.SeedWorker != nil {
		s.SeedWorker.Stop()
	}
}
