package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/storage"
)

// HolidaySeeder materializes the fixed holiday calendar into Event
// records for a rolling three-year window. It is a stateless
// reconciler: callers pass the current time, and every pass is
// idempotent because events are looked up by their holiday identity
// before insertion. Overlapping runs are safe for the same reason.
type HolidaySeeder struct {
	store  storage.Store
	logger *zap.Logger
}

// NewHolidaySeeder creates a new HolidaySeeder
func NewHolidaySeeder(store storage.Store, logger *zap.Logger) *HolidaySeeder {
	return &HolidaySeeder{
		store:  store,
		logger: logger.Named("holiday-seeder"),
	}
}

// Reconcile seeds the holiday reference data if missing, then
// materializes events for the window around now. Returns the number of
// events created this pass.
func (s *HolidaySeeder) Reconcile(ctx context.Context, now time.Time) (int, error) {
	if err := s.SeedHolidays(ctx); err != nil {
		return 0, err
	}
	return s.GenerateEvents(ctx, now)
}

// SeedHolidays inserts the default calendar when the holiday
// collection is empty. Existing holiday data is never modified.
func (s *HolidaySeeder) SeedHolidays(ctx context.Context) error {
	count, err := s.store.Holidays().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count holidays: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, h := range domain.DefaultHolidayCalendar() {
		holiday := h
		holiday.ID = domain.NewEventID()
		holiday.IsActive = true
		if err := s.store.Holidays().Create(ctx, &holiday); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("failed to seed holiday %q: %w", holiday.Name, err)
		}
	}

	s.logger.Info("Holiday calendar seeded")
	return nil
}

// GenerateEvents creates one all-day holiday event per active holiday
// per year of the window (previous, current and next year relative to
// now). Dates that already have their event are skipped.
func (s *HolidaySeeder) GenerateEvents(ctx context.Context, now time.Time) (int, error) {
	holidays, err := s.store.Holidays().GetAllActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load holidays: %w", err)
	}

	created := 0
	for year := now.Year() - 1; year <= now.Year()+1; year++ {
		for _, holiday := range holidays {
			date := holiday.Date(year, time.UTC)

			_, err := s.store.Events().FindHolidayEvent(ctx, holiday.Name, date, date)
			if err == nil {
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return created, fmt.Errorf("failed to check holiday event: %w", err)
			}

			event := &domain.Event{
				ID:             domain.NewEventID(),
				Title:          holiday.Name,
				Header:         holidayHeader(holiday),
				Body:           holiday.Description,
				StartDate:      date,
				EndDate:        date,
				IsAllDay:       true,
				Priority:       domain.EventPriorityHigh,
				TargetAudience: "all",
				EventType:      domain.EventTypeHoliday,
				CreatedBy:      "system",
			}

			if err := s.store.Events().Create(ctx, event); err != nil {
				// A concurrent pass may have inserted the same event
				// between the existence check and this write.
				if errors.Is(err, storage.ErrAlreadyExists) {
					continue
				}
				return created, fmt.Errorf("failed to create holiday event %q: %w", holiday.Name, err)
			}
			created++
		}
	}

	if created > 0 {
		s.logger.Info("Holiday events generated", zap.Int("created", created))
	} else {
		s.logger.Debug("Holiday events up to date")
	}
	return created, nil
}

func holidayHeader(h *domain.Holiday) string {
	if h.Type == domain.HolidaySpecial {
		return "Special Non-Working Day"
	}
	return "Regular Holiday"
}
