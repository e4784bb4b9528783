package domain

import "time"

// HolidayType distinguishes regular (fixed, non-working) holidays from
// special (observance) days.
type HolidayType string

const (
	HolidayRegular HolidayType = "regular"
	HolidaySpecial HolidayType = "special"
)

// Holiday is static reference data: a recurring calendar date the event
// seeder materializes into Event records each year. Seeded once when the
// collection is empty, never auto-modified afterward.
type Holiday struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name"`
	Month       int         `json:"month" bson:"month"`
	Day         int         `json:"day" bson:"day"`
	Type        HolidayType `json:"type" bson:"type"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool        `json:"is_active" bson:"is_active"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Date returns the holiday's calendar date for a given year in loc.
func (h *Holiday) Date(year int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(h.Month), h.Day, 0, 0, 0, 0, loc)
}

// DefaultHolidayCalendar is the fixed 12-entry calendar seeded on first run.
func DefaultHolidayCalendar() []Holiday {
	return []Holiday{
		{Name: "New Year's Day", Month: 1, Day: 1, Type: HolidayRegular, Description: "First day of the calendar year"},
		{Name: "Araw ng Kagitingan", Month: 4, Day: 9, Type: HolidayRegular, Description: "Day of Valor"},
		{Name: "Labor Day", Month: 5, Day: 1, Type: HolidayRegular, Description: "International Workers' Day"},
		{Name: "Independence Day", Month: 6, Day: 12, Type: HolidayRegular, Description: "National Independence Day"},
		{Name: "Ninoy Aquino Day", Month: 8, Day: 21, Type: HolidaySpecial, Description: "Commemoration of Benigno Aquino Jr."},
		{Name: "National Heroes Day", Month: 8, Day: 28, Type: HolidayRegular, Description: "Honoring the nation's heroes"},
		{Name: "All Saints' Day", Month: 11, Day: 1, Type: HolidaySpecial, Description: "Day of remembrance"},
		{Name: "Bonifacio Day", Month: 11, Day: 30, Type: HolidayRegular, Description: "Birth anniversary of Andres Bonifacio"},
		{Name: "Feast of the Immaculate Conception", Month: 12, Day: 8, Type: HolidaySpecial, Description: "Religious observance"},
		{Name: "Christmas Day", Month: 12, Day: 25, Type: HolidayRegular, Description: "Christmas celebration"},
		{Name: "Rizal Day", Month: 12, Day: 30, Type: HolidayRegular, Description: "Death anniversary of Jose Rizal"},
		{Name: "Last Day of the Year", Month: 12, Day: 31, Type: HolidaySpecial, Description: "New Year's Eve"},
	}
}
