package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventTypeHoliday = "holiday"
	EventTypeGeneral = "general"
)

// Event priorities.
const (
	EventPriorityLow    = "low"
	EventPriorityMedium = "medium"
	EventPriorityHigh   = "high"
)

// Event is a calendar entry. A holiday-derived event is uniquely
// identified by (title, start_date, end_date, event_type="holiday");
// the seeder relies on that identity to stay idempotent.
type Event struct {
	ID             string    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Header         string    `json:"header,omitempty" bson:"header,omitempty"`
	Body           string    `json:"body,omitempty" bson:"body,omitempty"`
	StartDate      time.Time `json:"start_date" bson:"start_date"`
	EndDate        time.Time `json:"end_date" bson:"end_date"`
	IsAllDay       bool      `json:"is_all_day" bson:"is_all_day"`
	Priority       string    `json:"priority,omitempty" bson:"priority,omitempty"`
	TargetAudience string    `json:"target_audience,omitempty" bson:"target_audience,omitempty"`
	EventType      string    `json:"event_type" bson:"event_type"`
	CreatedBy      string    `json:"created_by,omitempty" bson:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewEventID creates a new event document id.
func NewEventID() string {
	return uuid.New().String()
}

// CreateEventRequest is the payload for creating a calendar event.
type CreateEventRequest struct {
	Title          string    `json:"title" binding:"required"`
	Header         string    `json:"header"`
	Body           string    `json:"body"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	IsAllDay       bool      `json:"is_all_day"`
	Priority       string    `json:"priority"`
	TargetAudience string    `json:"target_audience"`
	EventType      string    `json:"event_type"`
}
