package models

import "time"

// PlaceholderEventName replaces empty or whitespace-only event names.
const PlaceholderEventName = "[No Name]"

// EventType decides which points column a placement is scored against
type EventType string

const (
	Individual EventType = "Individual"
	Group      EventType = "Group"
)

// Valid reports whether t is a known event type
func (t EventType) Valid() bool {
	return t == Individual || t == Group
}

// PointsMode records where a winner's points came from
type PointsMode string

const (
	// PointsComputed means the value is derived from the active scoring table
	PointsComputed PointsMode = "computed"
	// PointsOverride means an admin entered the value and it is authoritative
	PointsOverride PointsMode = "override"
)

// WinnerEntry is one awarded placement within an event
type WinnerEntry struct {
	BucketRef    string     `json:"bucket_ref" validate:"required"`
	Position     int        `json:"position" validate:"gte=1"`
	Points       int        `json:"points" validate:"gte=0"`
	PointsMode   PointsMode `json:"points_mode" validate:"omitempty,oneof=computed override"`
	StudentName  string     `json:"student_name"`
	StudentClass string     `json:"student_class"`
	Image        string     `json:"image,omitempty" validate:"omitempty,url"`
}

// IsOverride reports whether the stored points must be kept as entered
func (w WinnerEntry) IsOverride() bool {
	return w.PointsMode == PointsOverride
}

// EventRecord is one competition event and its results
type EventRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    Category      `json:"category"`
	Type        EventType     `json:"type"`
	Description string        `json:"description,omitempty"`
	Time        string        `json:"time,omitempty"`
	Venue       string        `json:"venue,omitempty"`
	HasResults  bool          `json:"has_results"`
	Winners     []WinnerEntry `json:"winners"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// WinnerRow is a winner flattened together with its event, used by the
// results table and the winners carousel
type WinnerRow struct {
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	EventCategory Category  `json:"event_category"`
	CategoryLabel string    `json:"category_label"`
	EventType     EventType `json:"event_type"`
	WinnerEntry
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
