package handlers

import (
	"encoding/json"

	"github.com/abrezinsky/sportsday/internal/services"
)

// EventRequest represents a request to create or update an event
type EventRequest = services.EventInput

// WinnersRequest replaces the winners of an event
type WinnersRequest struct {
	Winners []services.WinnerInput `json:"winners"`
}

// WinnerImageRequest attaches a photo to one placement
type WinnerImageRequest struct {
	BucketRef string `json:"bucket_ref"`
	Image     string `json:"image"`
}

// SettingsUpdateRequest represents a request to update settings
type SettingsUpdateRequest = services.Settings

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}

// SeedRequest represents a request to generate demo events
type SeedRequest struct {
	Count int `json:"count"`
}

// FirestoreImportRequest names the collections to pull
type FirestoreImportRequest struct {
	Collection      string `json:"collection"`
	PhotoCollection string `json:"photo_collection"`
}

// JSONImportRequest carries exported legacy documents. Documents may be an
// array of objects with an "id" field or an object keyed by id.
type JSONImportRequest struct {
	Documents json.RawMessage `json:"documents"`
	Photos    json.RawMessage `json:"photos,omitempty"`
}
