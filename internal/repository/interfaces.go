package repository

import (
	"context"

	"github.com/abrezinsky/sportsday/internal/models"
)

// EventRepository defines event data operations
type EventRepository interface {
	ListEvents(ctx context.Context) ([]models.EventRecord, error)
	Snapshot(ctx context.Context) ([]models.EventRecord, int64, error)
	Revision(ctx context.Context) (int64, error)
	GetEvent(ctx context.Context, id string) (*models.EventRecord, error)
	CreateEvent(ctx context.Context, e *models.EventRecord) error
	UpdateEvent(ctx context.Context, e *models.EventRecord) error
	SetWinners(ctx context.Context, id string, winners []models.WinnerEntry, hasResults bool) error
	UpdateWinnerImage(ctx context.Context, id string, position int, bucketRef, image string) error
	DeleteEvent(ctx context.Context, id string) error
	RepairEventNames(ctx context.Context) (int, error)
	ReplaceAllEvents(ctx context.Context, events []models.EventRecord) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetStats(ctx context.Context) (map[string]interface{}, error)
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	EventRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
