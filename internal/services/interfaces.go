package services

import (
	"context"

	"github.com/abrezinsky/sportsday/internal/export"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// EventServicer defines the interface for event and result operations
type EventServicer interface {
	ListEvents(ctx context.Context) ([]models.EventRecord, error)
	GetEvent(ctx context.Context, id string) (*models.EventRecord, error)
	CreateTemplate(ctx context.Context, in EventInput) (*models.EventRecord, error)
	UpdateEvent(ctx context.Context, id string, in EventInput) (*models.EventRecord, error)
	DeleteEvent(ctx context.Context, id string) error
	SetWinners(ctx context.Context, id string, winners []WinnerInput) (*models.EventRecord, error)
	ClearWinners(ctx context.Context, id string) error
	AttachWinnerImage(ctx context.Context, id string, position int, bucketRef, image string) error
	RepairNames(ctx context.Context) (int, error)
	PointsAdvice(ctx context.Context, position int, typ models.EventType) (*PointsAdvice, error)
}

// ScoreboardServicer defines the interface for reading the scoreboard
type ScoreboardServicer interface {
	Current(ctx context.Context) (*View, error)
	Published() *View
	Recompute(ctx context.Context) (*View, error)
	Winners(ctx context.Context, filter WinnerFilter) ([]models.WinnerRow, error)
	DisplayQR(ctx context.Context) ([]byte, error)
	Catalog() scoring.Catalog
	SetBroadcaster(b Broadcaster)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	ScoringTable(ctx context.Context) (scoring.ScoringTable, error)
	SetScoringTable(ctx context.Context, name string) error
	ScoringTables() []scoring.ScoringTable
	RankingPolicy(ctx context.Context) (scoring.RankingPolicy, error)
	SetRankingPolicy(ctx context.Context, policy scoring.RankingPolicy) error
	BaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	SiteTitle(ctx context.Context) (string, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
	Stats(ctx context.Context) (map[string]interface{}, error)
}

// ExportServicer defines the interface for export operations
type ExportServicer interface {
	CSV(ctx context.Context) (*ExportBundle, error)
	Table(ctx context.Context, name string) (*export.File, error)
	XLSX(ctx context.Context) ([]byte, error)
	XLSXFileName() string
	Chart(ctx context.Context) ([]byte, error)
}

// ImportServicer defines the interface for legacy imports
type ImportServicer interface {
	ImportFromFirestore(ctx context.Context, collection, photoCollection string) (*ImportResult, error)
	ImportDocuments(ctx context.Context, docs, photos []RawDocument) (*ImportResult, error)
}

// SeedServicer defines the interface for demo data
type SeedServicer interface {
	SeedEvents(ctx context.Context, count int) (int, error)
}

// Ensure concrete types implement interfaces
var (
	_ EventServicer      = (*EventService)(nil)
	_ ScoreboardServicer = (*ScoreboardService)(nil)
	_ SettingsServicer   = (*SettingsService)(nil)
	_ ExportServicer     = (*ExportService)(nil)
	_ ImportServicer     = (*ImportService)(nil)
	_ SeedServicer       = (*SeedService)(nil)
	_ ScoringConfig      = (*SettingsService)(nil)
)
