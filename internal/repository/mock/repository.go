package mock

import (
	"context"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SnapshotError = errors.New("database error")
//	svc := services.NewScoreboardService(log, mockRepo, settings, catalog)
//	err := svc.Recompute(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Event Errors =====
	ListEventsError        error
	SnapshotError          error
	RevisionError          error
	GetEventError          error
	CreateEventError       error
	UpdateEventError       error
	SetWinnersError        error
	UpdateWinnerImageError error
	DeleteEventError       error
	RepairEventNamesError  error
	ReplaceAllEventsError  error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	GetStatsError   error
	ClearTableError error

	// SnapshotRevision, when non-zero, replaces the revision reported by
	// Snapshot. Lets tests simulate a read that lost a race.
	SnapshotRevision int64
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Event Methods =====

func (m *Repository) ListEvents(ctx context.Context) ([]models.EventRecord, error) {
	if m.ListEventsError != nil {
		return nil, m.ListEventsError
	}
	return m.FullRepository.ListEvents(ctx)
}

func (m *Repository) Snapshot(ctx context.Context) ([]models.EventRecord, int64, error) {
	if m.SnapshotError != nil {
		return nil, 0, m.SnapshotError
	}
	events, rev, err := m.FullRepository.Snapshot(ctx)
	if m.SnapshotRevision != 0 {
		rev = m.SnapshotRevision
	}
	return events, rev, err
}

func (m *Repository) Revision(ctx context.Context) (int64, error) {
	if m.RevisionError != nil {
		return 0, m.RevisionError
	}
	return m.FullRepository.Revision(ctx)
}

func (m *Repository) GetEvent(ctx context.Context, id string) (*models.EventRecord, error) {
	if m.GetEventError != nil {
		return nil, m.GetEventError
	}
	return m.FullRepository.GetEvent(ctx, id)
}

func (m *Repository) CreateEvent(ctx context.Context, e *models.EventRecord) error {
	if m.CreateEventError != nil {
		return m.CreateEventError
	}
	return m.FullRepository.CreateEvent(ctx, e)
}

func (m *Repository) UpdateEvent(ctx context.Context, e *models.EventRecord) error {
	if m.UpdateEventError != nil {
		return m.UpdateEventError
	}
	return m.FullRepository.UpdateEvent(ctx, e)
}

func (m *Repository) SetWinners(ctx context.Context, id string, winners []models.WinnerEntry, hasResults bool) error {
	if m.SetWinnersError != nil {
		return m.SetWinnersError
	}
	return m.FullRepository.SetWinners(ctx, id, winners, hasResults)
}

func (m *Repository) UpdateWinnerImage(ctx context.Context, id string, position int, bucketRef, image string) error {
	if m.UpdateWinnerImageError != nil {
		return m.UpdateWinnerImageError
	}
	return m.FullRepository.UpdateWinnerImage(ctx, id, position, bucketRef, image)
}

func (m *Repository) DeleteEvent(ctx context.Context, id string) error {
	if m.DeleteEventError != nil {
		return m.DeleteEventError
	}
	return m.FullRepository.DeleteEvent(ctx, id)
}

func (m *Repository) RepairEventNames(ctx context.Context) (int, error) {
	if m.RepairEventNamesError != nil {
		return 0, m.RepairEventNamesError
	}
	return m.FullRepository.RepairEventNames(ctx)
}

func (m *Repository) ReplaceAllEvents(ctx context.Context, events []models.EventRecord) error {
	if m.ReplaceAllEventsError != nil {
		return m.ReplaceAllEventsError
	}
	return m.FullRepository.ReplaceAllEvents(ctx, events)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	if m.GetStatsError != nil {
		return nil, m.GetStatsError
	}
	return m.FullRepository.GetStats(ctx)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
