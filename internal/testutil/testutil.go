package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// Winner builds a computed winner entry
func Winner(ref string, position int) models.WinnerEntry {
	return models.WinnerEntry{BucketRef: ref, Position: position, PointsMode: models.PointsComputed}
}

// SeedEvent stores an event with the given winners and returns it
func SeedEvent(t *testing.T, repo repository.EventRepository, name string, typ models.EventType, winners ...models.WinnerEntry) *models.EventRecord {
	t.Helper()

	e := &models.EventRecord{
		Name:       name,
		Category:   models.CategoryAll,
		Type:       typ,
		HasResults: len(winners) > 0,
		Winners:    winners,
	}
	if err := repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("failed to seed event %q: %v", name, err)
	}
	return e
}

// RecordingNotifier remembers every revision it is told about
type RecordingNotifier struct {
	Revisions chan int64
}

// NewRecordingNotifier creates a notifier buffering up to n revisions
func NewRecordingNotifier(n int) *RecordingNotifier {
	return &RecordingNotifier{Revisions: make(chan int64, n)}
}

func (r *RecordingNotifier) Changed(rev int64) {
	select {
	case r.Revisions <- rev:
	default:
	}
}
