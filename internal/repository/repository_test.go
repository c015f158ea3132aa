package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/sportsday/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type recorder struct {
	mu   sync.Mutex
	revs []int64
}

func (r *recorder) Changed(rev int64) {
	r.mu.Lock()
	r.revs = append(r.revs, rev)
	r.mu.Unlock()
}

func (r *recorder) all() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.revs...)
}

func sampleEvent(name string) *models.EventRecord {
	return &models.EventRecord{
		Name:     name,
		Category: models.CategoryCat3,
		Type:     models.Individual,
		Venue:    "Main Field",
		Time:     "09:30",
	}
}

// ==================== Event Tests ====================

func TestCreateEvent_AssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEvent("100m Sprint")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected ID to be generated")
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := repo.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Name != "100m Sprint" || got.Category != models.CategoryCat3 || got.Venue != "Main Field" || got.Time != "09:30" {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.HasResults {
		t.Error("new template should not have results")
	}
	if got.Winners == nil || len(got.Winners) != 0 {
		t.Errorf("expected empty winners, got %v", got.Winners)
	}
}

func TestCreateEvent_KeepsGivenID(t *testing.T) {
	repo := newTestRepo(t)
	e := sampleEvent("Relay")
	e.ID = "legacy-42"
	if err := repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := repo.GetEvent(context.Background(), "legacy-42"); err != nil {
		t.Errorf("expected event by given id: %v", err)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetEvent(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEvents_CreationOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 26, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"Sack Race", "Lemon Spoon", "Tug of War"} {
		if err := repo.CreateEvent(ctx, sampleEvent(name)); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	events, err := repo.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Name != "Sack Race" || events[2].Name != "Tug of War" {
		t.Errorf("unexpected order: %s, %s, %s", events[0].Name, events[1].Name, events[2].Name)
	}
}

func TestSetWinners_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEvent("Long Jump")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	winners := []models.WinnerEntry{
		{BucketRef: "3-A", Position: 1, Points: 10, PointsMode: models.PointsComputed, StudentName: "Asha", StudentClass: "3-A"},
		{BucketRef: "3-B", Position: 2, Points: 50, PointsMode: models.PointsOverride, StudentName: "Ravi"},
	}
	if err := repo.SetWinners(ctx, e.ID, winners, true); err != nil {
		t.Fatalf("SetWinners failed: %v", err)
	}

	got, err := repo.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if !got.HasResults {
		t.Error("expected has_results")
	}
	if len(got.Winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(got.Winners))
	}
	if got.Winners[1].Points != 50 || !got.Winners[1].IsOverride() {
		t.Errorf("override lost: %+v", got.Winners[1])
	}
}

func TestSetWinners_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SetWinners(context.Background(), "nope", nil, true); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEvent("Hurdles")
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	e.Name = "Hurdles (Final)"
	e.Type = models.Group
	if err := repo.UpdateEvent(ctx, e); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	got, _ := repo.GetEvent(ctx, e.ID)
	if got.Name != "Hurdles (Final)" || got.Type != models.Group {
		t.Errorf("update not stored: %+v", got)
	}

	missing := sampleEvent("ghost")
	missing.ID = "ghost"
	if err := repo.UpdateEvent(ctx, missing); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateWinnerImage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEvent("Shot Put")
	e.Winners = []models.WinnerEntry{{BucketRef: "Nehru", Position: 1}, {BucketRef: "Gandhi", Position: 2}}
	e.HasResults = true
	if err := repo.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := repo.UpdateWinnerImage(ctx, e.ID, 2, "Gandhi", "https://img.example/g.jpg"); err != nil {
		t.Fatalf("UpdateWinnerImage failed: %v", err)
	}
	got, _ := repo.GetEvent(ctx, e.ID)
	if got.Winners[1].Image != "https://img.example/g.jpg" || got.Winners[0].Image != "" {
		t.Errorf("unexpected images: %+v", got.Winners)
	}

	if err := repo.UpdateWinnerImage(ctx, e.ID, 2, "Tagore", "x"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for wrong bucket, got %v", err)
	}
	if err := repo.UpdateWinnerImage(ctx, e.ID, 5, "", "x"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing position, got %v", err)
	}
	if err := repo.UpdateWinnerImage(ctx, "missing", 1, "", "x"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing event, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := sampleEvent("Frog Jump")
	repo.CreateEvent(ctx, e)

	if err := repo.DeleteEvent(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if _, err := repo.GetEvent(ctx, e.ID); err != ErrNotFound {
		t.Errorf("expected event to be gone, got %v", err)
	}
	if err := repo.DeleteEvent(ctx, e.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRepairEventNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t\n", "Obstacle Race"} {
		if err := repo.CreateEvent(ctx, sampleEvent(name)); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	n, err := repo.RepairEventNames(ctx)
	if err != nil {
		t.Fatalf("RepairEventNames failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 repairs, got %d", n)
	}

	events, _ := repo.ListEvents(ctx)
	placeholders := 0
	for _, e := range events {
		if e.Name == models.PlaceholderEventName {
			placeholders++
		}
	}
	if placeholders != 3 {
		t.Errorf("expected 3 placeholder names, got %d", placeholders)
	}

	n, _ = repo.RepairEventNames(ctx)
	if n != 0 {
		t.Errorf("second run should change nothing, changed %d", n)
	}
}

func TestReplaceAllEvents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.CreateEvent(ctx, sampleEvent("old"))

	imported := []models.EventRecord{
		{ID: "a", Name: "First", Type: models.Individual},
		{ID: "b", Name: "Second", Type: models.Group, HasResults: true, Winners: []models.WinnerEntry{{BucketRef: "Nehru", Position: 1, Points: 20}}},
		{Name: "Third"},
	}
	if err := repo.ReplaceAllEvents(ctx, imported); err != nil {
		t.Fatalf("ReplaceAllEvents failed: %v", err)
	}

	events, _ := repo.ListEvents(ctx)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ID != "a" || events[1].ID != "b" || events[2].ID == "" {
		t.Errorf("import order or ids not kept: %s %s %s", events[0].ID, events[1].ID, events[2].ID)
	}
	if events[1].Winners[0].Points != 20 {
		t.Errorf("winners not imported: %+v", events[1].Winners)
	}
}

func TestReplaceAllEvents_DuplicateRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.CreateEvent(ctx, sampleEvent("keep me"))
	before, _ := repo.Revision(ctx)

	err := repo.ReplaceAllEvents(ctx, []models.EventRecord{{ID: "x", Name: "a"}, {ID: "x", Name: "b"}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}

	events, _ := repo.ListEvents(ctx)
	if len(events) != 1 || events[0].Name != "keep me" {
		t.Errorf("expected rollback, got %+v", events)
	}
	after, _ := repo.Revision(ctx)
	if after != before {
		t.Errorf("revision moved on failed import: %d -> %d", before, after)
	}
}

// ==================== Revision Tests ====================

func TestRevision_BumpsOnEveryMutation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := &recorder{}
	repo.SetNotifier(rec)

	rev, err := repo.Revision(ctx)
	if err != nil || rev != 0 {
		t.Fatalf("expected revision 0, got %d (%v)", rev, err)
	}

	e := sampleEvent("Skipping")
	repo.CreateEvent(ctx, e)
	repo.SetWinners(ctx, e.ID, []models.WinnerEntry{{BucketRef: "1-A", Position: 1}}, true)
	repo.SetSetting(ctx, "scoring_table", "revised")
	repo.SetSetting(ctx, "base_url", "http://x")
	repo.DeleteEvent(ctx, e.ID)

	got := rec.all()
	want := []int64{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("notifications = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notifications = %v, want %v", got, want)
			break
		}
	}

	// failed mutations must not notify
	repo.DeleteEvent(ctx, "missing")
	if len(rec.all()) != 4 {
		t.Error("failed mutation should not notify")
	}
}

func TestSnapshot_ReturnsRevision(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.CreateEvent(ctx, sampleEvent("a"))
	repo.CreateEvent(ctx, sampleEvent("b"))

	events, rev, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(events) != 2 || rev != 2 {
		t.Errorf("got %d events at revision %d, want 2 at 2", len(events), rev)
	}
}

// ==================== Settings Tests ====================

func TestDefaultSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for key, want := range map[string]string{"scoring_table": "standard", "ranking_policy": "zero_sentinel"} {
		got, err := repo.GetSetting(ctx, key)
		if err != nil || got != want {
			t.Errorf("%s = %q (%v), want %q", key, got, err, want)
		}
	}
	if _, err := repo.GetSetting(ctx, "base_url"); err != ErrNotFound {
		t.Errorf("expected base_url to be unset, got %v", err)
	}
}

func TestGetStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.CreateEvent(ctx, sampleEvent("template"))
	done := sampleEvent("done")
	done.HasResults = true
	repo.CreateEvent(ctx, done)

	stats, err := repo.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats["total_events"] != 2 || stats["events_with_results"] != 1 || stats["templates"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
	if stats["revision"] != int64(2) {
		t.Errorf("revision = %v", stats["revision"])
	}
}

func TestClearTable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	repo.CreateEvent(ctx, sampleEvent("x"))
	if err := repo.ClearTable(ctx, "events"); err != nil {
		t.Fatalf("ClearTable failed: %v", err)
	}
	events, _ := repo.ListEvents(ctx)
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}

	if err := repo.ClearTable(ctx, "settings; DROP TABLE events"); err != ErrInvalidTable {
		t.Errorf("expected ErrInvalidTable, got %v", err)
	}
	if err := repo.ClearTable(ctx, "settings"); err != ErrInvalidTable {
		t.Errorf("settings must not be clearable, got %v", err)
	}
}
