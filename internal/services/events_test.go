package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/abrezinsky/sportsday/internal/errors"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository/mock"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/testutil"
)

func TestEventService_CreateTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.events.CreateTemplate(ctx, services.EventInput{
		Name:     "  100m Sprint ",
		Category: models.CategoryJunior,
		Type:     models.Individual,
		Venue:    "Main Track",
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if e.Name != "100m Sprint" {
		t.Errorf("expected trimmed name, got %q", e.Name)
	}
	if e.HasResults || len(e.Winners) != 0 {
		t.Error("expected template without results")
	}

	got, err := f.events.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Venue != "Main Track" {
		t.Errorf("unexpected venue %q", got.Venue)
	}
}

func TestEventService_CreateTemplate_Defaults(t *testing.T) {
	f := newFixture(t)

	e, err := f.events.CreateTemplate(context.Background(), services.EventInput{Name: "   ", Type: models.Group})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	if e.Name != models.PlaceholderEventName {
		t.Errorf("expected placeholder name, got %q", e.Name)
	}
	if e.Category != models.CategoryAll {
		t.Errorf("expected category all, got %q", e.Category)
	}
}

func TestEventService_CreateTemplate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   services.EventInput
	}{
		{"missing type", services.EventInput{Name: "Relay"}},
		{"unknown type", services.EventInput{Name: "Relay", Type: "Team"}},
		{"unknown category", services.EventInput{Name: "Relay", Type: models.Group, Category: "Cat 6"}},
		{"long name", services.EventInput{Name: strings.Repeat("x", 200), Type: models.Group}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.events.CreateTemplate(ctx, tt.in)
			if !apperrors.IsKind(err, apperrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEventService_GetEvent_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.GetEvent(context.Background(), "missing")
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEventService_SetWinners_ComputesPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Long Jump", Type: models.Individual})

	updated, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{
		{BucketRef: "1-A", Position: 1, StudentName: " Asha "},
		{BucketRef: "2-A", Position: 2},
		{BucketRef: "1-B", Position: 3, Points: intPtr(4)},
	})
	if err != nil {
		t.Fatalf("SetWinners failed: %v", err)
	}
	if !updated.HasResults {
		t.Error("expected HasResults to be set")
	}

	stored, _ := f.events.GetEvent(ctx, e.ID)
	if len(stored.Winners) != 3 {
		t.Fatalf("expected 3 winners, got %d", len(stored.Winners))
	}
	w := stored.Winners
	if w[0].Points != 10 || w[0].PointsMode != models.PointsComputed {
		t.Errorf("expected computed 10 points, got %d (%s)", w[0].Points, w[0].PointsMode)
	}
	if w[0].StudentName != "Asha" {
		t.Errorf("expected trimmed student name, got %q", w[0].StudentName)
	}
	if w[1].Points != 7 {
		t.Errorf("expected 7 points for second place, got %d", w[1].Points)
	}
	if w[2].Points != 4 || w[2].PointsMode != models.PointsOverride {
		t.Errorf("expected override of 4 points, got %d (%s)", w[2].Points, w[2].PointsMode)
	}
}

func TestEventService_SetWinners_GroupUsesGroupColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Relay", Type: models.Group})
	updated, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{{BucketRef: "1-A", Position: 1}})
	if err != nil {
		t.Fatalf("SetWinners failed: %v", err)
	}
	if updated.Winners[0].Points != 20 {
		t.Errorf("expected 20 group points, got %d", updated.Winners[0].Points)
	}
}

func TestEventService_SetWinners_UnknownBucket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Relay", Type: models.Group})
	_, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{{BucketRef: "1A", Position: 1}})
	if !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "1-A"`) {
		t.Errorf("expected suggestion in error, got %q", err.Error())
	}

	_, err = f.events.SetWinners(ctx, e.ID, []services.WinnerInput{{BucketRef: "Staff Room", Position: 1}})
	if !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEventService_SetWinners_InvalidEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Relay", Type: models.Group})

	tests := []struct {
		name string
		in   services.WinnerInput
	}{
		{"zero position", services.WinnerInput{BucketRef: "1-A", Position: 0}},
		{"negative override", services.WinnerInput{BucketRef: "1-A", Position: 1, Points: intPtr(-3)}},
		{"missing bucket", services.WinnerInput{Position: 1}},
		{"bad image", services.WinnerInput{BucketRef: "1-A", Position: 1, Image: "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{tt.in})
			if !apperrors.IsKind(err, apperrors.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := f.events.SetWinners(ctx, e.ID, nil); err != services.ErrNoWinners {
		t.Errorf("expected ErrNoWinners, got %v", err)
	}
}

func TestEventService_SetWinners_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.SetWinners(context.Background(), "missing", []services.WinnerInput{{BucketRef: "1-A", Position: 1}})
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEventService_SetWinners_UsesActiveTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.settings.SetScoringTable(ctx, "revised"); err != nil {
		t.Fatalf("SetScoringTable failed: %v", err)
	}
	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Sprint", Type: models.Individual})
	updated, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{{BucketRef: "1-A", Position: 1}})
	if err != nil {
		t.Fatalf("SetWinners failed: %v", err)
	}
	if updated.Winners[0].Points != 7 {
		t.Errorf("expected revised table points 7, got %d", updated.Winners[0].Points)
	}
}

func TestEventService_UpdateEvent_RecomputesComputedPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, _ := f.events.CreateTemplate(ctx, services.EventInput{Name: "Relay", Type: models.Individual})
	f.events.SetWinners(ctx, e.ID, []services.WinnerInput{
		{BucketRef: "1-A", Position: 1},
		{BucketRef: "1-B", Position: 2, Points: intPtr(1)},
	})

	updated, err := f.events.UpdateEvent(ctx, e.ID, services.EventInput{Name: "4x100m Relay", Type: models.Group})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	if updated.Name != "4x100m Relay" {
		t.Errorf("unexpected name %q", updated.Name)
	}
	if updated.Winners[0].Points != 20 {
		t.Errorf("expected computed points to follow group column, got %d", updated.Winners[0].Points)
	}
	if updated.Winners[1].Points != 1 {
		t.Errorf("expected override to stay 1, got %d", updated.Winners[1].Points)
	}
	if !updated.HasResults {
		t.Error("expected results to be kept")
	}
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.UpdateEvent(context.Background(), "missing", services.EventInput{Name: "x", Type: models.Group})
	if !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEventService_ClearWinners(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := testutil.SeedEvent(t, f.repo, "Shot Put", models.Individual, testutil.Winner("1-A", 1))
	if err := f.events.ClearWinners(ctx, e.ID); err != nil {
		t.Fatalf("ClearWinners failed: %v", err)
	}
	got, _ := f.events.GetEvent(ctx, e.ID)
	if got.HasResults || len(got.Winners) != 0 {
		t.Errorf("expected results cleared, got %+v", got)
	}

	if err := f.events.ClearWinners(ctx, "missing"); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := testutil.SeedEvent(t, f.repo, "Shot Put", models.Individual)
	if err := f.events.DeleteEvent(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if err := f.events.DeleteEvent(ctx, e.ID); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestEventService_AttachWinnerImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := testutil.SeedEvent(t, f.repo, "Sack Race", models.Individual, testutil.Winner("1-A", 1), testutil.Winner("1-B", 2))
	if err := f.events.AttachWinnerImage(ctx, e.ID, 2, "", "https://photos.example/2.jpg"); err != nil {
		t.Fatalf("AttachWinnerImage failed: %v", err)
	}
	got, _ := f.events.GetEvent(ctx, e.ID)
	if got.Winners[1].Image != "https://photos.example/2.jpg" {
		t.Errorf("expected image on second winner, got %q", got.Winners[1].Image)
	}

	if err := f.events.AttachWinnerImage(ctx, e.ID, 5, "", "https://photos.example/5.jpg"); !apperrors.IsKind(err, apperrors.ErrNotFound) {
		t.Errorf("expected not found for missing position, got %v", err)
	}
	if err := f.events.AttachWinnerImage(ctx, e.ID, 1, "", "photo.jpg"); !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for bad url, got %v", err)
	}
}

func TestEventService_RepairNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testutil.SeedEvent(t, f.repo, "  ", models.Individual)
	testutil.SeedEvent(t, f.repo, "Relay", models.Group)

	n, err := f.events.RepairNames(ctx)
	if err != nil {
		t.Fatalf("RepairNames failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 repaired event, got %d", n)
	}
	events, _ := f.events.ListEvents(ctx)
	names := map[string]bool{}
	for _, e := range events {
		names[e.Name] = true
	}
	if !names[models.PlaceholderEventName] || !names["Relay"] {
		t.Errorf("unexpected names after repair: %v", names)
	}
}

func TestEventService_PointsAdvice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	advice, err := f.events.PointsAdvice(ctx, 2, models.Group)
	if err != nil {
		t.Fatalf("PointsAdvice failed: %v", err)
	}
	if advice.Points != 14 || advice.Table != "standard" {
		t.Errorf("unexpected advice %+v", advice)
	}

	advice, _ = f.events.PointsAdvice(ctx, 9, models.Individual)
	if advice.Points != 0 {
		t.Errorf("expected 0 for unplaced position, got %d", advice.Points)
	}

	if _, err := f.events.PointsAdvice(ctx, 1, "Team"); !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for type, got %v", err)
	}
	if _, err := f.events.PointsAdvice(ctx, 0, models.Group); !apperrors.IsKind(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for position, got %v", err)
	}
}

func TestEventService_RepositoryErrors(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	f := newFixtureWithRepo(t, repo, mockRepo)
	ctx := context.Background()
	dbErr := errors.New("database error")

	e := testutil.SeedEvent(t, repo, "Relay", models.Group)

	mockRepo.CreateEventError = dbErr
	if _, err := f.events.CreateTemplate(ctx, services.EventInput{Name: "x", Type: models.Group}); !errors.Is(err, dbErr) {
		t.Errorf("expected create error, got %v", err)
	}

	mockRepo.SetWinnersError = dbErr
	if _, err := f.events.SetWinners(ctx, e.ID, []services.WinnerInput{{BucketRef: "1-A", Position: 1}}); !errors.Is(err, dbErr) {
		t.Errorf("expected set winners error, got %v", err)
	}

	mockRepo.RepairEventNamesError = dbErr
	if _, err := f.events.RepairNames(ctx); !errors.Is(err, dbErr) {
		t.Errorf("expected repair error, got %v", err)
	}

	mockRepo.GetSettingError = dbErr
	if _, err := f.events.PointsAdvice(ctx, 1, models.Group); !errors.Is(err, dbErr) {
		t.Errorf("expected settings error, got %v", err)
	}
}
