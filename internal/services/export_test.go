package services_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/repository/mock"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/testutil"
)

func TestExportService_CSV(t *testing.T) {
	f := newFixture(t)
	svc := services.NewExportService(f.scoreboard)
	ctx := context.Background()

	testutil.SeedEvent(t, f.repo, "Sprint", models.Individual, testutil.Winner("1-A", 1))

	bundle, err := svc.CSV(ctx)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}
	if !strings.HasPrefix(bundle.Combined.Name, "SportsDay_Data_Export_") {
		t.Errorf("unexpected combined name %q", bundle.Combined.Name)
	}
	if !strings.Contains(string(bundle.Combined.Content), "Grade-Section Standings") {
		t.Error("expected standings in combined export")
	}
	if !strings.Contains(string(bundle.Combined.Content), "1,1-A,1,10") {
		t.Errorf("expected 1-A ranked first with 10 points in:\n%s", bundle.Combined.Content)
	}
	if len(bundle.Separate) != 4 {
		t.Errorf("expected 4 separate files, got %d", len(bundle.Separate))
	}
}

func TestExportService_Table(t *testing.T) {
	f := newFixture(t)
	svc := services.NewExportService(f.scoreboard)
	ctx := context.Background()

	file, err := svc.Table(ctx, "winners")
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if !strings.HasPrefix(file.Name, "SportsDay_Winners_Details_") {
		t.Errorf("unexpected name %q", file.Name)
	}

	if _, err := svc.Table(ctx, "votes"); !errors.Is(err, services.ErrUnknownExportTable) {
		t.Errorf("expected ErrUnknownExportTable, got %v", err)
	}
}

func TestExportService_XLSX(t *testing.T) {
	f := newFixture(t)
	svc := services.NewExportService(f.scoreboard)

	testutil.SeedEvent(t, f.repo, "Relay", models.Group, testutil.Winner("2-A", 1))

	data, err := svc.XLSX(context.Background())
	if err != nil {
		t.Fatalf("XLSX failed: %v", err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("could not read workbook: %v", err)
	}
	defer wb.Close()

	if got := len(wb.GetSheetList()); got != 4 {
		t.Errorf("expected 4 sheets, got %d", got)
	}
	if !strings.HasSuffix(svc.XLSXFileName(), ".xlsx") {
		t.Errorf("unexpected file name %q", svc.XLSXFileName())
	}
}

func TestExportService_Chart(t *testing.T) {
	f := newFixture(t)
	svc := services.NewExportService(f.scoreboard)

	testutil.SeedEvent(t, f.repo, "Sprint", models.Individual, testutil.Winner("1-B", 1))

	png, err := svc.Chart(context.Background())
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("expected PNG output")
	}
}

func TestExportService_ScoreboardError(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	mockRepo.SnapshotError = errors.New("database error")
	f := newFixtureWithRepo(t, repo, mockRepo)
	svc := services.NewExportService(f.scoreboard)
	ctx := context.Background()

	if _, err := svc.CSV(ctx); err == nil {
		t.Error("expected error from CSV")
	}
	if _, err := svc.XLSX(ctx); err == nil {
		t.Error("expected error from XLSX")
	}
	if _, err := svc.Chart(ctx); err == nil {
		t.Error("expected error from Chart")
	}
}
