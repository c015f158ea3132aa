package services_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/metrics"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/testutil"
)

// testCatalog has three grade-sections: 1-A, 1-B and 2-A
var testCatalog = scoring.BuildGradeCatalog([]scoring.LevelSections{
	{Level: "1", Sections: []string{"A", "B"}},
	{Level: "2", Sections: []string{"A"}},
})

func quietLogger() *logger.SlogLogger {
	return logger.NewWithOptions(logger.Options{Level: slog.LevelError, Output: &bytes.Buffer{}})
}

type fixture struct {
	repo       *repository.Repository
	log        logger.Logger
	metrics    *metrics.Metrics
	settings   *services.SettingsService
	events     *services.EventService
	scoreboard *services.ScoreboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	return newFixtureWithRepo(t, repo, repo)
}

func newFixtureWithRepo(t *testing.T, real *repository.Repository, repo repository.FullRepository) *fixture {
	t.Helper()
	log := quietLogger()
	m := metrics.New()
	settings := services.NewSettingsService(log, repo, scoring.Tables(), services.ScoringDefaults{})
	return &fixture{
		repo:       real,
		log:        log,
		metrics:    m,
		settings:   settings,
		events:     services.NewEventService(log, repo, settings, testCatalog),
		scoreboard: services.NewScoreboardService(log, repo, settings, testCatalog, m),
	}
}

func intPtr(n int) *int {
	return &n
}
