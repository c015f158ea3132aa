package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/sportsday/internal/auth"
	"github.com/abrezinsky/sportsday/internal/handlers"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/metrics"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/testutil"
	"github.com/abrezinsky/sportsday/pkg/firestore"
)

// testCatalog has three grade-sections: 1-A, 1-B and 2-A
var testCatalog = scoring.BuildGradeCatalog([]scoring.LevelSections{
	{Level: "1", Sections: []string{"A", "B"}},
	{Level: "2", Sections: []string{"A"}},
})

// testSetup creates all the dependencies needed for testing handlers
type testSetup struct {
	repo       *repository.Repository
	handlers   *handlers.Handlers
	router     chi.Router
	authCookie *http.Cookie
	scoreboard *services.ScoreboardService
}

// syncRecompute rebuilds the scoreboard inside the mutating call so tests
// see their writes without running the background loop
type syncRecompute struct {
	scoreboard *services.ScoreboardService
}

func (s syncRecompute) Changed(int64) {
	s.scoreboard.Recompute(context.Background())
}

func quietLogger() *logger.SlogLogger {
	return logger.NewWithOptions(logger.Options{Level: slog.LevelError, Output: io.Discard})
}

func newServices(t *testing.T, repo *repository.Repository, source firestore.Client, m *metrics.Metrics) (handlers.Services, *services.ScoreboardService) {
	t.Helper()

	log := quietLogger()
	settings := services.NewSettingsService(log, repo, scoring.Tables(), services.ScoringDefaults{})
	scoreboard := services.NewScoreboardService(log, repo, settings, testCatalog, m)
	repo.SetNotifier(syncRecompute{scoreboard: scoreboard})

	return handlers.Services{
		Events:     services.NewEventService(log, repo, settings, testCatalog),
		Scoreboard: scoreboard,
		Settings:   settings,
		Export:     services.NewExportService(scoreboard),
		Import:     services.NewImportService(log, repo, settings, source, m),
		Seed:       services.NewSeedService(log, repo, settings, testCatalog, 7),
	}, scoreboard
}

// newTestSetup creates a new test setup with an in-memory repository and
// no Firestore source
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()
	return newTestSetupWithSource(t, nil)
}

func newTestSetupWithSource(t *testing.T, source firestore.Client) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	svc, scoreboard := newServices(t, repo, source, metrics.New())

	// Initialize handlers (templates will not be used in API tests)
	h := handlers.NewForTesting(svc)

	// Login to get a session cookie for authenticated requests
	token, _ := h.Auth.Login("test-password")
	authCookie := &http.Cookie{
		Name:  auth.CookieName,
		Value: token,
	}

	return &testSetup{
		repo:       repo,
		handlers:   h,
		router:     h.Router(),
		authCookie: authCookie,
		scoreboard: scoreboard,
	}
}

// do sends a request through the router. Admin paths get the session
// cookie.
func (ts *testSetup) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(ts.authCookie)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rec.Body.String())
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
