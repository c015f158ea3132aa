package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/sportsday/internal/auth"
	"github.com/abrezinsky/sportsday/internal/config"
	"github.com/abrezinsky/sportsday/internal/handlers"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/metrics"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/websocket"
	"github.com/abrezinsky/sportsday/pkg/firestore"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	cfg      *config.Config
	log      logger.Logger
	core     *Core
	handlers *handlers.Handlers
	hub      *websocket.Hub
}

// Core is the storage and service graph. The server and sportsdayctl
// both build one.
type Core struct {
	Config     *config.Config
	Repo       *repository.Repository
	Catalog    scoring.Catalog
	Metrics    *metrics.Metrics
	Settings   *services.SettingsService
	Scoreboard *services.ScoreboardService
	Events     *services.EventService
	Export     *services.ExportService
	Import     *services.ImportService
	Seed       *services.SeedService
}

// NewCore opens the database and builds the services. Repository changes
// are routed to the scoreboard.
func NewCore(cfg *config.Config, log logger.Logger) (*Core, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	catalog := cfg.BuildCatalog()
	m := metrics.New()

	settings := services.NewSettingsService(log, repo, cfg.Tables(), services.ScoringDefaults{
		Table:  cfg.ScoringTable,
		Policy: cfg.RankingPolicy,
	})
	scoreboard := services.NewScoreboardService(log, repo, settings, catalog, m)
	repo.SetNotifier(scoreboard)

	// A nil *HTTPClient inside the interface would pass the nil check in
	// the import service, so only assign when a project is configured.
	var source firestore.Client
	if cfg.FirestoreProject != "" {
		source = firestore.NewHTTPClient(cfg.FirestoreBaseURL, cfg.FirestoreProject, cfg.FirestoreAPIKey, log)
	}

	return &Core{
		Config:     cfg,
		Repo:       repo,
		Catalog:    catalog,
		Metrics:    m,
		Settings:   settings,
		Scoreboard: scoreboard,
		Events:     services.NewEventService(log, repo, settings, catalog),
		Export:     services.NewExportService(scoreboard),
		Import:     services.NewImportService(log, repo, settings, source, m),
		Seed:       services.NewSeedService(log, repo, settings, catalog, uint64(time.Now().UnixNano())),
	}, nil
}

// Services returns the handler view of the core
func (c *Core) Services() handlers.Services {
	return handlers.Services{
		Events:     c.Events,
		Scoreboard: c.Scoreboard,
		Settings:   c.Settings,
		Export:     c.Export,
		Import:     c.Import,
		Seed:       c.Seed,
	}
}

// Close releases the database
func (c *Core) Close() error {
	return c.Repo.Close()
}

// New creates and initializes a new application instance. Background loops
// start in Run.
func New(cfg *config.Config, log logger.Logger, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	core, err := NewCore(cfg, log)
	if err != nil {
		return nil, err
	}

	hub := websocket.New(log, core.Scoreboard)
	core.Scoreboard.SetBroadcaster(hub)

	h, err := handlers.New(
		core.Services(),
		templatesFS,
		handlers.NewStaticServer(staticFS),
		adminAuth,
		auth.NewLoginLimiter(cfg.LoginRatePerMinute),
		hub,
		core.Metrics.Handler(),
		log,
	)
	if err != nil {
		core.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	log.Info("Catalog loaded", "mode", cfg.ScoringMode, "buckets", len(core.Catalog.Buckets))

	return &App{
		cfg:      cfg,
		log:      log,
		core:     core,
		handlers: h,
		hub:      hub,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases the database
func (a *App) Close() error {
	return a.core.Close()
}

// PublicURL is the address printed on the console and encoded in the
// display QR code
func (a *App) PublicURL() string {
	if a.cfg.BaseURL != "" {
		return strings.TrimRight(a.cfg.BaseURL, "/")
	}
	return lanURL(a.cfg.HTTPAddr, realNetworkProvider{})
}

// Run listens on the configured address and serves until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.HTTPAddr, err)
	}

	baseURL := a.PublicURL()
	a.setDefaultBaseURL(ctx, baseURL, a.cfg.BaseURL != "")

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin URL", "url", baseURL+"/admin")
	return a.serve(ctx, ln)
}

// serve runs the HTTP server, the scoreboard recompute loop and the
// websocket hub together. The first one to fail stops the others.
func (a *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.core.Scoreboard.Run(ctx)
	})
	g.Go(func() error {
		return a.hub.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("Server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// setDefaultBaseURL stores baseURL when nothing useful is configured yet. A
// localhost value is replaced since phones scanning the QR code cannot
// reach it. force is set when BASE_URL was given explicitly.
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string, force bool) {
	existing, err := a.core.Settings.BaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base_url", "error", err)
	}

	if !force && existing != "" && !strings.Contains(existing, "localhost") {
		return
	}
	if existing == baseURL {
		return
	}
	if err := a.core.Settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}
