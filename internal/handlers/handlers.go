package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/sportsday/internal/auth"
	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/services"
	"github.com/abrezinsky/sportsday/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
	SiteTitle string
}

// PublicPageData holds the data passed to the public pages. The page
// scripts take over from the server-rendered view once the socket connects.
type PublicPageData struct {
	Title     string
	SiteTitle string
	View      *services.View
	Winners   []models.WinnerRow
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index          *template.Template
	Winners        *template.Template
	Results        *template.Template
	AdminLogin     *template.Template
	AdminDashboard *template.Template
	AdminEvents    *template.Template
	AdminSettings  *template.Template
}

// Services groups the application services the handlers call
type Services struct {
	Events     services.EventServicer
	Scoreboard services.ScoreboardServicer
	Settings   services.SettingsServicer
	Export     services.ExportServicer
	Import     services.ImportServicer
	Seed       services.SeedServicer
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Events       services.EventServicer
	Scoreboard   services.ScoreboardServicer
	Settings     services.SettingsServicer
	Export       services.ExportServicer
	Import       services.ImportServicer
	Seed         services.SeedServicer
	Auth         *auth.Auth
	Limiter      *auth.LoginLimiter
	Hub          *websocket.Hub
	Metrics      http.Handler
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
	openapi      []byte
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	limiter *auth.LoginLimiter,
	hub *websocket.Hub,
	metrics http.Handler,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	doc, err := openAPIDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to build API document: %w", err)
	}

	return &Handlers{
		Events:       svc.Events,
		Scoreboard:   svc.Scoreboard,
		Settings:     svc.Settings,
		Export:       svc.Export,
		Import:       svc.Import,
		Seed:         svc.Seed,
		Auth:         adminAuth,
		Limiter:      limiter,
		Hub:          hub,
		Metrics:      metrics,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
		openapi:      doc,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for
// testing API endpoints). The admin password is "test-password".
func NewForTesting(svc Services) *Handlers {
	doc, _ := openAPIDocument()
	return &Handlers{
		Events:       svc.Events,
		Scoreboard:   svc.Scoreboard,
		Settings:     svc.Settings,
		Export:       svc.Export,
		Import:       svc.Import,
		Seed:         svc.Seed,
		Auth:         auth.New("test-password"),
		Limiter:      auth.NewLoginLimiter(1000),
		Log:          NoopHTTPLogger{},
		staticServer: http.NotFoundHandler(),
		openapi:      doc,
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Winners, err = template.ParseFS(templatesFS, "winners.html"); err != nil {
		return nil, fmt.Errorf("winners template: %w", err)
	}
	if t.Results, err = template.ParseFS(templatesFS, "results.html"); err != nil {
		return nil, fmt.Errorf("results template: %w", err)
	}
	if t.AdminLogin, err = template.ParseFS(templatesFS, "admin/login.html"); err != nil {
		return nil, fmt.Errorf("admin login template: %w", err)
	}
	if t.AdminDashboard, err = template.ParseFS(templatesFS, "admin/layout.html", "admin/dashboard.html"); err != nil {
		return nil, fmt.Errorf("admin dashboard template: %w", err)
	}
	if t.AdminEvents, err = template.ParseFS(templatesFS, "admin/layout.html", "admin/events.html"); err != nil {
		return nil, fmt.Errorf("admin events template: %w", err)
	}
	if t.AdminSettings, err = template.ParseFS(templatesFS, "admin/layout.html", "admin/settings.html"); err != nil {
		return nil, fmt.Errorf("admin settings template: %w", err)
	}

	return t, nil
}
