package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// the websocket stays open far longer than any request timeout
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

		// Public pages
		r.Get("/", h.handleIndex)
		r.Get("/winners", h.handleWinnersPage)
		r.Get("/results", h.handleResultsPage)

		// Public API
		r.Get("/api/scoreboard", h.handleGetScoreboard)
		r.Get("/api/scoreboard/champions", h.handleGetChampions)
		r.Get("/api/catalog", h.handleGetCatalog)
		r.Get("/api/events", h.handleGetEvents)
		r.Get("/api/winners", h.handleGetWinners)
		r.Get("/api/points", h.handleGetPoints)
		r.Get("/api/export/csv", h.handleExportCSV)
		r.Get("/api/export/xlsx", h.handleExportXLSX)
		r.Get("/api/chart.png", h.handleChart)
		r.Get("/api/display-qr.png", h.handleDisplayQR)

		// Service
		r.Get("/healthz", h.handleHealthz)
		r.Get("/openapi.json", h.handleOpenAPI)
		r.Mount("/docs", v5emb.New("Sports Day API", "/openapi.json", "/docs"))
		if h.Metrics != nil {
			r.Handle("/metrics", h.Metrics)
		}

		// Auth routes (public)
		r.Get("/admin/login", h.handleLoginPage)
		r.With(h.Limiter.Middleware).Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)

		// Admin pages (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuth)
			r.Get("/admin", h.handleAdminDashboard)
			r.Get("/admin/events", h.handleAdminEvents)
			r.Get("/admin/settings", h.handleAdminSettings)
		})

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Events
			r.Get("/api/admin/events", h.handleListEvents)
			r.Post("/api/admin/events", h.handleCreateEvent)
			r.Get("/api/admin/events/{id}", h.handleGetEvent)
			r.Put("/api/admin/events/{id}", h.handleUpdateEvent)
			r.Delete("/api/admin/events/{id}", h.handleDeleteEvent)

			// Results
			r.Put("/api/admin/events/{id}/winners", h.handleSetWinners)
			r.Delete("/api/admin/events/{id}/winners", h.handleClearWinners)
			r.Put("/api/admin/events/{id}/winners/{position}/image", h.handleWinnerImage)
			r.Post("/api/admin/repair-names", h.handleRepairNames)
			r.Post("/api/admin/recompute", h.handleRecompute)

			// Import & demo data
			r.Post("/api/admin/import/firestore", h.handleImportFirestore)
			r.Post("/api/admin/import/json", h.handleImportJSON)
			r.Post("/api/admin/seed", h.handleSeed)

			// Settings
			r.Get("/api/admin/settings", h.handleGetSettings)
			r.Put("/api/admin/settings", h.handleUpdateSettings)
			r.Get("/api/admin/stats", h.handleGetStats)
			r.Post("/api/admin/reset", h.handleResetDatabase)
		})
	})

	return r
}
