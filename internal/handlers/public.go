package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/services"
)

// ==================== Public Pages ====================

// siteTitle is the configured title, or the default when unset or
// unreadable
func (h *Handlers) siteTitle(ctx context.Context) string {
	if site, err := h.Settings.SiteTitle(ctx); err == nil && site != "" {
		return site
	}
	return "Sports Day"
}

func (h *Handlers) publicPage(ctx context.Context, title string) PublicPageData {
	data := PublicPageData{Title: title, SiteTitle: h.siteTitle(ctx)}
	// pages still render without a view; the socket fills them in
	if v, err := h.Scoreboard.Current(ctx); err == nil {
		data.View = v
	}
	return data
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, h.publicPage(r.Context(), "Leaderboard"))
}

func (h *Handlers) handleWinnersPage(w http.ResponseWriter, r *http.Request) {
	data := h.publicPage(r.Context(), "Winners")
	if rows, err := h.Scoreboard.Winners(r.Context(), services.WinnerFilter{}); err == nil {
		data.Winners = rows
	}
	h.templates.Winners.Execute(w, data)
}

func (h *Handlers) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	h.templates.Results.Execute(w, h.publicPage(r.Context(), "Event Results"))
}

// ==================== Scoreboard API ====================

func (h *Handlers) handleGetScoreboard(w http.ResponseWriter, r *http.Request) {
	v, err := h.Scoreboard.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, v)
}

func (h *Handlers) handleGetChampions(w http.ResponseWriter, r *http.Request) {
	v, err := h.Scoreboard.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ChampionsResponse{Revision: v.Revision, Champions: v.Champions, Leader: v.Leader})
}

// handleGetEvents lists events with points as the scoreboard counts them
func (h *Handlers) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	v, err := h.Scoreboard.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	events := v.Events
	if events == nil {
		events = []models.EventRecord{}
	}
	respondOK(w, events)
}

func (h *Handlers) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.Scoreboard.Catalog()
	respondOK(w, CatalogResponse{Mode: c.Mode, Levels: c.Levels, Buckets: c.Buckets})
}

func (h *Handlers) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	var filter services.WinnerFilter
	if q := r.URL.Query().Get("category"); q != "" {
		filter.Category = models.Category(strings.ToLower(q))
		if !filter.Category.Known() {
			respondError(w, BadRequest("Invalid category: "+q))
			return
		}
	}
	if q := r.URL.Query().Get("type"); q != "" {
		typ, ok := parseEventType(q)
		if !ok {
			respondError(w, BadRequest("Invalid event type: "+q))
			return
		}
		filter.Type = typ
	}

	rows, err := h.Scoreboard.Winners(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, rows)
}

func (h *Handlers) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.URL.Query().Get("position"))
	if err != nil {
		respondError(w, BadRequest("Invalid position parameter"))
		return
	}
	typ, ok := parseEventType(r.URL.Query().Get("type"))
	if !ok {
		respondError(w, BadRequest("Invalid type parameter"))
		return
	}

	advice, err := h.Events.PointsAdvice(r.Context(), position, typ)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, advice)
}

// ==================== Exports ====================

func (h *Handlers) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if table := r.URL.Query().Get("table"); table != "" {
		file, err := h.Export.Table(r.Context(), table)
		if err != nil {
			respondError(w, err)
			return
		}
		respondFile(w, "text/csv; charset=utf-8", file.Name, file.Content)
		return
	}

	bundle, err := h.Export.CSV(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		respondOK(w, newCSVExportResponse(bundle))
		return
	}
	respondFile(w, "text/csv; charset=utf-8", bundle.Combined.Name, bundle.Combined.Content)
}

func (h *Handlers) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.Export.XLSX(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", h.Export.XLSXFileName(), data)
}

func (h *Handlers) handleChart(w http.ResponseWriter, r *http.Request) {
	data, err := h.Export.Chart(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondImage(w, data)
}

func (h *Handlers) handleDisplayQR(w http.ResponseWriter, r *http.Request) {
	data, err := h.Scoreboard.DisplayQR(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondImage(w, data)
}

// ==================== Service ====================

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	v := h.Scoreboard.Published()
	if v == nil {
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "starting"})
		return
	}
	respondOK(w, HealthResponse{Status: "ok", Revision: v.Revision})
}

func (h *Handlers) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.openapi)
}

// parseEventType accepts event types in any letter case
func parseEventType(s string) (models.EventType, bool) {
	for _, t := range []models.EventType{models.Individual, models.Group} {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return "", false
}
