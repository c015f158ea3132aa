package handlers

import (
	"bytes"
	"net/http"

	"github.com/abrezinsky/sportsday/internal/services"
)

// ==================== Admin Pages ====================

func (h *Handlers) adminPage(r *http.Request, title, nav string) AdminPageData {
	return AdminPageData{Title: title, PageTitle: title, ActiveNav: nav, SiteTitle: h.siteTitle(r.Context())}
}

func (h *Handlers) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	h.templates.AdminDashboard.ExecuteTemplate(w, "admin", h.adminPage(r, "Admin Dashboard", "dashboard"))
}

func (h *Handlers) handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	h.templates.AdminEvents.ExecuteTemplate(w, "admin", h.adminPage(r, "Events & Results", "events"))
}

func (h *Handlers) handleAdminSettings(w http.ResponseWriter, r *http.Request) {
	h.templates.AdminSettings.ExecuteTemplate(w, "admin", h.adminPage(r, "Admin Settings", "settings"))
}

// ==================== Events ====================

func (h *Handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListEvents(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, events)
}

func (h *Handlers) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	e, err := h.Events.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	e, err := h.Events.CreateTemplate(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, e)
}

func (h *Handlers) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req EventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	e, err := h.Events.UpdateEvent(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Events.DeleteEvent(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Results ====================

func (h *Handlers) handleSetWinners(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req WinnersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	e, err := h.Events.SetWinners(r.Context(), id, req.Winners)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleClearWinners(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Events.ClearWinners(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleWinnerImage(w http.ResponseWriter, r *http.Request) {
	id, err := requireParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	position, err := parseIntParam(r, "position")
	if err != nil {
		respondError(w, err)
		return
	}
	var req WinnerImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Events.AttachWinnerImage(r.Context(), id, position, req.BucketRef, req.Image); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Image attached")
}

func (h *Handlers) handleRepairNames(w http.ResponseWriter, r *http.Request) {
	n, err := h.Events.RepairNames(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RepairResponse{Repaired: n})
}

func (h *Handlers) handleRecompute(w http.ResponseWriter, r *http.Request) {
	v, err := h.Scoreboard.Recompute(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RecomputeResponse{Revision: v.Revision, Unmatched: len(v.Unmatched)})
}

// ==================== Import & Seed ====================

func (h *Handlers) handleImportFirestore(w http.ResponseWriter, r *http.Request) {
	var req FirestoreImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Collection == "" {
		req.Collection = "events"
	}
	result, err := h.Import.ImportFromFirestore(r.Context(), req.Collection, req.PhotoCollection)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	var req JSONImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	docs, err := services.ParseDocuments(req.Documents)
	if err != nil {
		respondError(w, err)
		return
	}
	var photos []services.RawDocument
	if raw := bytes.TrimSpace(req.Photos); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if photos, err = services.ParseDocuments(raw); err != nil {
			respondError(w, err)
			return
		}
	}

	result, err := h.Import.ImportDocuments(r.Context(), docs, photos)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}

func (h *Handlers) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	n, err := h.Seed.SeedEvents(r.Context(), req.Count)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, SeedResponse{Created: n})
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Settings.UpdateSettings(r.Context(), req); err != nil {
		respondError(w, err)
		return
	}
	h.handleGetSettings(w, r)
}

func (h *Handlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Settings.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, stats)
}

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}
