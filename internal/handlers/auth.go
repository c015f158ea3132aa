package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/sportsday/internal/auth"
)

// LoginPageData holds data for the login template
type LoginPageData struct {
	SiteTitle string
	Error     string
	// Next is the admin page to return to after logging in
	Next string
}

// safeNext keeps post-login redirects on admin pages of this site
func safeNext(next string) string {
	if next == "/admin" || strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "/admin/login") {
		if !strings.ContainsAny(next, "\\\r\n") {
			return next
		}
	}
	return "/admin"
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, msg string) {
	data := LoginPageData{
		SiteTitle: h.siteTitle(r.Context()),
		Error:     msg,
		Next:      safeNext(r.FormValue("next")),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	h.templates.AdminLogin.Execute(w, data)
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Auth.GetSessionFromRequest(r) {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusFound)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "")
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, ok := h.Auth.Login(r.FormValue("password"))
	if !ok {
		h.renderLogin(w, r, http.StatusUnauthorized, "Invalid password")
		return
	}

	auth.SetSessionCookie(w, token)
	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusFound)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}
