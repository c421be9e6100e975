package web

import (
	"net/http"
	"net/url"

	"github.com/finvoy/spendsheet/internal/domain/project"
)

// loginData feeds the login page.
type loginData struct {
	LoginURL string
	Err      string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.service.Store().Snapshot().Identity.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "login", "Sign in", loginData{
		LoginURL: s.client.LoginURL(),
		Err:      r.URL.Query().Get("error"),
	})
}

// handleAuthCallback lands the browser after the backend finishes the OAuth
// exchange. The backend delivers the session id and email as query
// parameters; storing them is all that "logging in" means locally.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errMsg := query.Get("error"); errMsg != "" {
		s.notify.Error("Sign-in failed: " + errMsg)
		http.Redirect(w, r, "/login?error="+url.QueryEscape(errMsg), http.StatusSeeOther)
		return
	}

	sessionID := query.Get("sessionId")
	email := query.Get("email")
	if sessionID == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := s.service.HandleAuthCallback(r.Context(), sessionID, email); err != nil {
		s.logger.Error("storing session failed", "error", err)
		http.Error(w, "failed to store session", http.StatusInternalServerError)
		return
	}
	if err := s.service.RefreshProjects(r.Context()); err != nil {
		s.logger.Warn("loading projects after sign-in failed", "error", err)
	}

	s.notify.Success("Signed in as " + email)
	// The page redirects itself home after a short pause.
	s.render(w, "callback", "Signed in", email)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Logout(r.Context()); err != nil {
		s.logger.Error("logout failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleConnect binds a spreadsheet to the session, accepting either a bare
// id or a full sheet URL.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sheet := r.FormValue("spreadsheet")
	if id := project.SpreadsheetIDFromURL(sheet); id != "" {
		sheet = id
	}
	if sheet == "" {
		s.notify.Error("Spreadsheet id is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := s.client.ConnectSpreadsheet(r.Context(), sheet); err != nil {
		s.notify.Error("Connecting spreadsheet failed: " + err.Error())
	} else {
		s.notify.Success("Spreadsheet connected")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if len(s.service.Store().Snapshot().Projects) == 0 {
		if err := s.service.RefreshProjects(r.Context()); err != nil {
			s.logger.Warn("loading projects failed", "error", err)
		}
	}
	s.render(w, "home", "Overview", nil)
}
