// Package web serves the local HTML UI. Handlers read store snapshots and
// dispatch intents to the service; they never mutate state directly.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/notify"
	"github.com/finvoy/spendsheet/internal/store"
)

// Server wires HTTP handlers for the UI.
type Server struct {
	service *store.Service
	client  *api.Client
	notify  *notify.Center
	logger  *slog.Logger
}

// NewServer creates the UI server.
func NewServer(service *store.Service, client *api.Client, center *notify.Center, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{service: service, client: client, notify: center, logger: logger}
}

// Router builds the route table.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/login", s.handleLoginPage)
	r.Get("/auth/callback", s.handleAuthCallback)
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/", s.handleHome)
		r.Post("/logout", s.handleLogout)
		r.Post("/connect", s.handleConnect)
		r.Post("/notifications/{id}/dismiss", s.handleDismissNotification)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleProjectsPage)
			r.Post("/", s.handleCreateProject)
			r.Post("/{id}/default", s.handleSetDefaultProject)
			r.Post("/{id}/delete", s.handleDeleteProject)
			r.Post("/{id}/select", s.handleSelectProject)
		})

		s.mountCollection(r, "/expenses", store.ResourceExpenses)
		s.mountCollection(r, "/liabilities", store.ResourceLiabilities)
	})

	return r
}

func (s *Server) mountCollection(r chi.Router, path string, res store.Resource) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", s.collectionPage(res))
		r.Post("/", s.createRecord(res))
		r.Get("/export", s.exportCollection(res))
		r.Get("/cancel", s.cancelEdit(res))
		r.Get("/{row}/edit", s.selectRecord(res))
		r.Post("/{row}/update", s.updateRecord(res))
		r.Get("/{row}/delete", s.confirmDelete(res))
		r.Post("/{row}/delete", s.deleteRecord(res))
		r.Get("/{row}/attachment", s.viewAttachment(res))
		r.Post("/{row}/attachment/delete", s.deleteAttachment(res))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requireSession redirects signed-out visitors to the login page. Absence of
// the local token is the sole signal of "not authenticated".
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.service.Store().Snapshot().Identity.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
