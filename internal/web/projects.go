package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/finvoy/spendsheet/internal/domain/project"
)

func (s *Server) handleProjectsPage(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RefreshProjects(r.Context()); err != nil {
		s.notify.Error("Loading projects failed: " + err.Error())
	}
	if err := s.service.RefreshTemplates(r.Context()); err != nil {
		s.logger.Warn("loading templates failed", "error", err)
	}
	s.render(w, "projects", "Projects", nil)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	req := project.CreateRequest{
		Name:           r.FormValue("name"),
		Mode:           project.Mode(r.FormValue("mode")),
		SpreadsheetURL: r.FormValue("spreadsheetUrl"),
	}
	if raw := r.FormValue("templateId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			req.TemplateID = &id
		}
	}

	// Validation failures never reach the network.
	if err := project.ValidateCreate(req); err != nil {
		s.notify.Error("Invalid project: " + err.Error())
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
		return
	}

	created, err := s.service.CreateProject(r.Context(), req)
	if err != nil {
		s.notify.Error("Creating project failed: " + err.Error())
	} else {
		s.notify.Success("Project " + created.Name + " created")
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (s *Server) handleSetDefaultProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad project id", http.StatusBadRequest)
		return
	}
	if err := s.service.SetDefaultProject(r.Context(), id); err != nil {
		s.notify.Error("Setting default failed: " + err.Error())
	} else {
		s.notify.Success("Default project updated")
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad project id", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteProject(r.Context(), id); err != nil {
		s.notify.Error("Deleting project failed: " + err.Error())
	} else {
		s.notify.Success("Project deleted")
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (s *Server) handleSelectProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "bad project id", http.StatusBadRequest)
		return
	}

	snapshot := s.service.Store().Snapshot()
	for i := range snapshot.Projects {
		if snapshot.Projects[i].ID == id {
			if err := s.service.SelectProject(r.Context(), &snapshot.Projects[i]); err != nil {
				s.notify.Error("Switching project failed: " + err.Error())
			}
			break
		}
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	s.notify.Dismiss(chi.URLParam(r, "id"))
	referer := r.Header.Get("Referer")
	if referer == "" {
		referer = "/"
	}
	http.Redirect(w, r, referer, http.StatusSeeOther)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
