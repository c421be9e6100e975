package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/finvoy/spendsheet/internal/notify"
	"github.com/finvoy/spendsheet/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// pageData is what every page template receives.
type pageData struct {
	Title         string
	State         store.State
	Notifications []notify.Notification
	Data          any
}

func (s *Server) render(w http.ResponseWriter, name, title string, data any) {
	page := pageData{
		Title:         title,
		State:         s.service.Store().Snapshot(),
		Notifications: s.notify.Active(),
		Data:          data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, page); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
