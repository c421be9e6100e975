package web

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/export"
	"github.com/finvoy/spendsheet/internal/render"
	"github.com/finvoy/spendsheet/internal/store"
)

const maxUploadBytes = 10 << 20

// collectionData feeds the collection page template.
type collectionData struct {
	Resource    store.Resource
	Path        string
	Table       render.Table
	Fields      []render.Field
	FieldErrors render.FieldErrors
	Editing     *record.Record
}

func resourcePath(res store.Resource) string {
	return "/" + string(res)
}

func (s *Server) collectionPage(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.service.Refresh(r.Context(), res); err != nil {
			s.notify.Error("Loading " + string(res) + " failed: " + err.Error())
		}
		s.renderCollection(w, res, nil, nil)
	}
}

// renderCollection draws the table and form. When a failed submission is
// being re-rendered, submitted carries the user's values so they are echoed
// back next to the errors instead of being reset to defaults.
func (s *Server) renderCollection(w http.ResponseWriter, res store.Resource, fieldErrs render.FieldErrors, submitted map[string]string) {
	col := s.service.Store().Snapshot().Collection(res)
	table := render.BuildTable(col.Records)
	fields := render.FormFields(table.Columns, col.Selected, time.Now())
	if submitted != nil {
		fields = render.WithSubmitted(fields, submitted)
	}

	s.render(w, "collection", string(res), collectionData{
		Resource:    res,
		Path:        resourcePath(res),
		Table:       table,
		Fields:      fields,
		FieldErrors: fieldErrs,
		Editing:     col.Selected,
	})
}

// recordForm is the outcome of parsing a submitted record form.
type recordForm struct {
	fields    record.Fields
	errs      render.FieldErrors
	submitted map[string]string
	fileName  string
	file      multipart.File
}

// parseRecordForm reads the submitted values for the currently rendered
// field set, plus an optional file attachment.
func (s *Server) parseRecordForm(r *http.Request, res store.Resource, editing *record.Record) (recordForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return recordForm{}, err
	}

	col := s.service.Store().Snapshot().Collection(res)
	columns := record.Columns(col.Records)
	formFields := render.FormFields(columns, editing, time.Now())

	submitted := map[string]string{}
	for _, f := range formFields {
		submitted[f.Name] = r.FormValue(f.Name)
	}
	fields, errs := render.ParseSubmission(formFields, submitted)
	if errs != nil {
		return recordForm{errs: errs, submitted: submitted}, nil
	}

	file, header, err := r.FormFile("attachment")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return recordForm{fields: fields}, nil
		}
		return recordForm{}, err
	}
	return recordForm{fields: fields, fileName: header.Filename, file: file}, nil
}

func (s *Server) createRecord(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := s.parseRecordForm(r, res, nil)
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if form.errs != nil {
			s.renderCollection(w, res, form.errs, form.submitted)
			return
		}
		if form.file != nil {
			defer form.file.Close()
		}

		if form.file != nil {
			err = s.service.CreateRecordWithAttachment(r.Context(), res, form.fields, form.fileName, form.file)
		} else {
			err = s.service.CreateRecord(r.Context(), res, form.fields)
		}
		s.reportMutation(res, "added", err)
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

func (s *Server) updateRecord(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}

		col := s.service.Store().Snapshot().Collection(res)
		form, err := s.parseRecordForm(r, res, col.Selected)
		if err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if form.errs != nil {
			s.renderCollection(w, res, form.errs, form.submitted)
			return
		}
		if form.file != nil {
			defer form.file.Close()
		}

		if form.file != nil {
			err = s.service.UpdateRecordWithAttachment(r.Context(), res, row, form.fields, form.fileName, form.file)
		} else {
			err = s.service.UpdateRecord(r.Context(), res, row, form.fields)
		}
		s.reportMutation(res, "updated", err)
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

// reportMutation turns a mutation outcome into a toast. A partial success
// (record saved, upload failed) is reported distinctly, never rolled back.
func (s *Server) reportMutation(res store.Resource, verb string, err error) {
	var attErr *store.AttachmentError
	switch {
	case err == nil:
		s.notify.Success("Record " + verb)
	case errors.As(err, &attErr):
		s.notify.Error("Record " + verb + " but file upload failed: " + attErr.Unwrap().Error())
	default:
		s.notify.Error("Saving failed: " + err.Error())
	}
}

func (s *Server) selectRecord(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}

		col := s.service.Store().Snapshot().Collection(res)
		for i := range col.Records {
			if col.Records[i].Row == row {
				rec := col.Records[i]
				s.service.SelectRecord(res, &rec)
				break
			}
		}
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

func (s *Server) cancelEdit(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.service.SelectRecord(res, nil)
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

// confirmDelete renders the blocking confirmation step before a destructive
// dispatch.
func (s *Server) confirmDelete(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}
		s.render(w, "confirm_delete", "Confirm deletion", map[string]any{
			"Path": resourcePath(res),
			"Row":  row,
		})
	}
}

func (s *Server) deleteRecord(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}
		if err := s.service.DeleteRecord(r.Context(), res, row); err != nil {
			s.notify.Error("Deleting failed: " + err.Error())
		} else {
			s.notify.Success("Record deleted")
		}
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

func (s *Server) exportCollection(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		col := s.service.Store().Snapshot().Collection(res)

		// Build into memory first so a failure never sends a broken download.
		var buf bytes.Buffer
		if err := export.WriteTo(&buf, col.Records); err != nil {
			s.logger.Error("building export failed", "error", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+string(res)+`.xlsx"`)
		if _, err := w.Write(buf.Bytes()); err != nil {
			s.logger.Error("writing export failed", "error", err)
		}
	}
}

// viewAttachment redirects to the authorized media URL for the file bound
// to a row. The session rides in the URL because the browser fetches it
// without our headers.
func (s *Server) viewAttachment(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}

		info, err := s.service.GetAttachment(r.Context(), res, row)
		if err != nil {
			s.notify.Error("Loading attachment failed: " + err.Error())
			http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
			return
		}
		if !info.HasAttachment || info.FileID == nil {
			s.notify.Error("No attachment on this record")
			http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, s.client.AttachmentURL(*info.FileID), http.StatusSeeOther)
	}
}

// deleteAttachment removes the file bound to a row while leaving the record
// itself alone.
func (s *Server) deleteAttachment(res store.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, ok := rowParam(r)
		if !ok {
			http.Error(w, "bad row", http.StatusBadRequest)
			return
		}

		info, err := s.service.GetAttachment(r.Context(), res, row)
		if err != nil {
			s.notify.Error("Loading attachment failed: " + err.Error())
			http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
			return
		}
		if !info.HasAttachment || info.FileID == nil {
			s.notify.Error("No attachment on this record")
			http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
			return
		}

		if err := s.client.DeleteAttachment(r.Context(), *info.FileID); err != nil {
			s.notify.Error("Removing attachment failed: " + err.Error())
		} else {
			s.notify.Success("Attachment removed")
		}
		http.Redirect(w, r, resourcePath(res), http.StatusSeeOther)
	}
}

func rowParam(r *http.Request) (int, bool) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || row < record.FirstDataRow {
		return 0, false
	}
	return row, true
}
