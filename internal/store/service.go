package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
	"github.com/finvoy/spendsheet/internal/localstate"
)

// AttachmentError reports a compound operation whose record mutation
// succeeded but whose file upload did not. The record is kept; nothing is
// rolled back.
type AttachmentError struct {
	Err error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("saved but file upload failed: %v", e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// Service orchestrates backend calls and store updates. Every mutation on a
// collection is followed by a full re-fetch before it is considered
// complete: the client never renumbers rows itself, it always takes the
// server's word for the collection. This trades an extra round trip for
// consistency that is trivial to reason about.
type Service struct {
	store       *Store
	local       *localstate.Store
	auth        AuthAPI
	projects    ProjectAPI
	collections map[Resource]CollectionAPI
	logger      *slog.Logger
}

// NewService creates the orchestration layer.
func NewService(
	st *Store,
	local *localstate.Store,
	auth AuthAPI,
	projects ProjectAPI,
	expenses CollectionAPI,
	liabilities CollectionAPI,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    st,
		local:    local,
		auth:     auth,
		projects: projects,
		collections: map[Resource]CollectionAPI{
			ResourceExpenses:    expenses,
			ResourceLiabilities: liabilities,
		},
		logger: logger,
	}
}

// Store exposes the underlying state container for readers.
func (s *Service) Store() *Store {
	return s.store
}

// Bootstrap restores persisted identity, verifies it against the backend,
// and, when still signed in, loads the project list and prior project
// selection. A session the backend no longer honors is cleared rather than
// carried into every subsequent call.
func (s *Service) Bootstrap(ctx context.Context) error {
	token, err := s.local.Get(ctx, localstate.KeySessionToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	email, err := s.local.Get(ctx, localstate.KeyUserEmail)
	if err != nil {
		return err
	}
	if err := s.store.SetIdentity(ctx, session.Identity{Token: token, Email: email}); err != nil {
		return err
	}

	status, err := s.CheckAuthStatus(ctx)
	switch {
	case err != nil:
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.IsAuthError() {
			s.logger.Info("persisted session rejected by backend, clearing")
			return s.store.ClearIdentity(ctx)
		}
		// Backend unreachable: keep the session and let later calls report.
		s.logger.Warn("auth status check failed", "error", err)
	case !status.Authenticated:
		s.logger.Info("persisted session expired, clearing")
		return s.store.ClearIdentity(ctx)
	}

	if err := s.RefreshProjects(ctx); err != nil {
		s.logger.Warn("restoring project list failed", "error", err)
	}
	return nil
}

func (s *Service) collection(res Resource) CollectionAPI {
	return s.collections[res]
}

// Refresh re-fetches a collection into the store.
func (s *Service) Refresh(ctx context.Context, res Resource) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	records, err := s.collection(res).List(ctx)
	if err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	s.store.SetRecords(res, records)
	return nil
}

// refetch re-fetches after a mutation. The loading flag is held by the
// caller across the whole mutate-then-refetch chain so the UI stays disabled
// until the collection reflects the mutation.
func (s *Service) refetch(ctx context.Context, res Resource) error {
	records, err := s.collection(res).List(ctx)
	if err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	s.store.SetRecords(res, records)
	s.store.SelectRecord(res, nil)
	return nil
}

// CreateRecord submits a new record and re-fetches the collection.
func (s *Service) CreateRecord(ctx context.Context, res Resource, fields record.Fields) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	if err := s.collection(res).Create(ctx, fields); err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	return s.refetch(ctx, res)
}

// CreateRecordWithAttachment creates a record, re-fetches to learn its row,
// then uploads the file against that row. A failed upload does not roll the
// record back; it surfaces as an AttachmentError so the caller can report
// the partial outcome distinctly.
func (s *Service) CreateRecordWithAttachment(ctx context.Context, res Resource, fields record.Fields, fileName string, file io.Reader) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	if err := s.collection(res).Create(ctx, fields); err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	if err := s.refetch(ctx, res); err != nil {
		return err
	}

	records := s.store.Snapshot().Collection(res).Records
	if len(records) == 0 {
		return &AttachmentError{Err: fmt.Errorf("created record not found after refresh")}
	}
	// The new record lands at the bottom of the sheet.
	row := records[len(records)-1].Row

	if _, err := s.collection(res).UploadAttachment(ctx, row, fileName, file); err != nil {
		return &AttachmentError{Err: err}
	}
	return nil
}

// UpdateRecord replaces the record at row wholesale and re-fetches.
func (s *Service) UpdateRecord(ctx context.Context, res Resource, row int, fields record.Fields) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	if err := s.collection(res).Update(ctx, row, fields); err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	return s.refetch(ctx, res)
}

// UpdateRecordWithAttachment updates the record, re-fetches, then uploads
// the file against the same row. Partial success keeps the update. The
// loading flag is held until the upload settles, like the create chain.
func (s *Service) UpdateRecordWithAttachment(ctx context.Context, res Resource, row int, fields record.Fields, fileName string, file io.Reader) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	if err := s.collection(res).Update(ctx, row, fields); err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	if err := s.refetch(ctx, res); err != nil {
		return err
	}
	if _, err := s.collection(res).UploadAttachment(ctx, row, fileName, file); err != nil {
		return &AttachmentError{Err: err}
	}
	return nil
}

// DeleteRecord removes the record at row and re-fetches.
func (s *Service) DeleteRecord(ctx context.Context, res Resource, row int) error {
	s.store.SetLoading(res, true)
	s.store.SetCollectionError(res, "")
	defer s.store.SetLoading(res, false)

	if err := s.collection(res).Delete(ctx, row); err != nil {
		s.store.SetCollectionError(res, err.Error())
		return err
	}
	return s.refetch(ctx, res)
}

// GetAttachment fetches attachment metadata for a row.
func (s *Service) GetAttachment(ctx context.Context, res Resource, row int) (*api.AttachmentInfo, error) {
	return s.collection(res).GetAttachment(ctx, row)
}

// SelectRecord marks a record for editing.
func (s *Service) SelectRecord(res Resource, rec *record.Record) {
	s.store.SelectRecord(res, rec)
}

// RefreshProjects fetches the project list and settles the current project:
// the persisted prior choice when it still exists, else the default-flagged
// project, else the first one.
func (s *Service) RefreshProjects(ctx context.Context) error {
	s.store.SetProjectsLoading(true)
	s.store.SetProjectsError("")
	defer s.store.SetProjectsLoading(false)

	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		s.store.SetProjectsError(err.Error())
		return err
	}
	s.store.SetProjects(projects)

	current := s.pickCurrent(ctx, projects)
	return s.store.SetCurrentProject(ctx, current)
}

func (s *Service) pickCurrent(ctx context.Context, projects []project.Project) *project.Project {
	persisted, err := s.local.Get(ctx, localstate.KeyCurrentProject)
	if err != nil {
		s.logger.Warn("reading persisted project id failed", "error", err)
	}
	if persisted != "" {
		if id, err := strconv.ParseInt(persisted, 10, 64); err == nil {
			for i := range projects {
				if projects[i].ID == id {
					return &projects[i]
				}
			}
		}
	}
	return project.NextCurrent(projects)
}

// RefreshTemplates fetches the starting-sheet templates.
func (s *Service) RefreshTemplates(ctx context.Context) error {
	s.store.SetTemplatesLoading(true)
	defer s.store.SetTemplatesLoading(false)

	templates, err := s.projects.ListTemplates(ctx)
	if err != nil {
		s.store.SetProjectsError(err.Error())
		return err
	}
	s.store.SetTemplates(templates)
	return nil
}

// CreateProject creates a project and makes it current.
func (s *Service) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	s.store.SetProjectsLoading(true)
	s.store.SetProjectsError("")
	defer s.store.SetProjectsLoading(false)

	created, err := s.projects.CreateProject(ctx, req)
	if err != nil {
		s.store.SetProjectsError(err.Error())
		return nil, err
	}

	projects := append(s.store.Snapshot().Projects, *created)
	s.store.SetProjects(projects)
	if err := s.store.SetCurrentProject(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// SetDefaultProject flags a project as default and makes it current.
func (s *Service) SetDefaultProject(ctx context.Context, id int64) error {
	s.store.SetProjectsLoading(true)
	s.store.SetProjectsError("")
	defer s.store.SetProjectsLoading(false)

	if _, err := s.projects.SetDefaultProject(ctx, id); err != nil {
		s.store.SetProjectsError(err.Error())
		return err
	}

	snapshot := s.store.Snapshot()
	updated := make([]project.Project, len(snapshot.Projects))
	var current *project.Project
	for i, p := range snapshot.Projects {
		p.IsDefault = p.ID == id
		updated[i] = p
		if p.IsDefault {
			current = &updated[i]
		}
	}
	s.store.SetProjects(updated)
	if current != nil {
		return s.store.SetCurrentProject(ctx, current)
	}
	return nil
}

// DeleteProject removes a project. If it was current, the default-flagged
// remaining project takes over, else the first remaining, else none.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	s.store.SetProjectsLoading(true)
	s.store.SetProjectsError("")
	defer s.store.SetProjectsLoading(false)

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		s.store.SetProjectsError(err.Error())
		return err
	}

	snapshot := s.store.Snapshot()
	remaining := make([]project.Project, 0, len(snapshot.Projects))
	for _, p := range snapshot.Projects {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	s.store.SetProjects(remaining)

	if snapshot.CurrentProject != nil && snapshot.CurrentProject.ID == id {
		return s.store.SetCurrentProject(ctx, project.NextCurrent(remaining))
	}
	return nil
}

// SelectProject switches the current project.
func (s *Service) SelectProject(ctx context.Context, p *project.Project) error {
	return s.store.SetCurrentProject(ctx, p)
}

// HandleAuthCallback stores the identity delivered by the OAuth callback.
func (s *Service) HandleAuthCallback(ctx context.Context, sessionID, email string) error {
	return s.store.SetIdentity(ctx, session.Identity{Token: sessionID, Email: email})
}

// Logout discards the local session. The server-side revocation is
// best-effort; its failure is logged and otherwise ignored.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("server-side logout failed", "error", err)
	}
	return s.store.ClearIdentity(ctx)
}

// CheckAuthStatus asks the backend whether the held session is still valid.
func (s *Service) CheckAuthStatus(ctx context.Context) (*session.Status, error) {
	return s.auth.AuthStatus(ctx)
}
