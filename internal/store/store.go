// Package store holds the process-wide client state: the last-fetched
// collections, the active project and identity, and UI selection flags. UI
// code reads snapshots and dispatches intents; only resolved backend results
// are written back in, through the Service in this package.
package store

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
	"github.com/finvoy/spendsheet/internal/localstate"
)

// Store is the single mutable shared resource. All mutation goes through its
// methods, which apply the change under a lock and notify subscribers with
// the resulting snapshot. Derived identifiers (session token, email, current
// project id) are mirrored to the durable local state file so a restart
// restores continuity.
type Store struct {
	mu      sync.RWMutex
	state   State
	subs    map[int]func(State)
	nextSub int

	local  *localstate.Store
	logger *slog.Logger
}

// New creates a store. local may not be nil; persisted identity and project
// selection are restored lazily by Service.Bootstrap.
func New(local *localstate.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		subs:   map[int]func(State){},
		local:  local,
		logger: logger,
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate applies fn under the write lock and notifies subscribers.
func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// SessionID implements api.Credentials.
func (s *Store) SessionID() string {
	return s.Snapshot().Identity.Token
}

// ProjectID implements api.Credentials.
func (s *Store) ProjectID() string {
	if p := s.Snapshot().CurrentProject; p != nil {
		return strconv.FormatInt(p.ID, 10)
	}
	return ""
}

// SetIdentity records the authenticated identity and persists it.
func (s *Store) SetIdentity(ctx context.Context, id session.Identity) error {
	s.mutate(func(st *State) {
		st.Identity = id
	})
	if err := s.local.Set(ctx, localstate.KeySessionToken, id.Token); err != nil {
		return err
	}
	return s.local.Set(ctx, localstate.KeyUserEmail, id.Email)
}

// ClearIdentity discards the identity, all cached data, and the persisted
// keys. Local discard is authoritative for logout.
func (s *Store) ClearIdentity(ctx context.Context) error {
	s.mutate(func(st *State) {
		*st = State{}
	})
	for _, key := range []string{
		localstate.KeySessionToken,
		localstate.KeyUserEmail,
		localstate.KeyCurrentProject,
	} {
		if err := s.local.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// SetProjects replaces the project list.
func (s *Store) SetProjects(projects []project.Project) {
	s.mutate(func(st *State) {
		st.Projects = projects
	})
}

// SetTemplates replaces the template list.
func (s *Store) SetTemplates(templates []project.Template) {
	s.mutate(func(st *State) {
		st.Templates = templates
	})
}

// SetCurrentProject switches the current project and persists the choice.
// Switching away from a project drops its cached collections and any record
// selection; collections are never shared across projects.
func (s *Store) SetCurrentProject(ctx context.Context, p *project.Project) error {
	s.mutate(func(st *State) {
		changed := !sameProject(st.CurrentProject, p)
		st.CurrentProject = p
		if changed {
			st.Expenses = CollectionState{}
			st.Liabilities = CollectionState{}
		}
	})
	if p == nil {
		return s.local.Delete(ctx, localstate.KeyCurrentProject)
	}
	return s.local.Set(ctx, localstate.KeyCurrentProject, strconv.FormatInt(p.ID, 10))
}

func sameProject(a, b *project.Project) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// SetRecords replaces a collection after a fetch and stamps the sync time.
func (s *Store) SetRecords(res Resource, records []record.Record) {
	now := time.Now()
	s.mutate(func(st *State) {
		col := st.Collection(res)
		col.Records = records
		col.LastUpdated = now
		setCollection(st, res, col)
	})
}

// SelectRecord marks a record as selected for edit; nil clears the
// selection. At most one record is selected at a time.
func (s *Store) SelectRecord(res Resource, rec *record.Record) {
	s.mutate(func(st *State) {
		col := st.Collection(res)
		col.Selected = rec
		setCollection(st, res, col)
	})
}

// SetLoading flips a collection's loading flag.
func (s *Store) SetLoading(res Resource, loading bool) {
	s.mutate(func(st *State) {
		col := st.Collection(res)
		col.Loading = loading
		setCollection(st, res, col)
	})
}

// SetCollectionError records a collection-level error message.
func (s *Store) SetCollectionError(res Resource, msg string) {
	s.mutate(func(st *State) {
		col := st.Collection(res)
		col.Err = msg
		setCollection(st, res, col)
	})
}

// SetProjectsLoading flips the project list loading flag.
func (s *Store) SetProjectsLoading(loading bool) {
	s.mutate(func(st *State) {
		st.ProjectsLoading = loading
	})
}

// SetTemplatesLoading flips the template list loading flag.
func (s *Store) SetTemplatesLoading(loading bool) {
	s.mutate(func(st *State) {
		st.TemplatesLoading = loading
	})
}

// SetProjectsError records a project-level error message.
func (s *Store) SetProjectsError(msg string) {
	s.mutate(func(st *State) {
		st.ProjectsErr = msg
	})
}

func setCollection(st *State, res Resource, col CollectionState) {
	if res == ResourceLiabilities {
		st.Liabilities = col
		return
	}
	st.Expenses = col
}
