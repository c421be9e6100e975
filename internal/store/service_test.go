package store_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
	"github.com/finvoy/spendsheet/internal/localstate"
	"github.com/finvoy/spendsheet/internal/store"
	"github.com/finvoy/spendsheet/internal/store/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service     *store.Service
	store       *store.Store
	local       *localstate.Store
	auth        *mocks.AuthAPI
	projects    *mocks.ProjectAPI
	expenses    *mocks.CollectionAPI
	liabilities *mocks.CollectionAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	local, err := localstate.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(local, logger)
	auth := &mocks.AuthAPI{}
	projects := &mocks.ProjectAPI{}
	expenses := &mocks.CollectionAPI{}
	liabilities := &mocks.CollectionAPI{}

	return &fixture{
		service:     store.NewService(st, local, auth, projects, expenses, liabilities, logger),
		store:       st,
		local:       local,
		auth:        auth,
		projects:    projects,
		expenses:    expenses,
		liabilities: liabilities,
	}
}

func rec(row int, cols ...string) record.Record {
	f := record.NewFields()
	for i := 0; i+1 < len(cols); i += 2 {
		f.Set(cols[i], cols[i+1])
	}
	return record.Record{Row: row, Fields: f}
}

func TestService_CreateTriggersRefetch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fields := record.NewFields()
	fields.Set("description", "Coffee")

	f.expenses.On("Create", ctx, fields).Return(nil).Once()
	f.expenses.On("List", ctx).Return([]record.Record{rec(2, "description", "Coffee")}, nil).Once()

	require.NoError(t, f.service.CreateRecord(ctx, store.ResourceExpenses, fields))

	state := f.store.Snapshot()
	require.Len(t, state.Expenses.Records, 1)
	require.Equal(t, 2, state.Expenses.Records[0].Row)
	require.Nil(t, state.Expenses.Selected)
	require.False(t, state.Expenses.Loading)
	require.False(t, state.Expenses.LastUpdated.IsZero())
	f.expenses.AssertExpectations(t)
}

func TestService_FailedMutationLeavesCacheUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.SetRecords(store.ResourceExpenses, []record.Record{rec(2, "description", "Old")})

	fields := record.NewFields()
	fields.Set("description", "New")
	f.expenses.On("Create", ctx, fields).Return(errors.New("sheet is locked")).Once()

	err := f.service.CreateRecord(ctx, store.ResourceExpenses, fields)
	require.Error(t, err)

	state := f.store.Snapshot()
	require.Len(t, state.Expenses.Records, 1)
	require.Equal(t, "sheet is locked", state.Expenses.Err)
	f.expenses.AssertNumberOfCalls(t, "List", 0)
}

func TestService_UpdateAndDeleteRefetch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fields := record.NewFields()
	fields.Set("description", "Taxi")

	f.liabilities.On("Update", ctx, 4, fields).Return(nil).Once()
	f.liabilities.On("Delete", ctx, 4).Return(nil).Once()
	f.liabilities.On("List", ctx).Return([]record.Record{rec(2, "description", "Taxi")}, nil).Twice()

	require.NoError(t, f.service.UpdateRecord(ctx, store.ResourceLiabilities, 4, fields))
	require.NoError(t, f.service.DeleteRecord(ctx, store.ResourceLiabilities, 4))
	f.liabilities.AssertExpectations(t)
}

func TestService_AttachmentFailureKeepsCreatedRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fields := record.NewFields()
	fields.Set("date", "2024-01-01")
	fields.Set("description", "Taxi")
	fields.Set("amount", 12)
	fields.Set("category", "Transport")

	fetched := []record.Record{rec(2, "description", "Coffee"), rec(3, "description", "Taxi")}
	f.expenses.On("Create", ctx, fields).Return(nil).Once()
	f.expenses.On("List", ctx).Return(fetched, nil).Once()
	f.expenses.On("UploadAttachment", ctx, 3, "receipt.png", mock.Anything).
		Return(nil, errors.New("boom")).Once()

	err := f.service.CreateRecordWithAttachment(ctx, store.ResourceExpenses, fields, "receipt.png", strings.NewReader("data"))
	require.Error(t, err)

	var attErr *store.AttachmentError
	require.ErrorAs(t, err, &attErr)
	require.Contains(t, attErr.Error(), "saved but file upload failed")

	// The expense survives the failed upload.
	state := f.store.Snapshot()
	require.Len(t, state.Expenses.Records, 2)
	f.expenses.AssertExpectations(t)
}

func TestService_AttachmentUploadsRunUnderLoadingFlag(t *testing.T) {
	ctx := context.Background()

	fields := record.NewFields()
	fields.Set("description", "Taxi")
	fetched := []record.Record{rec(2, "description", "Taxi")}

	chains := map[string]func(f *fixture) error{
		"create": func(f *fixture) error {
			return f.service.CreateRecordWithAttachment(ctx, store.ResourceExpenses, fields, "receipt.png", strings.NewReader("data"))
		},
		"update": func(f *fixture) error {
			return f.service.UpdateRecordWithAttachment(ctx, store.ResourceExpenses, 2, fields, "receipt.png", strings.NewReader("data"))
		},
	}

	for name, run := range chains {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.expenses.On("Create", ctx, fields).Return(nil).Maybe()
			f.expenses.On("Update", ctx, 2, fields).Return(nil).Maybe()
			f.expenses.On("List", ctx).Return(fetched, nil).Once()
			f.expenses.On("UploadAttachment", ctx, 2, "receipt.png", mock.Anything).
				Run(func(mock.Arguments) {
					// The UI stays disabled until the upload settles.
					require.True(t, f.store.Snapshot().Expenses.Loading)
				}).
				Return(&api.Attachment{FileID: "file1"}, nil).Once()

			require.NoError(t, run(f))
			require.False(t, f.store.Snapshot().Expenses.Loading)
			f.expenses.AssertExpectations(t)
		})
	}
}

func TestService_AttachmentFailureKeepsUpdatedRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	fields := record.NewFields()
	fields.Set("description", "Taxi")
	fetched := []record.Record{rec(2, "description", "Taxi")}

	f.expenses.On("Update", ctx, 2, fields).Return(nil).Once()
	f.expenses.On("List", ctx).Return(fetched, nil).Once()
	f.expenses.On("UploadAttachment", ctx, 2, "receipt.png", mock.Anything).
		Return(nil, errors.New("boom")).Once()

	err := f.service.UpdateRecordWithAttachment(ctx, store.ResourceExpenses, 2, fields, "receipt.png", strings.NewReader("data"))

	var attErr *store.AttachmentError
	require.ErrorAs(t, err, &attErr)
	require.Len(t, f.store.Snapshot().Expenses.Records, 1)
	require.False(t, f.store.Snapshot().Expenses.Loading)
	f.expenses.AssertExpectations(t)
}

func TestService_SwitchingProjectClearsSelectionAndCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := project.Project{ID: 1, Name: "A"}
	b := project.Project{ID: 2, Name: "B"}

	require.NoError(t, f.service.SelectProject(ctx, &a))
	f.store.SetRecords(store.ResourceExpenses, []record.Record{rec(2, "description", "Coffee")})
	selected := rec(2, "description", "Coffee")
	f.store.SelectRecord(store.ResourceExpenses, &selected)

	require.NoError(t, f.service.SelectProject(ctx, &b))

	state := f.store.Snapshot()
	require.Nil(t, state.Expenses.Selected)
	require.Empty(t, state.Expenses.Records)
	require.True(t, state.Expenses.LastUpdated.IsZero())

	persisted, err := f.local.Get(ctx, localstate.KeyCurrentProject)
	require.NoError(t, err)
	require.Equal(t, "2", persisted)
}

func TestService_DeleteCurrentProjectReassignsToDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	projects := []project.Project{
		{ID: 1, Name: "Current"},
		{ID: 2, Name: "Other"},
		{ID: 3, Name: "Fallback", IsDefault: true},
	}
	f.store.SetProjects(projects)
	require.NoError(t, f.store.SetCurrentProject(ctx, &projects[0]))

	f.projects.On("DeleteProject", ctx, int64(1)).Return(nil).Once()
	require.NoError(t, f.service.DeleteProject(ctx, 1))

	state := f.store.Snapshot()
	require.Len(t, state.Projects, 2)
	require.NotNil(t, state.CurrentProject)
	require.Equal(t, int64(3), state.CurrentProject.ID)
}

func TestService_DeleteLastProjectClearsCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	only := project.Project{ID: 7, Name: "Only"}
	f.store.SetProjects([]project.Project{only})
	require.NoError(t, f.store.SetCurrentProject(ctx, &only))

	f.projects.On("DeleteProject", ctx, int64(7)).Return(nil).Once()
	require.NoError(t, f.service.DeleteProject(ctx, 7))

	state := f.store.Snapshot()
	require.Empty(t, state.Projects)
	require.Nil(t, state.CurrentProject)

	persisted, err := f.local.Get(ctx, localstate.KeyCurrentProject)
	require.NoError(t, err)
	require.Equal(t, "", persisted)
}

func TestService_RefreshProjectsPrefersPersistedChoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.local.Set(ctx, localstate.KeyCurrentProject, "2"))
	projects := []project.Project{
		{ID: 1, Name: "Default", IsDefault: true},
		{ID: 2, Name: "Chosen"},
	}
	f.projects.On("ListProjects", ctx).Return(projects, nil).Once()

	require.NoError(t, f.service.RefreshProjects(ctx))
	state := f.store.Snapshot()
	require.NotNil(t, state.CurrentProject)
	require.Equal(t, int64(2), state.CurrentProject.ID)
}

func TestService_RefreshProjectsFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	projects := []project.Project{
		{ID: 1, Name: "First"},
		{ID: 2, Name: "Default", IsDefault: true},
	}
	f.projects.On("ListProjects", ctx).Return(projects, nil).Once()

	require.NoError(t, f.service.RefreshProjects(ctx))
	state := f.store.Snapshot()
	require.Equal(t, int64(2), state.CurrentProject.ID)
}

func TestService_LogoutClearsEverythingDespiteServerError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.service.HandleAuthCallback(ctx, "sess1", "me@example.com"))
	require.Equal(t, "sess1", f.store.SessionID())

	f.auth.On("Logout", ctx).Return(errors.New("backend down")).Once()
	require.NoError(t, f.service.Logout(ctx))

	require.Equal(t, "", f.store.SessionID())
	token, err := f.local.Get(ctx, localstate.KeySessionToken)
	require.NoError(t, err)
	require.Equal(t, "", token)
}

func TestService_BootstrapRestoresIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.local.Set(ctx, localstate.KeySessionToken, "sess1"))
	require.NoError(t, f.local.Set(ctx, localstate.KeyUserEmail, "me@example.com"))
	f.auth.On("AuthStatus", ctx).
		Return(&session.Status{Authenticated: true, Email: "me@example.com"}, nil).Once()
	f.projects.On("ListProjects", ctx).Return([]project.Project{}, nil).Once()

	require.NoError(t, f.service.Bootstrap(ctx))

	state := f.store.Snapshot()
	require.True(t, state.Identity.Authenticated())
	require.Equal(t, "me@example.com", state.Identity.Email)
}

func TestService_BootstrapClearsRejectedSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.local.Set(ctx, localstate.KeySessionToken, "stale"))
	require.NoError(t, f.local.Set(ctx, localstate.KeyUserEmail, "me@example.com"))
	f.auth.On("AuthStatus", ctx).
		Return(nil, &api.Error{Status: 401, Message: "session expired"}).Once()

	require.NoError(t, f.service.Bootstrap(ctx))

	require.False(t, f.store.Snapshot().Identity.Authenticated())
	token, err := f.local.Get(ctx, localstate.KeySessionToken)
	require.NoError(t, err)
	require.Equal(t, "", token)
	f.projects.AssertNumberOfCalls(t, "ListProjects", 0)
}

func TestService_BootstrapClearsExpiredSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.local.Set(ctx, localstate.KeySessionToken, "stale"))
	f.auth.On("AuthStatus", ctx).Return(&session.Status{Authenticated: false}, nil).Once()

	require.NoError(t, f.service.Bootstrap(ctx))
	require.False(t, f.store.Snapshot().Identity.Authenticated())
}

func TestService_BootstrapKeepsSessionWhenBackendUnreachable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.local.Set(ctx, localstate.KeySessionToken, "sess1"))
	require.NoError(t, f.local.Set(ctx, localstate.KeyUserEmail, "me@example.com"))
	f.auth.On("AuthStatus", ctx).Return(nil, errors.New("dial tcp: connection refused")).Once()
	f.projects.On("ListProjects", ctx).Return([]project.Project{}, nil).Once()

	require.NoError(t, f.service.Bootstrap(ctx))
	require.True(t, f.store.Snapshot().Identity.Authenticated())
}
