// Package mocks provides testify mocks for the remote API surfaces the
// store orchestrates.
package mocks

import (
	"context"
	"io"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
	"github.com/stretchr/testify/mock"
)

// CollectionAPI is a mock for store.CollectionAPI.
type CollectionAPI struct {
	mock.Mock
}

func (m *CollectionAPI) List(ctx context.Context) ([]record.Record, error) {
	args := m.Called(ctx)
	if records, ok := args.Get(0).([]record.Record); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollectionAPI) Create(ctx context.Context, fields record.Fields) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *CollectionAPI) Update(ctx context.Context, row int, fields record.Fields) error {
	args := m.Called(ctx, row, fields)
	return args.Error(0)
}

func (m *CollectionAPI) Delete(ctx context.Context, row int) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *CollectionAPI) UploadAttachment(ctx context.Context, row int, fileName string, file io.Reader) (*api.Attachment, error) {
	args := m.Called(ctx, row, fileName, file)
	if att, ok := args.Get(0).(*api.Attachment); ok {
		return att, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CollectionAPI) GetAttachment(ctx context.Context, row int) (*api.AttachmentInfo, error) {
	args := m.Called(ctx, row)
	if info, ok := args.Get(0).(*api.AttachmentInfo); ok {
		return info, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectAPI is a mock for store.ProjectAPI.
type ProjectAPI struct {
	mock.Mock
}

func (m *ProjectAPI) ListProjects(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if projects, ok := args.Get(0).([]project.Project); ok {
		return projects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectAPI) ListTemplates(ctx context.Context) ([]project.Template, error) {
	args := m.Called(ctx)
	if templates, ok := args.Get(0).([]project.Template); ok {
		return templates, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectAPI) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	args := m.Called(ctx, req)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectAPI) SetDefaultProject(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectAPI) DeleteProject(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AuthAPI is a mock for store.AuthAPI.
type AuthAPI struct {
	mock.Mock
}

func (m *AuthAPI) AuthStatus(ctx context.Context) (*session.Status, error) {
	args := m.Called(ctx)
	if status, ok := args.Get(0).(*session.Status); ok {
		return status, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
