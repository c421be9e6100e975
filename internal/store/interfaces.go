package store

import (
	"context"
	"io"

	"github.com/finvoy/spendsheet/internal/api"
	"github.com/finvoy/spendsheet/internal/domain/project"
	"github.com/finvoy/spendsheet/internal/domain/record"
	"github.com/finvoy/spendsheet/internal/domain/session"
)

// CollectionAPI is the remote CRUD surface for one record collection.
type CollectionAPI interface {
	List(ctx context.Context) ([]record.Record, error)
	Create(ctx context.Context, fields record.Fields) error
	Update(ctx context.Context, row int, fields record.Fields) error
	Delete(ctx context.Context, row int) error
	UploadAttachment(ctx context.Context, row int, fileName string, file io.Reader) (*api.Attachment, error)
	GetAttachment(ctx context.Context, row int) (*api.AttachmentInfo, error)
}

// ProjectAPI is the remote project surface.
type ProjectAPI interface {
	ListProjects(ctx context.Context) ([]project.Project, error)
	ListTemplates(ctx context.Context) ([]project.Template, error)
	CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	SetDefaultProject(ctx context.Context, id int64) (*project.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// AuthAPI is the remote auth surface.
type AuthAPI interface {
	AuthStatus(ctx context.Context) (*session.Status, error)
	Logout(ctx context.Context) error
}
