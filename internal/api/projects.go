package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/finvoy/spendsheet/internal/domain/project"
)

type projectResponse struct {
	Message string          `json:"message"`
	Project project.Project `json:"project"`
}

// ListProjects fetches the user's projects.
func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var projects []project.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListTemplates fetches the available starting-sheet templates.
func (c *Client) ListTemplates(ctx context.Context) ([]project.Template, error) {
	var templates []project.Template
	if err := c.do(ctx, http.MethodGet, "/projects/templates", nil, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateProject creates a project. The request is validated client-side
// first; a malformed linked-sheet URL never reaches the network.
func (c *Client) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	if err := project.ValidateCreate(req); err != nil {
		return nil, err
	}
	var resp projectResponse
	if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

// SetDefaultProject flags a project as the default.
func (c *Client) SetDefaultProject(ctx context.Context, id int64) (*project.Project, error) {
	var resp projectResponse
	path := fmt.Sprintf("/projects/%d/default", id)
	if err := c.do(ctx, http.MethodPut, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Project, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), nil, nil, nil)
}
