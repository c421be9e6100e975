package session

import "errors"

var (
	// ErrNotAuthenticated indicates no session token is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoProject indicates no project is selected for a project-scoped call.
	ErrNoProject = errors.New("no project selected")
)
