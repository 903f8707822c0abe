package workspace

import "errors"

var (
	// ErrProjectNotFound indicates an unknown project id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrNoCurrentProject indicates that no project is selected.
	ErrNoCurrentProject = errors.New("no current project")

	errUnchanged = errors.New("unchanged")
)
