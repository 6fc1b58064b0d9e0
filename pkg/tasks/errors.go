package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrAborted         = errors.New("aborted")
	ErrNoProjects      = errors.New("no projects found")
	ErrProjectExists   = errors.New("project already exists")
	ErrProjectNotFound = errors.New("project not found")
	ErrNoVersions      = errors.New("no versions found")

	// ErrExit is returned by the exit menu entry.
	ErrExit = errors.New("exit")
)

// MissingError reports a repository or directory an operation needs but
// that is not there.
type MissingError struct {
	What string
	Path string
}

func (e *MissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s is not configured", e.What)
	}
	return fmt.Sprintf("%s not found at %s", e.What, e.Path)
}
