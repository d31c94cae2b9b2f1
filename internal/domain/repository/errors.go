package repository

import "errors"

// ErrNotFound is returned by all repositories when the requested row does
// not exist or is not owned by the requesting user. Callers distinguish it
// from infrastructure failures with errors.Is.
var ErrNotFound = errors.New("not found")
