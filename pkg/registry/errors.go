package registry

import "errors"

// ErrNotFound is returned by Get/With when no session is registered under
// the given ID (spec §5, §7 "session-not-found").
var ErrNotFound = errors.New("registry: session not found")

// ErrAlreadyExists is returned by Create when the given ID is already in
// use by a live session.
var ErrAlreadyExists = errors.New("registry: session ID already in use")
