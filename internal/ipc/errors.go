package ipc

import "errors"

// ErrUnknownWindow is returned when a command names a node the compositor
// does not manage.
var ErrUnknownWindow = errors.New("unknown window")

// ErrBadRequest is returned when the server rejects a malformed payload.
var ErrBadRequest = errors.New("bad request")
