package scenario

import "errors"

// ErrUnknownWindow is returned when a step names a window the scenario
// never declared, or one that was already destroyed.
var ErrUnknownWindow = errors.New("unknown window")

// ErrInvalidStep is returned for steps that set no action or more than one.
var ErrInvalidStep = errors.New("invalid step")
