package weego

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrRegistration indicates WeeChat refused a registration.
	ErrRegistration = errors.New("weego: registration refused by host")

	// ErrInvalidArgument indicates a required field was empty.
	ErrInvalidArgument = errors.New("weego: invalid argument")

	// ErrAlreadyLoaded indicates Load was called while a plugin is loaded.
	ErrAlreadyLoaded = errors.New("weego: plugin already loaded")

	// ErrNotLoaded indicates Unload was called without a loaded plugin.
	ErrNotLoaded = errors.New("weego: plugin not loaded")

	// ErrNoInit indicates Load was called before Register.
	ErrNoInit = errors.New("weego: no init function registered")

	// ErrClosed indicates the resource has been closed.
	ErrClosed = errors.New("weego: resource is closed")
)

// HostError is returned when a WeeChat registration call returns NULL.
// It unwraps to ErrRegistration.
type HostError struct {
	Op   string // host entry point, e.g. "hook_command"
	Name string // name of the object being registered, if any
}

func (e *HostError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("weego: %s failed", e.Op)
	}
	return fmt.Sprintf("weego: %s %q failed", e.Op, e.Name)
}

func (e *HostError) Unwrap() error {
	return ErrRegistration
}

func missing(field string) error {
	return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, field)
}
