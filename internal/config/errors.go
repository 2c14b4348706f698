package config

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the store. Callers match with errors.Is.
var (
	ErrInvalidName         = errors.New("invalid name")
	ErrDuplicateName       = errors.New("name already in use")
	ErrNotFound            = errors.New("not found")
	ErrDanglingReference   = errors.New("dangling reference")
	ErrNoDefaultSet        = errors.New("no default configuration set")
	ErrProviderUnreachable = errors.New("provider unreachable")
	ErrNoModelsFound       = errors.New("no models found")
	ErrPersistence         = errors.New("failed to persist configuration")
)

var (
	errInvalidName = func(name string) error {
		return fmt.Errorf("%w: %q normalizes to an empty slug", ErrInvalidName, name)
	}

	errDuplicateName = func(kind, name string) error {
		return fmt.Errorf("%w: %s %q", ErrDuplicateName, kind, name)
	}

	errNotFound = func(kind, name string) error {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}

	errPersist = func(op string, err error) error {
		return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
	}
)
