// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"errors"
	"fmt"
)

// ErrNoTransport is returned through a rejected Pending from remote
// operations on an Object that has no Transport.
var ErrNoTransport = errors.New("Resource has no transport")

// ErrNoName is returned when registering or configuring a Type with an
// empty resource name.
var ErrNoName = errors.New("Resource type has no name")

// ErrUnknownKind is returned when a configured field kind is not one of
// the known kinds.
type ErrUnknownKind struct {
	Name string
}

func (err ErrUnknownKind) Error() string {
	return fmt.Sprintf("Unknown field kind %q", err.Name)
}

// ErrUnknownConnectionType is returned when a configured connection
// type is neither the default nor "JAX-RS".
type ErrUnknownConnectionType struct {
	Name string
}

func (err ErrUnknownConnectionType) Error() string {
	return fmt.Sprintf("Unknown connection type %q", err.Name)
}

// ErrDuplicateType is returned by a Registry when two types share a
// resource name.
type ErrDuplicateType struct {
	Name string
}

func (err ErrDuplicateType) Error() string {
	return fmt.Sprintf("Duplicate resource type %v", err.Name)
}

// ErrNoSuchType is returned when a configured relation names a
// resource type that does not exist.
type ErrNoSuchType struct {
	Name string
}

func (err ErrNoSuchType) Error() string {
	return fmt.Sprintf("No such resource type %v", err.Name)
}
