// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package store defines the storage contract behind a resource
// server.  A store holds flat documents, keyed by resource name and
// by the formatted identity of each resource.
package store

import (
	"fmt"

	"github.com/diffeo/go-resource/restdata"
)

// Store holds documents for any number of resource types.
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns every document of a resource type, in the
	// order they were first stored.
	List(resource string) ([]restdata.Document, error)

	// Get returns a single document.  If there is no document
	// with this id, returns ErrNoSuchResource.
	Get(resource, id string) (restdata.Document, error)

	// Put creates or replaces a document.
	Put(resource, id string, doc restdata.Document) error

	// Delete removes a document.  If there is no document with
	// this id, returns ErrNoSuchResource.
	Delete(resource, id string) error

	// NextID returns a new integer identity for a resource type.
	// Successive calls return increasing values starting from 1.
	NextID(resource string) (int64, error)
}

// ErrNoSuchResource is returned when a requested document does not
// exist.
type ErrNoSuchResource struct {
	Name string
	ID   string
}

func (err ErrNoSuchResource) Error() string {
	return fmt.Sprintf("No such %v %q", err.Name, err.ID)
}
