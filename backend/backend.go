// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package backend provides a standard way to construct a resource
// store or transport based on command-line flags.
package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diffeo/go-resource/cache"
	"github.com/diffeo/go-resource/memory"
	"github.com/diffeo/go-resource/postgres"
	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restclient"
	"github.com/diffeo/go-resource/restserver"
	"github.com/diffeo/go-resource/store"
)

// ErrNoStore is returned by Store for a backend that only talks to a
// remote server.
var ErrNoStore = errors.New("backend has no local store")

// Backend describes user-visible parameters to store resource data.
// This implements the flag.Value interface, and so a typical use is
//
//     func main() {
//         backend := backend.Backend{Implementation: "memory"}
//         flag.Var(&backend, "backend", "impl:address of resource storage")
//         flag.Parse()
//         store, err := backend.Store()
//     }
//
// Known implementations are "memory", "postgres", whose address is a
// PostgreSQL connection string, and "http", whose address is the base
// URL of a resource server.
type Backend struct {
	// Implementation holds the name of the implementation; for
	// instance, "memory".
	Implementation string

	// Address holds some backend-specific address, such as a
	// database connect string.
	Address string

	// CacheTTL, if positive, puts a response cache in front of
	// the transport returned by Transport.  It is not part of the
	// flag syntax.
	CacheTTL time.Duration
}

// Store creates a new document store.  This generally should be only
// called once.  If the backend has in-process state, such as a
// database connection pool or an in-memory store, calling this
// multiple times will create multiple copies of that state.  In
// particular, if b.Implementation is "memory", multiple calls to this
// will create multiple independent resource "worlds".
func (b *Backend) Store() (store.Store, error) {
	switch b.Implementation {
	case "memory":
		return memory.New(), nil
	case "postgres":
		return postgres.New(b.Address)
	case "http":
		return nil, ErrNoStore
	default:
		return nil, fmt.Errorf("unknown resource backend %q", b.Implementation)
	}
}

// Transport creates a transport for resource objects.  An "http"
// backend talks to a remote server; any other backend creates its
// store and serves it in-process through registry.
func (b *Backend) Transport(registry *resource.Registry) (resource.Transport, error) {
	var transport resource.Transport
	if b.Implementation == "http" {
		client, err := restclient.New(b.Address)
		if err != nil {
			return nil, err
		}
		transport = client
	} else {
		st, err := b.Store()
		if err != nil {
			return nil, err
		}
		transport = restclient.NewHandlerTransport(restserver.NewRouter(st, registry))
	}
	if b.CacheTTL > 0 {
		transport = cache.New(transport, cache.DefaultSize, b.CacheTTL)
	}
	return transport, nil
}

// String renders a backend description as a string.
func (b *Backend) String() string {
	if b.Address == "" {
		return b.Implementation
	}
	return b.Implementation + ":" + b.Address
}

// Set parses a string into an existing backend description.  The
// string should be of the form "implementation:address", where
// address can be any string.  Set checks to see if the provided
// implementation is any of the known implementations, and returns an
// appropriate error if not.
//
// This is part of the flag.Value interface.  Note that Set does not
// validate the b.Address part of the string or attempt to actually
// make a connection.
func (b *Backend) Set(param string) error {
	parts := strings.SplitN(param, ":", 2)
	if parts[0] == "" {
		return errors.New("must specify a backend type")
	}
	switch parts[0] {
	case "memory", "postgres", "http":
	default:
		return fmt.Errorf("unknown resource backend %q", parts[0])
	}
	b.Implementation = parts[0]
	b.Address = ""
	if len(parts) > 1 {
		b.Address = parts[1]
	}
	return nil
}
