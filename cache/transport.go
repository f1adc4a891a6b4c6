// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package cache provides path-based caching of resource responses.
// The cache wraps some other resource.Transport.  Successful GET
// responses are remembered by path for a fixed time; other requests
// pass through to the underlying transport.
//
// Invalidation
//
// A successful or failed PUT, POST or DELETE through the cache drops
// the cached response for its own path and for the collection
// containing it, so
//
//     contact.SaveResource(ctx)
//     contact.FindResource(ctx)
//
// always sees the saved version.  Changes made through some other
// transport are not seen until the cached response expires.
//
// Caveats
//
// A GET that is in flight while a change is made through the cache
// may still store its (older) response when it completes.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-resource/resource"
)

// DefaultSize is the number of responses New caches.
const DefaultSize = 1024

// entry is one cached response.
type entry struct {
	path     string
	response resource.Response
	expires  time.Time
}

func (e entry) Key() string {
	return e.path
}

// Transport is a caching resource.Transport.
type Transport struct {
	next  resource.Transport
	lru   *lru
	ttl   time.Duration
	clock clock.Clock
}

// New creates a caching transport in front of next that keeps up to
// size responses for ttl each.
func New(next resource.Transport, size int, ttl time.Duration) *Transport {
	return NewWithClock(next, size, ttl, clock.New())
}

// NewWithClock creates a caching transport with an alternate time
// source.  This is mostly useful for testing.
func NewWithClock(next resource.Transport, size int, ttl time.Duration, clk clock.Clock) *Transport {
	if size <= 0 {
		size = DefaultSize
	}
	return &Transport{
		next:  next,
		lru:   newLRU(size),
		ttl:   ttl,
		clock: clk,
	}
}

// Request serves GET requests from the cache when it can, and
// forwards everything else.
func (t *Transport) Request(ctx context.Context, method, path string, body []byte) *resource.Pending {
	if method != "GET" {
		pending := t.next.Request(ctx, method, path, body)
		pending.Always(func(resource.Response, error) {
			t.invalidate(path)
		})
		return pending
	}

	if item, present := t.lru.Get(path); present {
		e := item.(entry)
		if t.clock.Now().Before(e.expires) {
			return resource.Resolved(copyResponse(e.response))
		}
		t.lru.Remove(path)
	}

	pending := t.next.Request(ctx, method, path, body)
	pending.Done(func(resp resource.Response) {
		t.lru.Put(entry{
			path:     path,
			response: copyResponse(resp),
			expires:  t.clock.Now().Add(t.ttl),
		})
	})
	return pending
}

// invalidate drops cached responses for path and its collection.
func (t *Transport) invalidate(path string) {
	t.lru.Remove(path)
	if collection := collectionOf(path); collection != path {
		t.lru.Remove(collection)
	}
}

// collectionOf returns the first segment of a resource path, e.g.
// "/contacts" for "/contacts/1".
func collectionOf(path string) string {
	if i := strings.Index(strings.TrimPrefix(path, "/"), "/"); i >= 0 {
		return path[:i+1]
	}
	return path
}

func copyResponse(resp resource.Response) resource.Response {
	if resp.Body != nil {
		resp.Body = append([]byte(nil), resp.Body...)
	}
	return resp
}
