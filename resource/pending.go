// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"context"
	"errors"
	"sync"
)

// errNilRejection stands in for a nil error passed to Reject.
var errNilRejection = errors.New("Pending rejected without an error")

// Response is the result of a successful remote request.
type Response struct {
	// StatusCode is the HTTP status code, if the transport has one.
	StatusCode int

	// ContentType is the media type of Body.  If empty, Body is
	// taken to be JSON.
	ContentType string

	// Body is the raw response body, possibly empty.
	Body []byte
}

// Pending is a handle on an asynchronous operation that will either
// succeed with a Response or fail with an error.  It settles exactly
// once; later Resolve and Reject calls are ignored.
//
// Callbacks run in the order they were registered.  Callbacks
// registered before settlement run on the goroutine that settles the
// Pending; callbacks registered afterwards run as soon as earlier
// callbacks have finished.
type Pending struct {
	lock      sync.Mutex
	settled   bool
	running   bool
	response  Response
	err       error
	callbacks []func(Response, error)
	finished  chan struct{}
}

// NewPending creates an unsettled Pending.
func NewPending() *Pending {
	return &Pending{finished: make(chan struct{})}
}

// Resolved creates a Pending that has already succeeded.
func Resolved(resp Response) *Pending {
	p := NewPending()
	p.Resolve(resp)
	return p
}

// Rejected creates a Pending that has already failed.
func Rejected(err error) *Pending {
	p := NewPending()
	p.Reject(err)
	return p
}

// Resolve settles p successfully.
func (p *Pending) Resolve(resp Response) {
	p.settle(resp, nil)
}

// Reject settles p with a failure.
func (p *Pending) Reject(err error) {
	if err == nil {
		err = errNilRejection
	}
	p.settle(Response{}, err)
}

func (p *Pending) settle(resp Response, err error) {
	p.lock.Lock()
	if p.settled {
		p.lock.Unlock()
		return
	}
	p.settled = true
	p.response = resp
	p.err = err
	p.running = true
	p.lock.Unlock()

	defer close(p.finished)
	p.drain()
}

// drain runs queued callbacks until none are left.  Exactly one
// goroutine drains at a time, which keeps callbacks in order.  If a
// callback panics, the panic propagates to the caller, and callbacks
// still queued run when the next callback is registered.
func (p *Pending) drain() {
	emptied := false
	defer func() {
		if !emptied {
			p.lock.Lock()
			p.running = false
			p.lock.Unlock()
		}
	}()
	for {
		p.lock.Lock()
		if len(p.callbacks) == 0 {
			p.running = false
			emptied = true
			p.lock.Unlock()
			return
		}
		callback := p.callbacks[0]
		p.callbacks = p.callbacks[1:]
		resp, err := p.response, p.err
		p.lock.Unlock()

		callback(resp, err)
	}
}

// Always registers a callback to run when p settles either way.
func (p *Pending) Always(f func(Response, error)) *Pending {
	p.lock.Lock()
	p.callbacks = append(p.callbacks, f)
	start := p.settled && !p.running
	if start {
		p.running = true
	}
	p.lock.Unlock()

	if start {
		p.drain()
	}
	return p
}

// Done registers a callback to run if p succeeds.
func (p *Pending) Done(f func(Response)) *Pending {
	return p.Always(func(resp Response, err error) {
		if err == nil {
			f(resp)
		}
	})
}

// Fail registers a callback to run if p fails.
func (p *Pending) Fail(f func(error)) *Pending {
	return p.Always(func(_ Response, err error) {
		if err != nil {
			f(err)
		}
	})
}

// Then returns a new Pending that settles after p.  If p succeeds, f
// runs with its response, and the new Pending succeeds with the same
// response unless f returns an error.  If p fails, f does not run and
// the new Pending fails with the same error.
func (p *Pending) Then(f func(Response) error) *Pending {
	next := NewPending()
	p.Always(func(resp Response, err error) {
		if err == nil && f != nil {
			err = f(resp)
		}
		if err != nil {
			next.Reject(err)
		} else {
			next.Resolve(resp)
		}
	})
	return next
}

// Wait blocks until p has settled and its initial callbacks have run,
// or until ctx is done.  A callback of p must not Wait on p itself,
// since that callback is one of the ones Wait waits for; it already
// has the result as its argument.
func (p *Pending) Wait(ctx context.Context) (Response, error) {
	select {
	case <-p.finished:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.response, p.err
}

// Settled reports whether p has succeeded or failed.
func (p *Pending) Settled() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.settled
}
