// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diffeo/go-resource/resource"
	"github.com/stretchr/testify/assert"
)

// recorder collects callback names in the order they ran.
type recorder struct {
	lock  sync.Mutex
	calls []string
}

func (r *recorder) record(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recorder) Done(name string) func(resource.Response) {
	return func(resource.Response) { r.record(name) }
}

func (r *recorder) Fail(name string) func(error) {
	return func(error) { r.record(name) }
}

func (r *recorder) Always(name string) func(resource.Response, error) {
	return func(resource.Response, error) { r.record(name) }
}

func TestPendingResolveOrder(t *testing.T) {
	var r recorder
	p := resource.NewPending()
	p.Done(r.Done("a")).Fail(r.Fail("x")).Always(r.Always("b")).Done(r.Done("c"))
	assert.Empty(t, r.calls)
	assert.False(t, p.Settled())

	p.Resolve(resource.Response{StatusCode: 200})
	assert.True(t, p.Settled())
	assert.Equal(t, []string{"a", "b", "c"}, r.calls)

	p.Done(r.Done("d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.calls)
}

func TestPendingRejectOrder(t *testing.T) {
	var r recorder
	p := resource.NewPending()
	p.Fail(r.Fail("a")).Done(r.Done("x")).Fail(r.Fail("b"))
	p.Reject(assert.AnError)
	p.Always(r.Always("c"))
	assert.Equal(t, []string{"a", "b", "c"}, r.calls)
}

func TestPendingRegisterDuringCallback(t *testing.T) {
	var r recorder
	p := resource.NewPending()
	p.Done(func(resource.Response) {
		r.record("a")
		p.Done(r.Done("c"))
	})
	p.Done(r.Done("b"))
	p.Resolve(resource.Response{})
	assert.Equal(t, []string{"a", "b", "c"}, r.calls)
}

func TestPendingSettlesOnce(t *testing.T) {
	p := resource.NewPending()
	p.Resolve(resource.Response{StatusCode: 201})
	p.Reject(assert.AnError)
	p.Resolve(resource.Response{StatusCode: 500})

	resp, err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestPendingRejectNil(t *testing.T) {
	_, err := resource.Rejected(nil).Wait(context.Background())
	assert.Error(t, err)
}

func TestPendingThen(t *testing.T) {
	ctx := context.Background()

	resp, err := resource.Resolved(resource.Response{StatusCode: 200}).
		Then(func(resource.Response) error { return nil }).
		Wait(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	_, err = resource.Resolved(resource.Response{}).
		Then(func(resource.Response) error { return assert.AnError }).
		Wait(ctx)
	assert.Equal(t, assert.AnError, err)

	called := false
	_, err = resource.Rejected(assert.AnError).
		Then(func(resource.Response) error {
			called = true
			return nil
		}).
		Wait(ctx)
	assert.Equal(t, assert.AnError, err)
	assert.False(t, called)
}

func TestPendingWaitAcrossGoroutines(t *testing.T) {
	var r recorder
	p := resource.NewPending()
	p.Always(r.Always("a"))
	go func() {
		time.Sleep(time.Millisecond)
		p.Resolve(resource.Response{StatusCode: 204})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := p.Wait(ctx)
	if assert.NoError(t, err) {
		assert.Equal(t, 204, resp.StatusCode)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	assert.Equal(t, []string{"a"}, r.calls)
}

func TestPendingWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := resource.NewPending().Wait(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPendingCallbackPanic(t *testing.T) {
	var r recorder
	p := resource.NewPending()
	p.Done(func(resource.Response) { panic("callback failed") }).Done(r.Done("a"))
	assert.Panics(t, func() { p.Resolve(resource.Response{StatusCode: 200}) })
	assert.True(t, p.Settled())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	resp, err := p.Wait(ctx)
	if assert.NoError(t, err) {
		assert.Equal(t, 200, resp.StatusCode)
	}

	p.Done(r.Done("b"))
	assert.Equal(t, []string{"a", "b"}, r.calls)
}

func TestPendingLateCallbackPanic(t *testing.T) {
	var r recorder
	p := resource.Resolved(resource.Response{})
	assert.Panics(t, func() {
		p.Always(func(resource.Response, error) { panic("callback failed") })
	})
	p.Always(r.Always("a"))
	assert.Equal(t, []string{"a"}, r.calls)
}

func TestPendingWaitInsideCallback(t *testing.T) {
	p := resource.NewPending()
	var inner error
	p.Done(func(resource.Response) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, inner = p.Wait(ctx)
	})
	p.Resolve(resource.Response{StatusCode: 200})
	assert.Equal(t, context.DeadlineExceeded, inner)

	_, err := p.Wait(context.Background())
	assert.NoError(t, err)
}
