// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diffeo/go-resource/memory"
	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/resource/resourcetest"
	"github.com/diffeo/go-resource/restclient"
	"github.com/diffeo/go-resource/restserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTool() (*tool, *bytes.Buffer) {
	registry := resourcetest.Registry()
	out := &bytes.Buffer{}
	return &tool{
		Registry: registry,
		Client:   restclient.NewHandlerTransport(restserver.NewRouter(memory.New(), registry)),
		Out:      out,
	}, out
}

func TestSaveFindList(t *testing.T) {
	ctx := context.Background()
	tl, out := newTool()

	err := tl.Save(ctx, "contact", []byte(`{"first_name":"Joe","last_name":"Blow"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"contact":{"first_name":"Joe","id":1,"last_name":"Blow"}}`+"\n", out.String())

	out.Reset()
	err = tl.Find(ctx, "contacts", "1")
	require.NoError(t, err)
	assert.Equal(t, `{"contact":{"first_name":"Joe","id":1,"last_name":"Blow"}}`+"\n", out.String())

	out.Reset()
	err = tl.Save(ctx, "contact", []byte(`{"contact":{"first_name":"Jane","last_name":"Doe"}}`))
	require.NoError(t, err)

	out.Reset()
	err = tl.List(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t,
		`[{"contact":{"first_name":"Joe","id":1,"last_name":"Blow"}},`+
			`{"contact":{"first_name":"Jane","id":2,"last_name":"Doe"}}]`+"\n",
		out.String())
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	tl, _ := newTool()

	require.NoError(t, tl.Save(ctx, "contact", []byte(`{"first_name":"Joe"}`)))
	require.NoError(t, tl.Destroy(ctx, "contact", "1"))

	err := tl.Find(ctx, "contact", "1")
	var httpErr restclient.ErrorHTTP
	if assert.True(t, errors.As(err, &httpErr)) {
		assert.Equal(t, 404, httpErr.StatusCode())
	}
}

func TestBadArguments(t *testing.T) {
	ctx := context.Background()
	tl, _ := newTool()

	assert.Equal(t, errMissingArgument, tl.Find(ctx, "", "1"))
	assert.Equal(t, errMissingArgument, tl.Find(ctx, "contact", ""))
	assert.Equal(t, errMissingArgument, tl.Destroy(ctx, "contact", ""))
	assert.Equal(t, resource.ErrNoSuchType{Name: "widget"}, tl.List(ctx, "widget"))
	assert.Error(t, tl.Save(ctx, "contact", []byte("not json")))
}

func TestReadBody(t *testing.T) {
	body, err := readBody(`{"a":1}`, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))

	body, err = readBody("", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(body))
}
