// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diffeo/go-resource/memory"
	"github.com/diffeo/go-resource/resource/resourcetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	server := httptest.NewServer(NewHandler(memory.New(), resourcetest.Registry(), nil))
	defer server.Close()

	resp, err := http.Post(server.URL+"/contacts", "application/json",
		strings.NewReader(`{"contact":{"first_name":"Joe","last_name":"Blow"}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/contacts/1", resp.Header.Get("Location"))

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body),
		`diffeo_resource_requests_total{code="201",method="POST",resource="contact"}`)
}

func TestResourceLabel(t *testing.T) {
	rc := &requestCounter{Registry: resourcetest.Registry()}
	assert.Equal(t, "root", rc.resourceLabel("/"))
	assert.Equal(t, "contact", rc.resourceLabel("/contacts"))
	assert.Equal(t, "group", rc.resourceLabel("/groups/3"))
	assert.Equal(t, "other", rc.resourceLabel("/widgets/3"))
}
