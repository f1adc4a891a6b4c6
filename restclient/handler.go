// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
)

// handlerRoundTripper serves HTTP requests in process by calling a
// handler directly.
type handlerRoundTripper struct {
	Handler http.Handler
}

func (h handlerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	h.Handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// NewHandlerTransport creates a Client that sends its requests
// directly to handler without going through the network.
func NewHandlerTransport(handler http.Handler) *Client {
	return &Client{
		URL:        &url.URL{Scheme: "http", Host: "resource.invalid", Path: "/"},
		HTTPClient: &http.Client{Transport: handlerRoundTripper{Handler: handler}},
	}
}
