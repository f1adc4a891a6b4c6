// Regression tests for rest.go.
//
// Main tests are really by running the end-to-end path, driven from
// restclient and from server_test.go.  This only contains special-case
// tests.
//
// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/diffeo/go-resource/memory"
	"github.com/diffeo/go-resource/resource/resourcetest"
	"github.com/diffeo/go-resource/restdata"
	"github.com/stretchr/testify/assert"
)

type failResponseWriter struct {
	Headers    http.Header
	StatusCode int
}

func (rw *failResponseWriter) Header() http.Header {
	if rw.Headers == nil {
		rw.Headers = make(http.Header)
	}
	return rw.Headers
}

func (rw *failResponseWriter) Write([]byte) (int, error) {
	return 0, errors.New("foo")
}

func (rw *failResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
}

// TestDoubleFault checks that, if there is an error serializing a JSON
// response, it doesn't actually panic the process.
func TestDoubleFault(t *testing.T) {
	backend := memory.New()
	err := backend.Put("contact", "1", restdata.Document{
		"id":         int64(1),
		"first_name": "Joe",
	})
	if !assert.NoError(t, err) {
		return
	}

	router := NewRouter(backend, resourcetest.Registry())
	req := &http.Request{
		Method: http.MethodGet,
		URL: &url.URL{
			Path: "/contacts/1",
		},
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
		Close:      true,
		Host:       "localhost",
	}
	resp := &failResponseWriter{}
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestPanic checks that a panicking handler produces an error
// response.
func TestPanic(t *testing.T) {
	h := &resourceHandler{
		Context: func(*http.Request) (*context, error) {
			return &context{}, nil
		},
		Get: func(*context) (interface{}, error) {
			panic("oops")
		},
	}
	req, err := http.NewRequest("GET", "/", nil)
	if !assert.NoError(t, err) {
		return
	}
	resp := &recorder{}
	h.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errResp restdata.ErrorResponse
	if assert.NoError(t, restdata.DecodeBytes(restdata.JSONMediaType, resp.Body, &errResp)) {
		assert.Equal(t, "panic", errResp.Error)
		assert.Equal(t, "oops", errResp.Message)
		assert.NotEmpty(t, errResp.Stack)
	}
}

// recorder is a minimal response writer that keeps the first status
// code and the whole body.
type recorder struct {
	failResponseWriter
	Body []byte
}

func (rw *recorder) Write(b []byte) (int, error) {
	rw.Body = append(rw.Body, b...)
	return len(b), nil
}

func (rw *recorder) WriteHeader(code int) {
	if rw.StatusCode == 0 {
		rw.StatusCode = code
	}
}

func TestNegotiateResponse(t *testing.T) {
	for _, test := range []struct {
		Accept   string
		Expected string
		Err      bool
	}{
		{"", restdata.JSONMediaType, false},
		{"*/*", restdata.JSONMediaType, false},
		{"application/*", restdata.JSONMediaType, false},
		{"text/*", "text/json", false},
		{"application/cbor", restdata.CBORMediaType, false},
		{"application/json;q=0.5, application/cbor", restdata.CBORMediaType, false},
		{"application/cbor;q=0.5, application/json", restdata.JSONMediaType, false},
		{"*/*;q=0.9, " + restdata.VendorJSONMediaType, restdata.VendorJSONMediaType, false},
		{"text/html", "", true},
		{"application/json;q=2", "", true},
	} {
		req := &http.Request{Header: http.Header{}}
		if test.Accept != "" {
			req.Header.Set("Accept", test.Accept)
		}
		actual, err := negotiateResponse(req)
		if test.Err {
			assert.Error(t, err, test.Accept)
		} else if assert.NoError(t, err, test.Accept) {
			assert.Equal(t, test.Expected, actual, test.Accept)
		}
	}
}
