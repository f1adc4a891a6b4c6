// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restclient

// This file provides generic REST client code.

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restdata"
	"github.com/sirupsen/logrus"
)

// resolve finds the absolute URL for a resource path relative to the
// base URL.
func (c *Client) resolve(path string) (*url.URL, error) {
	return c.URL.Parse(strings.TrimPrefix(path, "/"))
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// Do performs one HTTP exchange synchronously.  If body is non-nil it
// is sent as JSON.  Non-success status codes produce an ErrorHTTP.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (result resource.Response, err error) {
	url, err := c.resolve(path)
	if err != nil {
		return result, err
	}

	// Create the request and set headers
	req, err := http.NewRequestWithContext(ctx, method, url.String(), bytes.NewReader(body))
	if err != nil {
		return result, err
	}
	if body != nil {
		req.Header.Set("Content-Type", restdata.JSONMediaType)
	}
	req.Header.Set("Accept", restdata.JSONMediaType)

	// Actually do the request
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger().WithFields(logrus.Fields{
			"method": method,
			"url":    url.String(),
			"err":    err,
		}).Debug("resource request failed")
		return result, err
	}

	// If the response included a body, clean up afterwards
	if resp.Body != nil {
		defer func() {
			err = firstError(err, resp.Body.Close())
		}()
	}

	c.logger().WithFields(logrus.Fields{
		"method": method,
		"url":    url.String(),
		"status": resp.StatusCode,
	}).Debug("resource request")

	// Check the response code
	if err = checkHTTPStatus(resp); err != nil {
		return result, err
	}

	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")
	if resp.Body != nil {
		result.Body, err = ioutil.ReadAll(resp.Body)
	}
	return result, err
}

// ErrorHTTP is a catch-all error for non-successes returned from the
// REST endpoint.
type ErrorHTTP struct {
	// Response holds a pointer to the failing HTTP response.
	Response *http.Response

	// Body holds the contents of the message body, presumed to
	// be text.
	Body string

	// Err holds the server-provided error, if the body was an
	// encoded restdata.ErrorResponse.
	Err error
}

func (e ErrorHTTP) Error() string {
	if e.Err != nil {
		return e.Response.Status + ": " + e.Err.Error()
	}
	return e.Response.Status
}

// Unwrap returns the server-provided error, if any.
func (e ErrorHTTP) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code of the failing response.
func (e ErrorHTTP) StatusCode() int {
	return e.Response.StatusCode
}

// checkHTTPStatus examines an HTTP response and returns an error if
// it is not successful.
func checkHTTPStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Always collect the entire body; we will need it as a fallback
	// and can only parse it once.
	var body []byte
	var err error
	if resp.Body != nil {
		body, err = ioutil.ReadAll(resp.Body)
		if err != nil {
			return err
		}
	}
	result := ErrorHTTP{Response: resp, Body: string(body)}

	// Take a shot at decoding it as a better error
	var errResp restdata.ErrorResponse
	contentType := resp.Header.Get("Content-Type")
	err = restdata.DecodeBytes(contentType, body, &errResp)
	if err == nil && errResp.Error != "" {
		result.Err = errResp.ToError()
	}
	return result
}

func firstError(e1, e2 error) error {
	if e1 != nil {
		return e1
	}
	return e2
}
