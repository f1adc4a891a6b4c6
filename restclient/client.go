// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides an HTTP transport for resource objects
// that talks to a REST server such as the one in the "restserver"
// package.
//
// The server in github.com/diffeo/go-resource/cmd/resourced can run a
// compatible REST server.  Call New() with the base URL of that
// service, and attach the client to a type or object; for instance,
//
//     c, err := restclient.New("http://localhost:5980/")
//     contact := Contact.New(map[string]interface{}{"id": 1})
//     contact.SetTransport(c)
//     _, err = contact.FindResource(ctx).Wait(ctx)
package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restdata"
	"github.com/sirupsen/logrus"
)

// ErrNotAbsolute is returned from New if the base URL has no scheme or
// host.
var ErrNotAbsolute = errors.New("REST base URL must be absolute")

// Client is a resource.Transport that sends each request to a REST
// server over HTTP.
type Client struct {
	// URL is the base URL of the server.  Resource paths are
	// resolved relative to it.
	URL *url.URL

	// HTTPClient performs the requests.  If nil,
	// http.DefaultClient is used.
	HTTPClient *http.Client

	// Logger receives a debug message for every request.  If nil,
	// the standard logrus logger is used.
	Logger logrus.FieldLogger
}

// New creates a new Client that speaks to an external REST server.
func New(baseURL string) (*Client, error) {
	url, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if url.Scheme == "" || url.Host == "" {
		return nil, ErrNotAbsolute
	}
	if !strings.HasSuffix(url.Path, "/") {
		url.Path += "/"
	}
	return &Client{URL: url}, nil
}

// Request starts an HTTP exchange and returns without waiting for it.
func (c *Client) Request(ctx context.Context, method, path string, body []byte) *resource.Pending {
	pending := resource.NewPending()
	go func() {
		resp, err := c.Do(ctx, method, path, body)
		if err != nil {
			pending.Reject(err)
		} else {
			pending.Resolve(resp)
		}
	}()
	return pending
}

// Root fetches the server's list of resource collections.
func (c *Client) Root(ctx context.Context) (restdata.RootData, error) {
	var root restdata.RootData
	resp, err := c.Do(ctx, "GET", "/", nil)
	if err == nil {
		err = restdata.DecodeBytes(resp.ContentType, resp.Body, &root)
	}
	return root, err
}

// List fetches every resource in the collection of t.  The returned
// objects use c as their transport.
func (c *Client) List(ctx context.Context, t *resource.Type) ([]*resource.Object, error) {
	resp, err := c.Do(ctx, "GET", t.CollectionURL(), nil)
	if err != nil {
		return nil, err
	}
	var body map[string]interface{}
	err = restdata.DecodeBytes(resp.ContentType, resp.Body, &body)
	if err != nil {
		return nil, err
	}
	items, _ := body[t.Plural()].([]interface{})
	result := make([]*resource.Object, 0, len(items))
	for _, item := range items {
		obj := t.New(nil)
		obj.SetTransport(c)
		obj.Deserialize(item)
		result = append(result, obj)
	}
	return result, nil
}
