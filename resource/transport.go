// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"context"

	"github.com/diffeo/go-resource/restdata"
)

// Transport performs one remote request.  path is relative to the
// transport's base URL, e.g. "/contacts/1".  body is the encoded
// request body, or nil for requests without one.  Request must not
// block; the returned Pending settles when the exchange completes.
// A non-success status should reject the Pending.
type Transport interface {
	Request(ctx context.Context, method, path string, body []byte) *Pending
}

// TransportFunc adapts an ordinary function to a Transport.
type TransportFunc func(ctx context.Context, method, path string, body []byte) *Pending

// Request calls f.
func (f TransportFunc) Request(ctx context.Context, method, path string, body []byte) *Pending {
	return f(ctx, method, path, body)
}

// request sends one request through o's transport.
func (o *Object) request(ctx context.Context, method, path string, body []byte) *Pending {
	transport := o.Transport()
	if transport == nil {
		return Rejected(ErrNoTransport)
	}
	return transport.Request(ctx, method, path, body)
}

// absorb deserializes a successful response body into o.
func (o *Object) absorb(resp Response) error {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = restdata.JSONMediaType
	}
	return o.DeserializeBytes(contentType, resp.Body)
}

// FindResource fetches o from ResourceURL() and deserializes the
// response into it.  If the request or decoding fails, o is left
// unchanged and the returned Pending fails.
func (o *Object) FindResource(ctx context.Context) *Pending {
	return o.request(ctx, "GET", o.ResourceURL(), nil).Then(o.absorb)
}

// SaveResource creates o (POST to CollectionURL()) if it is new, or
// replaces it (PUT to ResourceURL()) if not.  The request body is the
// JSON encoding of Serialize().  A non-empty response body, such as
// the server-assigned identity, is deserialized into o.
func (o *Object) SaveResource(ctx context.Context) *Pending {
	method, path := "PUT", o.ResourceURL()
	if o.IsNew() {
		method, path = "POST", o.CollectionURL()
	}
	body, err := restdata.EncodeBytes(restdata.JSONMediaType, o.Serialize())
	if err != nil {
		return Rejected(err)
	}
	return o.request(ctx, method, path, body).Then(o.absorb)
}

// DestroyResource deletes o at ResourceURL().  o's local values are not
// cleared.
func (o *Object) DestroyResource(ctx context.Context) *Pending {
	return o.request(ctx, "DELETE", o.ResourceURL(), nil)
}
