// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes a store of resource documents as a
// REST service.  The restclient package is a matching client, and
// resource.Object performs its remote operations against these URLs.
//
// The wire representation is defined in the restdata package.
//
// HTTP Considerations
//
// Clients should use the standard HTTP Accept: header to request a
// specific format.  See "MIME Types" below.  This interface does not
// support HTTP caching or authentication headers.
//
// Request bodies may use either wire shape, and may mix them within a
// relation.  Response bodies use the connection type of the resource
// type, unless the query parameter "jaxrs" is given a true or false
// value.  Documents are stored in the flat shape.
//
// MIME Types
//
// This interface understands MIME types as follows:
//
//     application/json
//     application/vnd.diffeo.resource+json
//     text/json
//
// JSON representation of resources.
//
//     application/cbor
//
// CBOR representation of the same structure.
//
// URL Scheme
//
// Resources are addressed by the plural of their resource name and
// their identity.  If the identity is not URL-safe printable ASCII,
// it must be base64 encoded using the URL-safe alphabet (RFC 4648
// section 5), with no padding, and adding an additional - at the front
// of the name: /things/-YS9i is the thing with id "a/b".
//
// The following URLs are defined:
//
//     /
//
// GET lists the collections.
//
//     /{collection}
//
// GET lists every resource as {"<collection>": [...]}.  POST creates a
// resource, assigning an identity if it has none, and returns 201
// Created with a Location: header and the created resource.
//
//     /{collection}/{id}
//
// GET returns a resource.  PUT updates the fields present in the body
// and returns 204 No Content.  DELETE removes the resource and returns
// 204 No Content.  All three return 404 Not Found if the resource
// does not exist.
package restserver
