// Copyright 2015-2016 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restdata defines the wire representation shared between the
// resource, restclient, and restserver packages.
//
// Wire Shapes
//
// A resource is serialized in one of two shapes.  The default
// "envelope" shape wraps every object under a key equal to its
// singular resource name, including objects nested inside relations:
//
//     {
//         "group": {
//             "id": 1,
//             "group_name": "Test",
//             "contacts": [
//                 {"contact": {"id": 1, "first_name": "Joe"}},
//                 {"contact": {"id": 2, "first_name": "Some"}}
//             ]
//         }
//     }
//
// The "JAX-RS" shape, named after the Java REST convention, drops the
// wrapper at every level:
//
//     {
//         "id": 1,
//         "group_name": "Test",
//         "contacts": [
//             {"id": 1, "first_name": "Joe"},
//             {"id": 2, "first_name": "Some"}
//         ]
//     }
//
// Readers accept either shape, and may see both mixed in a single
// relation list.
//
// URL Considerations
//
// Resources live at /<plural> (the collection) and /<plural>/<id>.
// The plural is the resource name with "s" appended.  An identifier
// that cannot be inserted into a URL path as-is is encoded by base64
// encoding its bytes with the URL-safe alphabet and no padding, and
// prepending a hyphen; see MaybeEncodeName.  Identifiers that would
// otherwise be safe but begin with a hyphen are also encoded.
//
// Media Types
//
// JSON is the default representation, sent as application/json.  The
// types text/json and application/vnd.diffeo.resource+json are
// accepted as synonyms.  application/cbor carries the same structure
// encoded as CBOR.
//
// Errors
//
// Servers should return failures as an encoding of ErrorResponse with
// a failing HTTP status.  If Go server code panics, this is captured
// and returned as an ErrorResponse with error code "panic".
package restdata

// JSONMediaType is the preferred MIME type for the JSON representation
// of resources.
const JSONMediaType = "application/json"

// VendorJSONMediaType is a more specific synonym for JSONMediaType.
const VendorJSONMediaType = "application/vnd.diffeo.resource+json"

// CBORMediaType is the MIME type for the CBOR representation of
// resources.
const CBORMediaType = "application/cbor"

// Document is a single decoded resource body, in either wire shape.
type Document map[string]interface{}

// CollectionLink names one resource collection on a server.
type CollectionLink struct {
	// Name is the singular resource name, e.g. "contact".
	Name string `json:"name"`

	// URL points at the collection, e.g. "/contacts".  This endpoint
	// supports HTTP GET to list resources and HTTP POST to create
	// one.
	URL string `json:"url"`

	// ResourceURL is a URI template for a single resource in the
	// collection, e.g. "/contacts/{id}".  The id must be encoded
	// with MaybeEncodeName.
	ResourceURL string `json:"resource_url"`
}

// RootData is returned by the root path of a resource server.
type RootData struct {
	// Collections lists every resource collection the server
	// knows about, sorted by name.
	Collections []CollectionLink `json:"collections"`
}

// ErrorResponse is returned from failing requests.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a well-known error, the string "panic", or the
	// string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an extra parameter to the error if applicable.
	Value string `json:"value,omitempty"`

	// Stack holds a formatted backtrace, if the method failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}
