// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains a REST skeleton framework.
//
// The bulk of this is dealing with HTTP content type negotiation, and
// providing a standard way to deal with input and output values.
// Input bodies are always resource documents; the codec for each
// media type comes from restdata.
//
// Another more generic solution out there is
// https://github.com/jchannon/negotiator.  This only deals with
// output type negotiation, forces all JSON-ish output to report
// itself as "application/json", and doesn't deal well with other HTTP
// status codes.

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/diffeo/go-resource/restdata"
)

// errBadAccept is returned from negotiateResponse() if the Accept:
// header is malformed (and no more specific error applies).
var errBadAccept = errors.New("Invalid Accept: header")

// errNotAcceptable is returned from negotiateResponse() if the Accept:
// header does not mention any media types we can actually return.
type errNotAcceptable struct{}

func (e errNotAcceptable) Error() string {
	return "No acceptable representation for response"
}

func (e errNotAcceptable) HTTPStatus() int {
	return http.StatusNotAcceptable
}

// errMethodNotAllowed is used within the resourceHandler implementation
// to flag an error if a particular HTTP method is not allowed.  This
// corresponds exactly to the 405 Method Not Allowed HTTP status code.
type errMethodNotAllowed struct {
	Method string
}

func (e errMethodNotAllowed) Error() string {
	return fmt.Sprintf("Method %v not allowed", e.Method)
}

func (e errMethodNotAllowed) HTTPStatus() int {
	return http.StatusMethodNotAllowed
}

// responseCreated is returned as a value response from handler
// functions that want to indicate that a new resource was created.
type responseCreated struct {
	// Location holds the canonical URL to the newly created resource.
	Location string

	// Body contains the object sent in the body of the response.
	Body interface{}
}

type resourceHandler struct {
	// Context reads an HTTP request and produces a context object.
	Context func(req *http.Request) (*context, error)

	// Get, if non-nil, returns a representation of the object.
	Get func(*context) (interface{}, error)

	// Put, if non-nil, updates the object from the decoded request
	// body.  The return can be any useful return value.
	Put func(*context, restdata.Document) (interface{}, error)

	// Post, if non-nil, takes some arbitrary action with the
	// decoded request body.  The return can be any useful return
	// value, include responseCreated.
	Post func(*context, restdata.Document) (interface{}, error)

	// Delete, if non-nil, deletes the object.  The return can be
	// any useful return value.
	Delete func(*context) (interface{}, error)
}

func (h *resourceHandler) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	var (
		ctx          *context
		in           restdata.Document
		out          interface{}
		err          error
		status       int
		responseType string
	)

	// Recover from panics by sending an HTTP error.
	defer func() {
		if recovered := recover(); recovered != nil {
			response := restdata.ErrorResponse{}
			response.FromPanic(recovered)
			resp.Header().Set("Content-Type", restdata.JSONMediaType)
			resp.WriteHeader(http.StatusInternalServerError)
			_ = restdata.Encode(restdata.JSONMediaType, resp, response)
		}
	}()

	// Start by trying to come up with a response type, even before
	// trying to parse the input.  This determines what format an
	// error message could be sent back as.
	if err == nil {
		// Errors here by default are in the header setup
		status = http.StatusBadRequest
		responseType, err = negotiateResponse(req)
		if err != nil {
			// Gotta pick something
			responseType = restdata.JSONMediaType
		}
	}

	// Get bits from URL parameters
	if err == nil {
		ctx, err = h.Context(req)
	}

	// Read the body, if it's there
	if err == nil && (req.Method == "PUT" || req.Method == "POST") {
		contentType := req.Header.Get("Content-Type")
		err = restdata.Decode(contentType, req.Body, &in)
		if _, isMediaType := err.(restdata.ErrUnsupportedMediaType); err != nil && !isMediaType {
			err = restdata.ErrBadRequest{Err: err}
		}
	}

	// Actually call the handler method
	if err == nil {
		// We will return this if the method is unexpected or
		// we don't have a handler for it
		err = errMethodNotAllowed{Method: req.Method}
		// If anything else goes wrong here, it's an error in
		// client code
		status = http.StatusInternalServerError
		switch req.Method {
		case "GET", "HEAD":
			if h.Get != nil {
				out, err = h.Get(ctx)
			}
		case "PUT":
			if h.Put != nil {
				out, err = h.Put(ctx, in)
			}
		case "POST":
			if h.Post != nil {
				out, err = h.Post(ctx, in)
			}
		case "DELETE":
			if h.Delete != nil {
				out, err = h.Delete(ctx)
			}
		}
	}

	// Fix up the final result based on what we know.
	if err != nil {
		// Pick a better status code if we know of one
		var errS restdata.ErrorStatus
		if errors.As(err, &errS) {
			status = errS.HTTPStatus()
		}
		resp := restdata.ErrorResponse{Error: "error", Message: err.Error()}
		resp.FromError(err)
		out = resp
	} else if out == nil {
		status = http.StatusNoContent
	} else if created, isCreated := out.(responseCreated); isCreated {
		status = http.StatusCreated
		if created.Location != "" {
			resp.Header().Set("Location", created.Location)
		}
		if req.Method == "HEAD" {
			out = nil
		} else {
			out = created.Body
		}
	} else {
		status = http.StatusOK
		if req.Method == "HEAD" {
			out = nil
		}
	}

	// Come up with the codec for the response.  It is possible for
	// the actual writer to fail, but by the point this happens
	// we've already written an HTTP status line, so there is
	// nothing better to do than drop the error.
	codecType := restdata.CanonicalMediaType(responseType)
	if codecType == "" {
		// We shouldn't get here, because it implies response
		// type negotiation failed...but here we are
		status = http.StatusInternalServerError
		out = restdata.ErrorResponse{Error: "error", Message: "Invalid response type " + responseType}
		codecType = restdata.JSONMediaType
		responseType = restdata.JSONMediaType
	}

	// Actually send the response
	if out != nil {
		resp.Header().Set("Content-Type", responseType)
	}
	resp.WriteHeader(status)
	if out != nil {
		_ = restdata.Encode(codecType, resp, out)
	}
}

// negotiateResponse returns a supported MIME type for the response
// body, following the path laid out in RFC 7231 section 5.3.
func negotiateResponse(req *http.Request) (string, error) {
	accept := req.Header.Get("Accept")
	if accept == "" {
		accept = "*/*"
	}
	bestType := ""
	bestQ := 0.0
	mediaRanges := strings.Split(accept, ",")
	for _, mediaRange := range mediaRanges {
		mediaRange = strings.TrimSpace(mediaRange)
		mediaType, params, err := mime.ParseMediaType(mediaRange)
		if err != nil {
			return "", err
		}

		// What is the "q" ("quality") parameter for this type?
		// If it is less than the best known so far, skip it
		q := 1.0
		if qStr, haveQ := params["q"]; haveQ {
			q, err = strconv.ParseFloat(qStr, 64)
			if err != nil {
				return "", err
			}
			if q < 0.0 || q > 1.0 {
				return "", errBadAccept
			}
		}
		if q < bestQ {
			continue
		}

		// This is acceptable if it's listed in the type
		// map; or it's one of a couple of specific wildcards.
		// Also need to handle wildcard precedence.  So:
		if mediaType == "*/*" {
			// Doesn't override anything.
			if q > bestQ {
				bestType = mediaType
				bestQ = q
			}
		} else if mediaType == "text/*" || mediaType == "application/*" {
			// Only overrides "*/*".
			if q > bestQ || bestType == "*/*" {
				bestType = mediaType
				bestQ = q
			}
		} else if restdata.CanonicalMediaType(mediaType) != "" {
			// Overrides any wildcard.  We want the first one
			// at a given q to win.
			if q > bestQ || bestType == "*/*" || bestType == "text/*" || bestType == "application/*" {
				bestType = mediaType
				bestQ = q
			}
		}
		// Otherwise we don't recognize this type at all, so
		// just drop it.
		//
		// The RFC endorses honoring type parameters as being
		// "more specific" but we don't really deal with that.
	}
	// If this failed to win, return an error
	if bestQ == 0.0 {
		return "", errNotAcceptable{}
	}
	switch bestType {
	case "*/*":
		return restdata.JSONMediaType, nil
	case "application/*":
		return restdata.JSONMediaType, nil
	case "text/*":
		return "text/json", nil
	default:
		return bestType, nil
	}
}
