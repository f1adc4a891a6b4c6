// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restdata"
	"github.com/gorilla/mux"
)

// errNoSuchCollection is returned when a URL names a collection that
// is not in the registry.
type errNoSuchCollection struct {
	Name string
}

func (e errNoSuchCollection) Error() string {
	return fmt.Sprintf("No such collection %q", e.Name)
}

// context holds all of the information and objects that can be extracted
// from URL parameters.
type context struct {
	// Type is the resource type named by the collection path
	// segment.
	Type *resource.Type

	// ID is the storage key of the resource named by the id path
	// segment, if any.
	ID string

	// HasID is true if the URL included an id segment.
	HasID bool

	QueryParams url.Values
}

func (api *restAPI) Context(req *http.Request) (ctx *context, err error) {
	ctx = &context{}
	ctx.QueryParams = req.URL.Query()
	vars := mux.Vars(req)

	var present bool
	var collection, id string

	if collection, present = vars["collection"]; present && err == nil {
		var known bool
		ctx.Type, known = api.Registry.LookupPlural(collection)
		if !known {
			err = restdata.ErrNotFound{Err: errNoSuchCollection{Name: collection}}
		}
	}

	if id, present = vars["id"]; present && err == nil && ctx.Type != nil {
		id, err = restdata.MaybeDecodeName(id)
		if err != nil {
			err = restdata.ErrBadRequest{Err: err}
		} else {
			ctx.ID = storageKey(ctx.Type, id)
			ctx.HasID = true
		}
	}

	return
}

// storageKey converts an identity value to the key it is stored
// under, so that "01" and 1 name the same integer resource.
func storageKey(t *resource.Type, id interface{}) string {
	return resource.FormatID(t.IDKind.Coerce(id))
}

// BoolParam looks at ctx.QueryParams for a parameter named name.  If
// it has a normally-truthy value (1, on, false, no, ...) then return
// that value.  Otherwise (empty string, foo, ...) return def.
func (ctx *context) BoolParam(name string, def bool) bool {
	switch strings.ToLower(ctx.QueryParams.Get(name)) {
	case "0", "f", "n", "false", "off", "no":
		return false
	case "1", "t", "y", "true", "on", "yes":
		return true
	default:
		return def
	}
}
