// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"
	"sort"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restdata"
	"github.com/diffeo/go-resource/store"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that serves every resource type
// in registry from s.  All resources are under the URL path root,
// e.g. /contacts/1.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(s store.Store, registry *resource.Registry) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, s, registry)
	return r
}

// PopulateRouter adds resource routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the resources under a subpath:
//
//     import "github.com/diffeo/go-resource/memory"
//     import "github.com/gorilla/mux"
//     r := mux.NewRouter()
//     sub := r.PathPrefix("/api").Subrouter()
//     PopulateRouter(sub, memory.New(), registry)
func PopulateRouter(r *mux.Router, s store.Store, registry *resource.Registry) {
	api := &restAPI{Store: s, Registry: registry, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the resource REST API.
type restAPI struct {
	Store    store.Store
	Registry *resource.Registry
	Router   *mux.Router
}

// PopulateRouter adds all resource URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	r.Path("/").Name("root").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.RootDocument,
	})
	r.Path("/{collection}").Name("collection").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.ListResources,
		Post:    api.CreateResource,
	})
	r.Path("/{collection}/{id}").Name("resource").Handler(&resourceHandler{
		Context: api.Context,
		Get:     api.GetResource,
		Put:     api.UpdateResource,
		Delete:  api.DeleteResource,
	})
}

// RootDocument lists the known resource collections, sorted by name.
func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	types := api.Registry.Types()
	sort.Slice(types, func(i, j int) bool {
		return types[i].Name < types[j].Name
	})
	resp := restdata.RootData{
		Collections: make([]restdata.CollectionLink, len(types)),
	}
	for i, t := range types {
		link := &resp.Collections[i]
		link.Name = t.Name
		err := buildURLs(api.Router, "collection", t.Plural()).
			URL(&link.URL, "collection").
			Template(&link.ResourceURL, "resource", "id").
			Error
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}
