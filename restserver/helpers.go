// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

// This file contains helpers to build URLs from named mux routes.

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/diffeo/go-resource/restdata"
	"github.com/gorilla/mux"
)

// urlBuilder fills in route URLs one after another, stopping at the
// first error.
type urlBuilder struct {
	Router *mux.Router
	Params []string
	Error  error
}

// buildURLs starts building URLs for router.  params are alternating
// route variable names and values; the values are encoded with
// restdata.MaybeEncodeName.
func buildURLs(router *mux.Router, params ...string) *urlBuilder {
	encoded := make([]string, len(params))
	for i, value := range params {
		if i%2 == 1 {
			value = restdata.MaybeEncodeName(value)
		}
		encoded[i] = value
	}
	return &urlBuilder{Router: router, Params: encoded}
}

func (u *urlBuilder) route(name string) *mux.Route {
	if u.Error != nil {
		return nil
	}
	r := u.Router.Get(name)
	if r == nil {
		u.Error = fmt.Errorf("No such route %q", name)
	}
	return r
}

func (u *urlBuilder) build(name string, params []string) *url.URL {
	r := u.route(name)
	if u.Error != nil {
		return nil
	}
	var url *url.URL
	url, u.Error = r.URL(params...)
	return url
}

// URL stores the URL of a named route in out.
func (u *urlBuilder) URL(out *string, name string) *urlBuilder {
	if url := u.build(name, u.Params); url != nil {
		*out = url.String()
	}
	return u
}

// Template stores a URI template in out: the URL of a named route with
// the variable param left unexpanded.
func (u *urlBuilder) Template(out *string, name, param string) *urlBuilder {
	params := append([]string{param, "---"}, u.Params...)
	if url := u.build(name, params); url != nil {
		*out = strings.Replace(url.String(), "---", "{"+param+"}", 1)
	}
	return u
}
