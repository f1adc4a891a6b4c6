// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diffeo/go-resource/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "diffeo",
		Subsystem: "resource",
		Name:      "requests_total",
		Help:      "HTTP requests by resource, method and status",
	},
	[]string{
		"resource",
		"method",
		"code",
	},
)

func init() {
	prometheus.MustRegister(requestCount)
}

// requestCounter is negroni middleware that counts every request
// in requestCount.
type requestCounter struct {
	Registry *resource.Registry
}

// resourceLabel names the resource type a request path addresses.
// The root document is "root", and anything that is not a known
// collection is "other".
func (rc *requestCounter) resourceLabel(path string) string {
	collection := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if collection == "" {
		return "root"
	}
	if t, ok := rc.Registry.LookupPlural(collection); ok {
		return t.Name
	}
	return "other"
}

func (rc *requestCounter) ServeHTTP(rw http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	next(rw, req)
	code := http.StatusOK
	if nrw, ok := rw.(negroni.ResponseWriter); ok && nrw.Status() != 0 {
		code = nrw.Status()
	}
	requestCount.With(prometheus.Labels{
		"resource": rc.resourceLabel(req.URL.Path),
		"method":   req.Method,
		"code":     strconv.Itoa(code),
	}).Inc()
}
