// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restserver"
	"github.com/diffeo/go-resource/store"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// NewHandler builds the complete HTTP handler for the daemon: the
// resource routes, a /metrics endpoint, panic recovery, request
// counting, and request logging if reqLogger is non-nil.
func NewHandler(st store.Store, registry *resource.Registry, reqLogger *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	// before PopulateRouter, so it is not taken as a collection
	r.Handle("/metrics", promhttp.Handler())
	restserver.PopulateRouter(r, st, registry)

	recovery := negroni.NewRecovery()
	recovery.Logger = logrus.StandardLogger()
	recovery.PrintStack = false

	n := negroni.New(recovery, &requestCounter{Registry: registry})
	if reqLogger != nil {
		logger := negroni.NewLogger()
		logger.ALogger = reqLogger
		n.Use(logger)
	}
	n.UseHandler(r)
	return n
}
