// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command resourced serves resource collections over HTTP.  The
// resource types come from a YAML schema file, and documents are kept
// in a memory or PostgreSQL store.
package main

import (
	"flag"
	"net/http"

	"github.com/diffeo/go-resource/backend"
	"github.com/diffeo/go-resource/resource"
	"github.com/sirupsen/logrus"
)

func main() {
	httpBind := flag.String("http", ":5980",
		"[ip]:port for HTTP REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the storage backend")
	config := flag.String("config", "", "resource schema YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	if *config == "" {
		logrus.Fatal("-config is required")
	}
	options, err := resource.LoadConfigYaml(*config)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not load YAML configuration")
	}
	registry, err := resource.NewRegistryFromConfig(options)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Invalid resource schema")
	}

	st, err := backend.Store()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err":     err,
			"backend": backend.String(),
		}).Fatal("Could not create storage backend")
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	logrus.WithFields(logrus.Fields{
		"http":    *httpBind,
		"backend": backend.String(),
		"types":   len(registry.Types()),
	}).Info("Serving resources")
	err = http.ListenAndServe(*httpBind, NewHandler(st, registry, reqLogger))
	logrus.WithFields(logrus.Fields{
		"err": err,
	}).Fatal("HTTP server stopped")
}
