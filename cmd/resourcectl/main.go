// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command resourcectl finds, saves, destroys and lists resources on a
// resource server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restclient"
	"github.com/fatih/color"
	"github.com/urfave/cli"
)

var errorColor = color.New(color.FgRed).SprintfFunc()

var app tool

// withTool wraps a command action so it gets a context bounded by the
// global timeout, and so its errors are reported in red.
func withTool(action func(ctx context.Context, c *cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration("timeout"))
		defer cancel()
		err := action(ctx, c)
		if err != nil {
			return cli.NewExitError(errorColor("%s: %v", c.Command.Name, err), 1)
		}
		return nil
	}
}

var findCommand = cli.Command{
	Name:      "find",
	Usage:     "fetch one resource",
	ArgsUsage: "TYPE ID",
	Action: withTool(func(ctx context.Context, c *cli.Context) error {
		return app.Find(ctx, c.Args().Get(0), c.Args().Get(1))
	}),
}

var saveCommand = cli.Command{
	Name:      "save",
	Usage:     "create or update a resource from JSON",
	ArgsUsage: "TYPE [JSON]",
	Description: "Saves a resource.  The JSON body may be wrapped or flat; " +
		"if it is omitted it is read from standard input.  A body " +
		"without an id creates a new resource.",
	Action: withTool(func(ctx context.Context, c *cli.Context) error {
		body, err := readBody(c.Args().Get(1), os.Stdin)
		if err != nil {
			return err
		}
		return app.Save(ctx, c.Args().Get(0), body)
	}),
}

var destroyCommand = cli.Command{
	Name:      "destroy",
	Usage:     "delete one resource",
	ArgsUsage: "TYPE ID",
	Action: withTool(func(ctx context.Context, c *cli.Context) error {
		return app.Destroy(ctx, c.Args().Get(0), c.Args().Get(1))
	}),
}

var listCommand = cli.Command{
	Name:      "list",
	Usage:     "list every resource of a type",
	ArgsUsage: "TYPE",
	Action: withTool(func(ctx context.Context, c *cli.Context) error {
		return app.List(ctx, c.Args().Get(0))
	}),
}

func main() {
	cliApp := cli.NewApp()
	cliApp.Usage = "manipulate resources on a resource server"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "url",
			Value:  "http://localhost:5980/",
			Usage:  "base URL of the resource server",
			EnvVar: "RESOURCE_URL",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "resource schema YAML file",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Value: 30 * time.Second,
			Usage: "give up on a request after this long",
		},
	}
	cliApp.Commands = []cli.Command{
		findCommand,
		saveCommand,
		destroyCommand,
		listCommand,
	}
	cliApp.Before = func(c *cli.Context) error {
		if c.String("config") == "" {
			return cli.NewExitError(errorColor("--config is required"), 1)
		}
		options, err := resource.LoadConfigYaml(c.String("config"))
		if err != nil {
			return cli.NewExitError(errorColor("Error loading configuration: %v", err), 1)
		}
		app.Registry, err = resource.NewRegistryFromConfig(options)
		if err != nil {
			return cli.NewExitError(errorColor("Invalid resource schema: %v", err), 1)
		}
		app.Client, err = restclient.New(c.String("url"))
		if err != nil {
			return cli.NewExitError(errorColor("Invalid server URL: %v", err), 1)
		}
		app.Out = os.Stdout
		return nil
	}
	err := cliApp.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorColor("%v", err))
		os.Exit(1)
	}
}
