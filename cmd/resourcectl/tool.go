// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restclient"
	"github.com/diffeo/go-resource/restdata"
)

var errMissingArgument = errors.New("missing argument")

// tool holds the state shared by all of the commands.
type tool struct {
	Registry *resource.Registry
	Client   *restclient.Client
	Out      io.Writer
}

// lookup finds a resource type by its singular or plural name.
func (t *tool) lookup(name string) (*resource.Type, error) {
	if name == "" {
		return nil, errMissingArgument
	}
	if typ, ok := t.Registry.Lookup(name); ok {
		return typ, nil
	}
	if typ, ok := t.Registry.LookupPlural(name); ok {
		return typ, nil
	}
	return nil, resource.ErrNoSuchType{Name: name}
}

// object creates a new Object of a named type that talks to the
// server.
func (t *tool) object(name string) (*resource.Object, error) {
	typ, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	o := typ.New(nil)
	o.SetTransport(t.Client)
	return o, nil
}

func (t *tool) print(value interface{}) error {
	b, err := restdata.EncodeBytes(restdata.JSONMediaType, value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(t.Out, string(b))
	return err
}

// Find fetches one resource and prints it.
func (t *tool) Find(ctx context.Context, typeName, id string) error {
	o, err := t.object(typeName)
	if err != nil {
		return err
	}
	if id == "" {
		return errMissingArgument
	}
	o.Set(o.Type().ResourceIDField(), id)
	_, err = o.FindResource(ctx).Wait(ctx)
	if err != nil {
		return err
	}
	return t.print(o.Serialize())
}

// Save creates or updates a resource from a JSON body and prints the
// result.
func (t *tool) Save(ctx context.Context, typeName string, body []byte) error {
	o, err := t.object(typeName)
	if err != nil {
		return err
	}
	var data map[string]interface{}
	err = restdata.DecodeBytes(restdata.JSONMediaType, body, &data)
	if err != nil {
		return err
	}
	o.Deserialize(data)
	_, err = o.SaveResource(ctx).Wait(ctx)
	if err != nil {
		return err
	}
	return t.print(o.Serialize())
}

// Destroy deletes one resource.
func (t *tool) Destroy(ctx context.Context, typeName, id string) error {
	o, err := t.object(typeName)
	if err != nil {
		return err
	}
	if id == "" {
		return errMissingArgument
	}
	o.Set(o.Type().ResourceIDField(), id)
	_, err = o.DestroyResource(ctx).Wait(ctx)
	return err
}

// List prints every resource of a type as a JSON list.
func (t *tool) List(ctx context.Context, typeName string) error {
	typ, err := t.lookup(typeName)
	if err != nil {
		return err
	}
	objects, err := t.Client.List(ctx, typ)
	if err != nil {
		return err
	}
	list := make([]interface{}, len(objects))
	for i, o := range objects {
		list[i] = o.Serialize()
	}
	return t.print(list)
}

// readBody returns arg as bytes, or all of r if arg is empty.
func readBody(arg string, r io.Reader) ([]byte, error) {
	if arg != "" {
		return []byte(arg), nil
	}
	return ioutil.ReadAll(r)
}
