// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package resourcetest provides resource types shared by tests of the
// resource, client and server packages.
package resourcetest

import (
	"fmt"

	"github.com/diffeo/go-resource/resource"
)

// Contact is a person with an integer identity.  Its computed
// "fullName" joins the first and last names.
var Contact = &resource.Type{
	Name:   "contact",
	IDKind: resource.Int,
	Fields: []resource.Field{
		{Name: "first_name", Kind: resource.String},
		{Name: "last_name", Kind: resource.String},
	},
	Computed: []resource.Computed{
		{Name: "fullName", Func: fullName},
	},
}

func fullName(o *resource.Object) interface{} {
	return fmt.Sprintf("%v %v", o.Get("first_name"), o.Get("last_name"))
}

// Group is a named collection of Contacts.
var Group = &resource.Type{
	Name:   "group",
	IDKind: resource.Int,
	Fields: []resource.Field{
		{Name: "group_name", Kind: resource.String},
	},
	Relations: []resource.Relation{
		{Name: "contacts", Type: Contact},
	},
}

// Registry returns a new registry holding Contact and Group.
func Registry() *resource.Registry {
	registry, err := resource.NewRegistry(Contact, Group)
	if err != nil {
		panic(err)
	}
	return registry
}

// SchemaYAML is a configuration file equivalent to Registry, except
// that groups use the JAX-RS connection type.
const SchemaYAML = `types:
  - name: contact
    id_kind: int
    fields:
      - {name: first_name, kind: string}
      - {name: last_name, kind: string}
  - name: group
    id_kind: int
    connection_type: JAX-RS
    fields:
      - {name: group_name, kind: string}
    relations:
      - {name: contacts, type: contact}
`
