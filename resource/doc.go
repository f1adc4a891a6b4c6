// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package resource provides client-side model objects that mirror
// entities on a REST server.
//
// A Type declares a resource: its name, identity field, persisted
// fields, relations to child types, and derived values.  Objects are
// created from a Type and hold the actual values:
//
//     var Contact = &resource.Type{
//             Name:   "contact",
//             IDKind: resource.Int,
//             Fields: []resource.Field{
//                     {Name: "first_name", Kind: resource.String},
//                     {Name: "last_name", Kind: resource.String},
//             },
//     }
//
//     joe := Contact.New(map[string]interface{}{"first_name": "Joe"})
//
// Objects serialize to one of two wire shapes.  The default shape
// wraps every object under its resource name,
// {"contact": {"id": 1, "first_name": "Joe"}}; the JAX-RS shape
// leaves every level flat.  Deserialize accepts either shape at any
// level.
//
// Remote operations (FindResource, SaveResource, DestroyResource) go
// through the Object's Transport and return a Pending immediately.
// Resources live at "/<name>s/<id>"; a resource with no identity value
// is new and is created by POST to "/<name>s".
package resource
