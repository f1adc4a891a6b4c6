// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package storetest provides generic functional tests for the Store
// interface.  A typical backend test module needs to wrap Suite to
// create its backend:
//
//     package mybackend
//
//     import (
//             "testing"
//             "github.com/diffeo/go-resource/store/storetest"
//             "github.com/stretchr/testify/suite"
//     )
//
//     // Suite is the per-backend generic test suite.
//     type Suite struct{
//             storetest.Suite
//     }
//
//     // SetupTest creates a fresh backend for each test.
//     func (s *Suite) SetupTest() {
//             s.Store = New()
//     }
//
//     // TestStore runs the Store generic tests.
//     func TestStore(t *testing.T) {
//             suite.Run(t, &Suite{})
//     }
package storetest

import (
	"github.com/diffeo/go-resource/restdata"
	"github.com/diffeo/go-resource/store"
	"github.com/stretchr/testify/suite"
)

// Suite is the generic Store backend test suite.
type Suite struct {
	suite.Suite

	// Store contains the backend under test.  It is set by
	// importing packages, and should be empty at the start of
	// each test.
	Store store.Store
}

// TestGetMissing checks that fetching an absent document fails with
// the right error.
func (s *Suite) TestGetMissing() {
	_, err := s.Store.Get("contact", "1")
	s.Equal(store.ErrNoSuchResource{Name: "contact", ID: "1"}, err)
}

// TestPutGet stores a document and reads it back.
func (s *Suite) TestPutGet() {
	doc := restdata.Document{
		"id":         int64(1),
		"first_name": "Joe",
		"last_name":  "Blow",
	}
	err := s.Store.Put("contact", "1", doc)
	if !s.NoError(err) {
		return
	}

	got, err := s.Store.Get("contact", "1")
	if s.NoError(err) {
		s.Equal(doc, got)
	}

	// A different resource type is a different namespace
	_, err = s.Store.Get("group", "1")
	s.Equal(store.ErrNoSuchResource{Name: "group", ID: "1"}, err)
}

// TestNested stores a document with a nested relation.
func (s *Suite) TestNested() {
	doc := restdata.Document{
		"id":         int64(1),
		"group_name": "Test",
		"contacts": []interface{}{
			map[string]interface{}{"first_name": "Joe"},
			map[string]interface{}{"first_name": "Some"},
		},
	}
	if !s.NoError(s.Store.Put("group", "1", doc)) {
		return
	}
	got, err := s.Store.Get("group", "1")
	if s.NoError(err) {
		s.Equal(doc, got)
	}
}

// TestReplace checks that Put replaces a whole document.
func (s *Suite) TestReplace() {
	err := s.Store.Put("contact", "1", restdata.Document{"first_name": "Joe", "last_name": "Blow"})
	if !s.NoError(err) {
		return
	}
	err = s.Store.Put("contact", "1", restdata.Document{"first_name": "Joseph"})
	if !s.NoError(err) {
		return
	}
	got, err := s.Store.Get("contact", "1")
	if s.NoError(err) {
		s.Equal(restdata.Document{"first_name": "Joseph"}, got)
	}
}

// TestIsolation checks that the store does not share maps with its
// callers.
func (s *Suite) TestIsolation() {
	doc := restdata.Document{"first_name": "Joe"}
	if !s.NoError(s.Store.Put("contact", "1", doc)) {
		return
	}
	doc["first_name"] = "Changed"

	got, err := s.Store.Get("contact", "1")
	if s.NoError(err) {
		s.Equal("Joe", got["first_name"])
		got["first_name"] = "Also Changed"
	}

	got, err = s.Store.Get("contact", "1")
	if s.NoError(err) {
		s.Equal("Joe", got["first_name"])
	}
}

// TestList checks that listing returns documents in insertion order,
// unaffected by replacement.
func (s *Suite) TestList() {
	docs, err := s.Store.List("contact")
	if s.NoError(err) {
		s.Empty(docs)
	}

	for _, id := range []string{"3", "1", "2"} {
		err = s.Store.Put("contact", id, restdata.Document{"id": id})
		if !s.NoError(err) {
			return
		}
	}
	err = s.Store.Put("contact", "1", restdata.Document{"id": "1", "first_name": "Joe"})
	if !s.NoError(err) {
		return
	}

	docs, err = s.Store.List("contact")
	if s.NoError(err) && s.Len(docs, 3) {
		s.Equal("3", docs[0]["id"])
		s.Equal("1", docs[1]["id"])
		s.Equal("Joe", docs[1]["first_name"])
		s.Equal("2", docs[2]["id"])
	}
}

// TestDelete checks that deleted documents are gone.
func (s *Suite) TestDelete() {
	err := s.Store.Delete("contact", "1")
	s.Equal(store.ErrNoSuchResource{Name: "contact", ID: "1"}, err)

	if !s.NoError(s.Store.Put("contact", "1", restdata.Document{"id": "1"})) {
		return
	}
	if !s.NoError(s.Store.Put("contact", "2", restdata.Document{"id": "2"})) {
		return
	}
	s.NoError(s.Store.Delete("contact", "1"))

	_, err = s.Store.Get("contact", "1")
	s.Equal(store.ErrNoSuchResource{Name: "contact", ID: "1"}, err)

	docs, err := s.Store.List("contact")
	if s.NoError(err) && s.Len(docs, 1) {
		s.Equal("2", docs[0]["id"])
	}
}

// TestNextID checks that identity sequences count up independently
// per resource type.
func (s *Suite) TestNextID() {
	for _, expected := range []int64{1, 2, 3} {
		id, err := s.Store.NextID("contact")
		if s.NoError(err) {
			s.Equal(expected, id)
		}
	}
	id, err := s.Store.NextID("group")
	if s.NoError(err) {
		s.Equal(int64(1), id)
	}
}
