// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package memory provides an in-process, in-memory implementation of
// a resource store.  There is no persistence, nor is there any
// automatic sharing.  The entire store is behind a single global
// semaphore to protect against concurrent updates; in some cases this
// can limit performance in the name of correctness.
//
// This is mostly intended as a simple reference implementation that
// can be used for testing, including in-process testing of resource
// clients.  It is tuned for correctness, not performance or
// scalability.
package memory

import (
	"sync"

	"github.com/diffeo/go-resource/restdata"
	"github.com/diffeo/go-resource/store"
)

// New creates a new store that operates purely in memory.
func New() store.Store {
	return &memStore{collections: make(map[string]*collection)}
}

type memStore struct {
	collections map[string]*collection
	sem         sync.Mutex
}

// collection holds the documents of one resource type.  order lists
// ids in insertion order.
type collection struct {
	docs   map[string]restdata.Document
	order  []string
	lastID int64
}

// collection finds or creates the collection for a resource type.
// The caller must hold the global lock.
func (s *memStore) collection(resource string) *collection {
	c := s.collections[resource]
	if c == nil {
		c = &collection{docs: make(map[string]restdata.Document)}
		s.collections[resource] = c
	}
	return c
}

func (s *memStore) List(resource string) ([]restdata.Document, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	c := s.collection(resource)
	result := make([]restdata.Document, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.docs[id].Copy())
	}
	return result, nil
}

func (s *memStore) Get(resource, id string) (restdata.Document, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	doc, present := s.collection(resource).docs[id]
	if !present {
		return nil, store.ErrNoSuchResource{Name: resource, ID: id}
	}
	return doc.Copy(), nil
}

func (s *memStore) Put(resource, id string, doc restdata.Document) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	c := s.collection(resource)
	if _, present := c.docs[id]; !present {
		c.order = append(c.order, id)
	}
	doc = doc.Copy()
	if doc == nil {
		doc = restdata.Document{}
	}
	c.docs[id] = doc
	return nil
}

func (s *memStore) Delete(resource, id string) error {
	s.sem.Lock()
	defer s.sem.Unlock()

	c := s.collection(resource)
	if _, present := c.docs[id]; !present {
		return store.ErrNoSuchResource{Name: resource, ID: id}
	}
	delete(c.docs, id)
	for i, other := range c.order {
		if other == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) NextID(resource string) (int64, error) {
	s.sem.Lock()
	defer s.sem.Unlock()

	c := s.collection(resource)
	c.lastID++
	return c.lastID, nil
}
