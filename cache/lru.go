// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package cache

// This file provides a simple LRU cache.  I know of at least two
// other implementations, though it is a pretty simple concept; the
// cached responses here are keyed by resource path.

import (
	"container/list"
	"sync"
)

// keyed describes things with cache keys, like cached responses.
type keyed interface {
	Key() string
}

// lru is a least-recently-used cache with a fixed capacity.  The cache
// can be safely accessed from multiple goroutines.
type lru struct {
	size      int
	lock      sync.RWMutex
	evictList *list.List
	index     map[string]*list.Element
}

func newLRU(size int) *lru {
	return &lru{
		size:      size,
		evictList: list.New(),
		index:     make(map[string]*list.Element),
	}
}

// Get retrieves an item from the cache and marks it as most recently
// used.  The second return value is false if the item is absent.
func (lru *lru) Get(key string) (keyed, bool) {
	// This sadly happens under a writer lock, since we need to move
	// the item to the back of the list if it is present
	lru.lock.Lock()
	defer lru.lock.Unlock()

	element, present := lru.index[key]
	if !present {
		return nil, false
	}
	lru.evictList.MoveToBack(element)
	return element.Value.(keyed), true
}

// Peek looks for an item in the cache and returns it if present, or
// returns nil if absent.  This runs under a reader lock, and so can
// run concurrently with itself but not calls to Put or Get.  This
// does not affect the recency of the item.
func (lru *lru) Peek(key string) keyed {
	lru.lock.RLock()
	defer lru.lock.RUnlock()

	if element, present := lru.index[key]; present {
		return element.Value.(keyed)
	}
	return nil
}

// Put adds an item to the LRU cache, possibly evicting something.
func (lru *lru) Put(item keyed) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	// Are we just updating an existing item?
	if element, present := lru.index[item.Key()]; present {
		element.Value = item
		lru.evictList.MoveToBack(element)
		return
	}

	// Otherwise add it
	lru.add(item)
}

// Remove takes an item out of the cache.  It does nothing if that
// key does not exist.
func (lru *lru) Remove(key string) {
	lru.lock.Lock()
	defer lru.lock.Unlock()

	if element, present := lru.index[key]; present {
		delete(lru.index, key)
		lru.evictList.Remove(element)
	}
}

// Len returns the number of items in the cache.
func (lru *lru) Len() int {
	lru.lock.RLock()
	defer lru.lock.RUnlock()
	return len(lru.index)
}

// add is an internal helper, running under the write lock, that adds a
// new item to the cache.  The item is known to not already exist.
func (lru *lru) add(item keyed) {
	element := lru.evictList.PushBack(item)
	lru.index[item.Key()] = element

	// If this caused the cache to go over size, start evicting items
	for len(lru.index) > lru.size {
		head := lru.evictList.Front()
		item := head.Value.(keyed)
		delete(lru.index, item.Key())
		lru.evictList.Remove(head)
	}
}
