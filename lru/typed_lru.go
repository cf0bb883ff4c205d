//go:build go1.21

/*
Copyright 2013 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package lru implements an LRU cache over keys that carry their own hash.
package lru // import "github.com/vimeo/memocache/lru"

// Hashed is the constraint on cache keys: a precomputed hash plus an
// equality check that is only consulted between keys with equal hashes.
type Hashed[K any] interface {
	Hash() uint64
	Equal(K) bool
}

// TypedCache is an LRU cache. It is not safe for concurrent access.
type TypedCache[K Hashed[K], V any] struct {
	// MaxEntries is the maximum number of cache entries before
	// an item is evicted. Zero means no limit.
	MaxEntries int

	// OnEvicted optionally specificies a callback function to be
	// executed when a typedEntry is evicted or removed from the cache.
	OnEvicted func(key K, value V)

	// index maps a key hash to the slots of every entry with that hash
	index map[uint64][]int32
	ll    linkedList[typedEntry[K, V]]
}

type typedEntry[K any, V any] struct {
	key   K
	value V
}

// TypedNew creates a new Cache (with types).
// If maxEntries is zero, the cache has no limit and it's assumed
// that eviction is done by the caller.
func TypedNew[K Hashed[K], V any](maxEntries int) *TypedCache[K, V] {
	c := &TypedCache[K, V]{
		MaxEntries: maxEntries,
		index:      make(map[uint64][]int32, sizeHint(maxEntries)),
	}
	c.ll.init(sizeHint(maxEntries))
	return c
}

// maxSizeHint caps up-front allocation for large bounds.
const maxSizeHint = 1 << 12

func sizeHint(maxEntries int) int {
	return max(0, min(maxEntries, maxSizeHint))
}

func (c *TypedCache[K, V]) lookup(key K) (int32, bool) {
	for _, i := range c.index[key.Hash()] {
		if c.ll.At(i).key.Equal(key) {
			return i, true
		}
	}
	return root, false
}

func (c *TypedCache[K, V]) indexAdd(key K, i int32) {
	h := key.Hash()
	c.index[h] = append(c.index[h], i)
}

func (c *TypedCache[K, V]) indexRemove(key K, i int32) {
	h := key.Hash()
	bucket := c.index[h]
	for j, slot := range bucket {
		if slot == i {
			last := len(bucket) - 1
			bucket[j] = bucket[last]
			bucket = bucket[:last]
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.index, h)
		return
	}
	c.index[h] = bucket
}

// Add adds a value to the cache. Adding a key that is already present
// replaces its value and marks it most recently used. Adding a new key to
// a full cache reuses the least recently used entry's slot for the new
// key.
func (c *TypedCache[K, V]) Add(key K, value V) {
	if c.index == nil {
		c.index = make(map[uint64][]int32)
	}
	if i, hit := c.lookup(key); hit {
		c.ll.MoveToFront(i)
		c.ll.At(i).value = value
		return
	}
	for c.MaxEntries != 0 && c.ll.Len() > c.MaxEntries {
		c.RemoveOldest()
	}
	if c.MaxEntries != 0 && c.ll.Len() == c.MaxEntries {
		c.repurposeOldest(key, value)
		return
	}
	i := c.ll.PushFront(typedEntry[K, V]{key, value})
	c.indexAdd(key, i)
}

// repurposeOldest overwrites the least recently used entry with key and
// value and makes it the most recently used one.
func (c *TypedCache[K, V]) repurposeOldest(key K, value V) {
	i := c.ll.Back()
	ent := c.ll.At(i)
	oldKey, oldValue := ent.key, ent.value
	ent.key, ent.value = key, value
	c.ll.MoveToFront(i)
	c.indexAdd(key, i)
	c.indexRemove(oldKey, i)
	if c.OnEvicted != nil {
		c.OnEvicted(oldKey, oldValue)
	}
}

// Get looks up a key's value from the cache, marking it most recently
// used.
func (c *TypedCache[K, V]) Get(key K) (value V, ok bool) {
	if c.index == nil {
		return
	}
	if i, hit := c.lookup(key); hit {
		c.ll.MoveToFront(i)
		return c.ll.At(i).value, true
	}
	return
}

// Peek looks up a key's value without touching its recency.
func (c *TypedCache[K, V]) Peek(key K) (value V, ok bool) {
	if c.index == nil {
		return
	}
	if i, hit := c.lookup(key); hit {
		return c.ll.At(i).value, true
	}
	return
}

// MostRecent returns the most recently used element
func (c *TypedCache[K, V]) MostRecent() *V {
	if c.Len() == 0 {
		return nil
	}
	return &c.ll.At(c.ll.Front()).value
}

// LeastRecent returns the least recently used element
func (c *TypedCache[K, V]) LeastRecent() *V {
	if c.Len() == 0 {
		return nil
	}
	return &c.ll.At(c.ll.Back()).value
}

// Keys returns the cached keys from most to least recently used.
func (c *TypedCache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	if c.Len() == 0 {
		return keys
	}
	for i := c.ll.Front(); i != root; i = c.ll.Next(i) {
		keys = append(keys, c.ll.At(i).key)
	}
	return keys
}

// Remove removes the provided key from the cache.
func (c *TypedCache[K, V]) Remove(key K) {
	if c.index == nil {
		return
	}
	if i, hit := c.lookup(key); hit {
		c.removeElement(i)
	}
}

// RemoveOldest removes the oldest item from the cache.
func (c *TypedCache[K, V]) RemoveOldest() {
	if c.Len() == 0 {
		return
	}
	c.removeElement(c.ll.Back())
}

func (c *TypedCache[K, V]) removeElement(i int32) {
	kv := c.ll.Remove(i)
	c.indexRemove(kv.key, i)
	if c.OnEvicted != nil {
		c.OnEvicted(kv.key, kv.value)
	}
}

// Len returns the number of items in the cache.
func (c *TypedCache[K, V]) Len() int {
	return c.ll.Len()
}

// Clear purges all stored items from the cache.
func (c *TypedCache[K, V]) Clear() {
	if c.OnEvicted != nil {
		for i := c.ll.Front(); c.Len() > 0 && i != root; i = c.ll.Next(i) {
			kv := c.ll.At(i)
			c.OnEvicted(kv.key, kv.value)
		}
	}
	c.ll.init(sizeHint(c.MaxEntries))
	c.index = make(map[uint64][]int32, sizeHint(c.MaxEntries))
}
