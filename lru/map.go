/*
Copyright 2026 Vimeo Inc.

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

package lru

// Map is an unbounded hash-indexed store with no recency tracking and no
// eviction. It is not safe for concurrent access.
type Map[K Hashed[K], V any] struct {
	buckets map[uint64][]typedEntry[K, V]
	size    int
}

// NewMap creates an empty Map.
func NewMap[K Hashed[K], V any]() *Map[K, V] {
	return &Map[K, V]{buckets: make(map[uint64][]typedEntry[K, V])}
}

// Get looks up a key's value.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	for _, e := range m.buckets[key.Hash()] {
		if e.key.Equal(key) {
			return e.value, true
		}
	}
	return
}

// Add stores value under key, replacing any previous value.
func (m *Map[K, V]) Add(key K, value V) {
	if m.buckets == nil {
		m.buckets = make(map[uint64][]typedEntry[K, V])
	}
	h := key.Hash()
	bucket := m.buckets[h]
	for i := range bucket {
		if bucket[i].key.Equal(key) {
			bucket[i].value = value
			return
		}
	}
	m.buckets[h] = append(bucket, typedEntry[K, V]{key, value})
	m.size++
}

// Remove removes the provided key.
func (m *Map[K, V]) Remove(key K) {
	h := key.Hash()
	bucket := m.buckets[h]
	for i := range bucket {
		if !bucket[i].key.Equal(key) {
			continue
		}
		last := len(bucket) - 1
		bucket[i] = bucket[last]
		bucket[last] = typedEntry[K, V]{}
		bucket = bucket[:last]
		m.size--
		break
	}
	if len(bucket) == 0 {
		delete(m.buckets, h)
		return
	}
	m.buckets[h] = bucket
}

// Keys returns the stored keys in no particular order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Len returns the number of stored items.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Clear drops every stored item.
func (m *Map[K, V]) Clear() {
	m.buckets = make(map[uint64][]typedEntry[K, V])
	m.size = 0
}
