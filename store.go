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

package memocache

import (
	"github.com/vimeo/memocache/key"
	"github.com/vimeo/memocache/lru"
)

// store is the keyed result storage behind a Cache. Callers hold the
// Cache's mutex around every method.
type store interface {
	// get returns the result for k; a bounded store marks it most
	// recently used.
	get(k *key.Key) (any, bool)
	// add stores a result for a key that is not present and returns the
	// key it displaced, if any.
	add(k *key.Key, v any) (evicted *key.Key)
	len() int
	clear()
	keys() []*key.Key
}

// boundedStore keeps at most capacity results in LRU order.
type boundedStore struct {
	capacity int
	lru      *lru.TypedCache[*key.Key, any]
	evicted  *key.Key
}

func newBoundedStore(capacity int) *boundedStore {
	s := &boundedStore{capacity: capacity}
	s.reset()
	return s
}

func (s *boundedStore) reset() {
	s.lru = lru.TypedNew[*key.Key, any](s.capacity)
	s.lru.OnEvicted = func(k *key.Key, _ any) {
		s.evicted = k
	}
}

func (s *boundedStore) get(k *key.Key) (any, bool) {
	return s.lru.Get(k)
}

func (s *boundedStore) add(k *key.Key, v any) *key.Key {
	s.evicted = nil
	s.lru.Add(k, v)
	evicted := s.evicted
	s.evicted = nil
	return evicted
}

func (s *boundedStore) len() int {
	return s.lru.Len()
}

// clear swaps in an empty LRU rather than walking the old one.
func (s *boundedStore) clear() {
	s.reset()
}

func (s *boundedStore) keys() []*key.Key {
	return s.lru.Keys()
}

// unboundedStore keeps every result and tracks no recency.
type unboundedStore struct {
	m *lru.Map[*key.Key, any]
}

func newUnboundedStore() *unboundedStore {
	return &unboundedStore{m: lru.NewMap[*key.Key, any]()}
}

func (s *unboundedStore) get(k *key.Key) (any, bool) {
	return s.m.Get(k)
}

func (s *unboundedStore) add(k *key.Key, v any) *key.Key {
	s.m.Add(k, v)
	return nil
}

func (s *unboundedStore) len() int {
	return s.m.Len()
}

func (s *unboundedStore) clear() {
	s.m.Clear()
}

func (s *unboundedStore) keys() []*key.Key {
	return s.m.Keys()
}
