/*
Copyright 2019 Vimeo Inc.

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
	"fmt"
	"sort"
	"sync"
)

// Registry is a named collection of caches, for clearing them together
// and for exporting their stats.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]*Cache // caches are indexed by their name
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// NewCache wraps fn with opts, names the cache name and registers it.
// It panics if fn is nil. A name already in use returns an error
// matching ErrDuplicateName.
func (r *Registry) NewCache(name string, fn Func, opts ...Option) (*Cache, error) {
	opts = append(opts[:len(opts):len(opts)], WithName(name))
	c, err := New(fn, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds an existing cache under its Name.
func (r *Registry) Register(c *Cache) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.caches[c.Name()]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name())
	}
	r.caches[c.Name()] = c
	return nil
}

// Get returns the named cache, or nil if there's no such cache.
func (r *Registry) Get(name string) *Cache {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caches[name]
}

// Caches returns every registered cache, sorted by name.
func (r *Registry) Caches() []*Cache {
	r.mu.RLock()
	out := make([]*Cache, 0, len(r.caches))
	for _, c := range r.caches {
		out = append(out, c)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ClearAll clears every registered cache.
func (r *Registry) ClearAll() {
	for _, c := range r.Caches() {
		c.Clear()
	}
}
