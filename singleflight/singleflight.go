/*
Copyright 2012 Google Inc.
Copyright 2025 Vimeo Inc.

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

// Package singleflight suppresses duplicate concurrent calls for keys
// that are hashed and compared rather than used as map keys directly.
package singleflight // import "github.com/vimeo/memocache/singleflight"

import (
	"errors"
	"sync"

	"github.com/vimeo/memocache/lru"
)

// ErrLeaderPanicked is returned to callers that waited on a call whose
// function panicked.
var ErrLeaderPanicked = errors.New("singleflight: in-flight call panicked")

// call is an in-flight Do call
type call[R any] struct {
	wg  sync.WaitGroup
	val R
	err error
}

// Group represents a class of work and forms a namespace in which
// units of work can be executed with duplicate suppression.
type Group[K lru.Hashed[K], R any] struct {
	mu sync.Mutex            // protects m
	m  *lru.Map[K, *call[R]] // lazily initialized
}

// Do executes and returns the results of the given function, making
// sure that only one execution is in-flight for a given key at a
// time. If a duplicate comes in, the duplicate caller waits for the
// original to complete and receives the same results; shared is true
// only for such duplicates.
//
// If fn panics, waiting duplicates receive the zero R and ErrLeaderPanicked.
func (g *Group[K, R]) Do(key K, fn func() (R, error)) (val R, err error, shared bool) {
	c, leader := g.join(key)
	if !leader {
		c.wg.Wait()
		return c.val, c.err, true
	}
	defer g.finish(key, c)

	c.val, c.err = fn()
	return c.val, c.err, false
}

// join returns the in-flight call for key, registering a new one when
// there is none; leader reports whether the caller must run it. Key
// Equal methods run under mu, so every unlock is deferred.
func (g *Group[K, R]) join(key K) (c *call[R], leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		g.m = lru.NewMap[K, *call[R]]()
	}
	if c, ok := g.m.Get(key); ok {
		return c, false
	}
	c = new(call[R])
	c.err = ErrLeaderPanicked
	c.wg.Add(1)
	g.m.Add(key, c)
	return c, true
}

// finish forgets the call for key and releases its waiters.
func (g *Group[K, R]) finish(key K, c *call[R]) {
	defer c.wg.Done()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m.Remove(key)
}

// InFlight returns the number of keys with a call in progress.
func (g *Group[K, R]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		return 0
	}
	return g.m.Len()
}
