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
	"log/slog"

	"go.opencensus.io/stats"
)

// Option is an interface for implementing functional cache options
type Option interface {
	apply(*Config)
}

type funcOption struct {
	f func(*Config)
}

func (fo *funcOption) apply(c *Config) {
	fo.f(c)
}

func newFuncOption(f func(*Config)) *funcOption {
	return &funcOption{f: f}
}

// WithCapacity bounds the cache to n entries with LRU eviction; n == 0
// disables caching. Negative values are rejected, use WithUnbounded for
// an unbounded cache. Defaults to DefaultCapacity.
func WithCapacity(n int) Option {
	return newFuncOption(func(c *Config) {
		c.Capacity = Capacity(n)
		c.negCapacity = n < 0
	})
}

// WithUnbounded lets the cache grow without limit.
func WithUnbounded() Option {
	return newFuncOption(func(c *Config) {
		c.Capacity = Unbounded
		c.negCapacity = false
	})
}

// WithTyped caches arguments of different types separately, so f(3) and
// f(3.0) are distinct calls.
func WithTyped(typed bool) Option {
	return newFuncOption(func(c *Config) {
		c.Typed = typed
	})
}

// WithExtraState folds state into every key. state is read on every call,
// so mutating it changes the keys of subsequent calls. Accepted types are
// []any, *[]any, map[string]any (ordered by key) and func() []any.
func WithExtraState(state any) Option {
	return newFuncOption(func(c *Config) {
		c.stateSrc = state
		c.stateSet = true
	})
}

// WithDedup makes concurrent misses for equal arguments share one call of
// the wrapped function; the callers that waited count as hits. The waiting
// callers get the result computed under the first caller's context.
func WithDedup(dedup bool) Option {
	return newFuncOption(func(c *Config) {
		c.Dedup = dedup
	})
}

// WithUnhashablePolicy selects what happens when call arguments can't be
// hashed; defaults to UnhashableWarn.
func WithUnhashablePolicy(p UnhashablePolicy) Option {
	return newFuncOption(func(c *Config) {
		c.Unhashable = p
	})
}

// WithName labels the cache in metrics, traces and logs.
func WithName(name string) Option {
	return newFuncOption(func(c *Config) {
		c.Name = name
	})
}

// WithDoc attaches documentation to the cache, reported by Info.
func WithDoc(doc string) Option {
	return newFuncOption(func(c *Config) {
		c.Doc = doc
	})
}

// WithLogger sets the logger used for warnings and debug output. By
// default records go to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return newFuncOption(func(c *Config) {
		c.logger = l
	})
}

// WithRecorder records the cache's opencensus measurements to r (for
// example a view.Meter) instead of the global recorder.
func WithRecorder(r stats.Recorder) Option {
	return newFuncOption(func(c *Config) {
		c.recorder = r
	})
}
