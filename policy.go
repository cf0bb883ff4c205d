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
	"strconv"

	"github.com/vimeo/memocache/key"

	"go.opencensus.io/stats"
)

// DefaultCapacity is the capacity of a cache built without WithCapacity
// or WithUnbounded.
const DefaultCapacity = 128

// Capacity bounds the number of entries a cache retains.
type Capacity int

const (
	// Disabled turns caching off: every call invokes the wrapped
	// function and counts as a miss.
	Disabled Capacity = 0
	// Unbounded retains every result and never evicts.
	Unbounded Capacity = -1
)

// IsBounded reports whether c is a positive LRU bound.
func (c Capacity) IsBounded() bool {
	return c > 0
}

func (c Capacity) String() string {
	switch {
	case c == Unbounded:
		return "unbounded"
	case c == Disabled:
		return "disabled"
	case c > 0:
		return strconv.Itoa(int(c))
	default:
		return "invalid(" + strconv.Itoa(int(c)) + ")"
	}
}

// UnhashablePolicy selects what a call does when its arguments cannot be
// turned into a key.
type UnhashablePolicy int

const (
	// UnhashableRaise fails the call with an error matching
	// ErrUnhashable, without invoking the wrapped function.
	UnhashableRaise UnhashablePolicy = iota + 1
	// UnhashableWarn logs a warning, then behaves as UnhashableIgnore.
	UnhashableWarn
	// UnhashableIgnore invokes the wrapped function without caching and
	// counts the call as a miss.
	UnhashableIgnore
)

func (p UnhashablePolicy) String() string {
	switch p {
	case UnhashableRaise:
		return "error"
	case UnhashableWarn:
		return "warning"
	case UnhashableIgnore:
		return "ignore"
	default:
		return "UnhashablePolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

func (p UnhashablePolicy) valid() bool {
	return p >= UnhashableRaise && p <= UnhashableIgnore
}

// ParseUnhashablePolicy maps "error", "warning" and "ignore" to their
// policies.
func ParseUnhashablePolicy(s string) (UnhashablePolicy, error) {
	switch s {
	case "error":
		return UnhashableRaise, nil
	case "warning":
		return UnhashableWarn, nil
	case "ignore":
		return UnhashableIgnore, nil
	}
	return 0, &ConfigError{Field: "unhashable", Value: s, Reason: `must be one of "error", "warning" or "ignore"`}
}

// Config is the validated, immutable configuration of a cache.
type Config struct {
	Capacity   Capacity
	Typed      bool
	Unhashable UnhashablePolicy
	// Name labels the cache in metrics, traces and logs. When empty the
	// wrapped function's name is used.
	Name string
	// Doc is free-form documentation reported by Info.
	Doc string
	// Dedup collapses concurrent misses for equal keys into one
	// computation.
	Dedup bool

	negCapacity bool
	state       key.State
	stateSet    bool
	stateSrc    any
	logger      *slog.Logger
	recorder    stats.Recorder
}

// State returns the extra-state source the cache was configured with,
// or nil.
func (c Config) State() any {
	return c.stateSrc
}

func defaultConfig() Config {
	return Config{
		Capacity:   DefaultCapacity,
		Unhashable: UnhashableWarn,
	}
}

// validate checks the assembled options and resolves the extra state.
func (c *Config) validate() error {
	if c.negCapacity || c.Capacity < Unbounded {
		return &ConfigError{Field: "capacity", Value: int(c.Capacity), Reason: "must not be negative"}
	}
	if !c.Unhashable.valid() {
		return &ConfigError{Field: "unhashable", Value: c.Unhashable, Reason: "unknown policy"}
	}
	if c.stateSet {
		st, err := key.NewState(c.stateSrc)
		if err != nil {
			return &ConfigError{Field: "state", Value: c.stateSrc, Reason: "must be []any, *[]any, map[string]any or a func() []any", Err: err}
		}
		c.state = st
	}
	return nil
}
