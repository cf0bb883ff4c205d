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

package key

import (
	"fmt"
	"reflect"
	"sort"
)

// A StateFunc supplies extra state to fold into every key. It is called
// once per Build.
type StateFunc func() []any

// State is a source of extra key state, read on every Build.
type State interface {
	values() []any
}

type sliceState struct{ s []any }

func (s sliceState) values() []any { return s.s }

type slicePtrState struct{ p *[]any }

func (s slicePtrState) values() []any {
	if s.p == nil {
		return nil
	}
	return *s.p
}

type mapState struct{ m map[string]any }

// values returns the map's values ordered by their keys.
func (s mapState) values() []any {
	names := make([]string, 0, len(s.m))
	for name := range s.m {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = s.m[name]
	}
	return out
}

type funcState struct{ f StateFunc }

func (s funcState) values() []any { return s.f() }

// NewState wraps src as a State. Accepted sources are []any, *[]any,
// map[string]any, StateFunc (or a plain func() []any) and nil, which
// yields a nil State. The source is retained, not copied, so later
// mutations are reflected in subsequent keys.
func NewState(src any) (State, error) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case []any:
		return sliceState{s}, nil
	case *[]any:
		return slicePtrState{s}, nil
	case map[string]any:
		return mapState{s}, nil
	case StateFunc:
		if s == nil {
			return nil, nil
		}
		return funcState{s}, nil
	case func() []any:
		if s == nil {
			return nil, nil
		}
		return funcState{s}, nil
	}
	return nil, fmt.Errorf("key: unsupported extra state of type %T", src)
}

// kwMark separates positional arguments from keyword arguments, so that
// f("b", 2) and f(b=2) build different keys.
type kwMark struct{}

// Builder turns call arguments into Keys.
//
// A Builder is immutable and safe for concurrent use; the State it reads
// is not synchronized.
type Builder struct {
	// Typed, when set, appends the dynamic type of every argument so that
	// equal values of different types produce different keys.
	Typed bool
	// State, if non-nil, is prepended to every key.
	State State
}

// Build assembles the key for one call. Element order is: extra state,
// positional args, positional arg types (typed only), then, if there are
// keyword arguments, a separator followed by name, value and (typed only)
// type for each keyword argument in name order.
//
// If any element cannot be hashed the returned error wraps ErrUnhashable.
func (b *Builder) Build(args []any, kwargs map[string]any) (*Key, error) {
	var state []any
	if b.State != nil {
		state = b.State.values()
	}

	size := len(state) + len(args) + 2*len(kwargs) + 1
	if b.Typed {
		size += len(args) + len(kwargs)
	}
	elems := make([]any, 0, size)
	elems = append(elems, state...)
	elems = append(elems, args...)
	if b.Typed {
		for _, a := range args {
			elems = append(elems, reflect.TypeOf(a))
		}
	}

	if len(kwargs) > 0 {
		elems = append(elems, kwMark{})
		names := make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := kwargs[name]
			elems = append(elems, name, v)
			if b.Typed {
				elems = append(elems, reflect.TypeOf(v))
			}
		}
	}
	return New(elems...)
}
