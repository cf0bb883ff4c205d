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

// Package key builds composite, hashable cache keys out of heterogeneous
// call arguments.
//
// A Key is an immutable sequence of normalized elements together with a
// hash computed once at construction time, so repeated lookups never
// rehash user values.
package key // import "github.com/vimeo/memocache/key"

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnhashable is matched (via errors.Is) by every error reporting that
// an argument cannot participate in a Key.
var ErrUnhashable = errors.New("key: unhashable element")

// UnhashableError names the first element of a would-be key that cannot
// be hashed.
type UnhashableError struct {
	// Index is the position of the element within the composite key.
	Index int
	// Type is the dynamic type of the offending element.
	Type reflect.Type
}

func (e *UnhashableError) Error() string {
	return fmt.Sprintf("key: unhashable element %d of type %v", e.Index, e.Type)
}

// Unwrap returns ErrUnhashable.
func (e *UnhashableError) Unwrap() error {
	return ErrUnhashable
}

// Hasher may be implemented by argument types that want to supply their
// own hash. A Hasher must also be comparable with == or implement Equaler.
type Hasher interface {
	Hash64() uint64
}

// Equaler may be implemented by argument types that define their own
// equality. Equal is called while the owning cache holds its lock, so it
// must not call back into that cache.
type Equaler interface {
	Equal(other any) bool
}

// Key is a composite cache key. The zero value is an empty key.
type Key struct {
	elems []any
	hash  uint64
}

// New builds a key directly from already-ordered elements. It is the
// low-level entry point used by Builder; most callers want Builder.Build.
func New(elems ...any) (*Key, error) {
	k := &Key{elems: make([]any, len(elems))}
	hashes := make([]uint64, len(elems))
	for i, e := range elems {
		norm, h, ok := hashElem(e)
		if !ok {
			return nil, &UnhashableError{Index: i, Type: reflect.TypeOf(e)}
		}
		k.elems[i] = norm
		hashes[i] = h
	}
	k.hash = combine(hashes)
	return k, nil
}

// Hash returns the precomputed hash of the key.
func (k *Key) Hash() uint64 {
	return k.hash
}

// Len returns the number of elements in the key.
func (k *Key) Len() int {
	return len(k.elems)
}

// Elems returns a copy of the key's normalized elements.
func (k *Key) Elems() []any {
	out := make([]any, len(k.elems))
	copy(out, k.elems)
	return out
}

// Equal reports whether k and o hold pairwise-equal elements.
func (k *Key) Equal(o *Key) bool {
	if k == o {
		return true
	}
	if k == nil || o == nil {
		return false
	}
	if k.hash != o.hash || len(k.elems) != len(o.elems) {
		return false
	}
	for i := range k.elems {
		if !elemEqual(k.elems[i], o.elems[i]) {
			return false
		}
	}
	return true
}

func (k *Key) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range k.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", e)
	}
	sb.WriteByte(')')
	return sb.String()
}

func elemEqual(a, b any) bool {
	if eq, ok := a.(Equaler); ok {
		return eq.Equal(b)
	}
	return a == b
}
