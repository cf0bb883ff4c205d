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
	"encoding/binary"
	"math"
	"math/bits"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// xxHash64 primes, also used by the element accumulator.
const (
	prime1 uint64 = 11400714785074694791
	prime2 uint64 = 14029467366897019727
	prime5 uint64 = 2870177450012600261
)

// tags separate the hash spaces of differently-shaped elements
const (
	tagNil byte = iota
	tagBool
	tagInt
	tagUint
	tagFloat
	tagComplex
	tagString
	tagPointer
	tagType
	tagStruct
	tagArray
	tagHasher
)

func hashUint(tag byte, v uint64) uint64 {
	var buf [9]byte
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:], v)
	return xxhash.Sum64(buf[:])
}

// combine folds element hashes into one, using the xxHash64 lane round.
// The element count participates so that prefixes don't collide.
func combine(hashes []uint64) uint64 {
	acc := prime5
	for _, h := range hashes {
		acc += h * prime2
		acc = bits.RotateLeft64(acc, 31)
		acc *= prime1
	}
	acc += uint64(len(hashes)) ^ (prime5 ^ 3527539)
	return acc
}

// hashElem normalizes e and hashes it. ok is false when e cannot be
// part of a key.
func hashElem(e any) (norm any, h uint64, ok bool) {
	if e == nil {
		return nil, hashUint(tagNil, 0), true
	}
	if t, isType := e.(reflect.Type); isType {
		return t, hashUint(tagType, xxhash.Sum64String(t.String())), true
	}
	rv := reflect.ValueOf(e)
	if hs, isHasher := e.(Hasher); isHasher {
		if _, isEq := e.(Equaler); !isEq && !rv.Comparable() {
			return nil, 0, false
		}
		return e, hashUint(tagHasher, hs.Hash64()), true
	}
	if !rv.Comparable() {
		return nil, 0, false
	}
	if norm, h, basic := hashBasic(rv); basic {
		return norm, h, true
	}
	return e, hashNested(rv), true
}

// hashBasic handles the scalar kinds, which are normalized so that values
// equal across Go types (int8(3), uint(3), 3.0) share one representation.
func hashBasic(rv reflect.Value) (any, uint64, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		b := rv.Bool()
		var n uint64
		if b {
			n = 1
		}
		return b, hashUint(tagBool, n), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return i, hashUint(tagInt, uint64(i)), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return int64(u), hashUint(tagInt, u), true
		}
		return u, hashUint(tagUint, u), true
	case reflect.Float32, reflect.Float64:
		n, h := normFloat(rv.Float())
		return n, h, true
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		if imag(c) == 0 {
			n, h := normFloat(real(c))
			return n, h, true
		}
		h := combine([]uint64{math.Float64bits(real(c)), math.Float64bits(imag(c))})
		return c, hashUint(tagComplex, h), true
	case reflect.String:
		s := rv.String()
		return s, hashUint(tagString, xxhash.Sum64String(s)), true
	}
	return nil, 0, false
}

func normFloat(f float64) (any, uint64) {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		i := int64(f)
		return i, hashUint(tagInt, uint64(i))
	}
	return f, hashUint(tagFloat, math.Float64bits(f))
}

// hashNested hashes a comparable composite value consistently with ==.
// It never calls Interface, so unexported fields are fine.
func hashNested(rv reflect.Value) uint64 {
	if _, h, ok := hashBasic(rv); ok {
		return h
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return hashUint(tagPointer, uint64(rv.Pointer()))
	case reflect.Interface:
		if rv.IsNil() {
			return hashUint(tagNil, 0)
		}
		return hashNested(rv.Elem())
	case reflect.Array:
		hs := make([]uint64, rv.Len())
		for i := range hs {
			hs[i] = hashNested(rv.Index(i))
		}
		return hashUint(tagArray, combine(hs))
	case reflect.Struct:
		hs := make([]uint64, rv.NumField())
		for i := range hs {
			hs[i] = hashNested(rv.Field(i))
		}
		return hashUint(tagStruct, combine(hs))
	}
	return 0
}
