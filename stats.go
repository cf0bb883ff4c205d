/*
Copyright 2012 Google Inc.

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
	"strconv"
	"sync/atomic"
)

// An AtomicInt is an int64 to be accessed atomically.
type AtomicInt int64

// Add atomically adds n to i.
func (i *AtomicInt) Add(n int64) {
	atomic.AddInt64((*int64)(i), n)
}

// Get atomically gets the value of i.
func (i *AtomicInt) Get() int64 {
	return atomic.LoadInt64((*int64)(i))
}

// Store atomically sets i to n.
func (i *AtomicInt) Store(n int64) {
	atomic.StoreInt64((*int64)(i), n)
}

func (i *AtomicInt) String() string {
	return strconv.FormatInt(i.Get(), 10)
}

// Stats is a point-in-time snapshot of a cache, returned by Cache.Stats.
type Stats struct {
	Hits   int64
	Misses int64
	// Capacity is the configured bound, Disabled or Unbounded.
	Capacity Capacity
	// Size is the number of results currently held.
	Size int64
	// Evictions counts entries displaced to make room for new ones since
	// the last Clear.
	Evictions int64
}

// MaxSize returns the entry bound, and false for an unbounded cache.
func (s Stats) MaxSize() (int, bool) {
	if s.Capacity == Unbounded {
		return 0, false
	}
	return int(s.Capacity), true
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats(hits=%d, misses=%d, maxsize=%s, currsize=%d)", s.Hits, s.Misses, s.Capacity, s.Size)
}
