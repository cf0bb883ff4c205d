//go:build go1.18

/*
Copyright 2022 Vimeo Inc.

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

// root is the reserved sentinel slot. It never holds a value; root.next
// is the most recently used element and root.prev the least.
const root int32 = 0

// linkedList is a circular doubly linked list whose elements live in a
// slice and refer to each other by index, so that the LRU stack costs no
// per-element heap objects and no element ever points at another.
// Used for the LRU stack in TypedCache.
type linkedList[T any] struct {
	elems []llElem[T]
	free  []int32
	size  int
}

type llElem[T any] struct {
	next, prev int32
	value      T
}

func (l *linkedList[T]) init(capHint int) {
	l.elems = make([]llElem[T], 1, capHint+1)
	l.free = nil
	l.size = 0
}

func (l *linkedList[T]) lazyInit() {
	if l.elems == nil {
		l.init(0)
	}
}

// link places the element at i directly after root.
func (l *linkedList[T]) link(i int32) {
	oldFirst := l.elems[root].next
	l.elems[i].prev = root
	l.elems[i].next = oldFirst
	l.elems[oldFirst].prev = i
	l.elems[root].next = i
}

func (l *linkedList[T]) unlink(i int32) {
	e := &l.elems[i]
	l.elems[e.prev].next = e.next
	l.elems[e.next].prev = e.prev
}

// PushFront stores val in a fresh or recycled slot at the front of the
// list and returns the slot's index.
func (l *linkedList[T]) PushFront(val T) int32 {
	l.lazyInit()
	var i int32
	if n := len(l.free); n > 0 {
		i = l.free[n-1]
		l.free = l.free[:n-1]
		l.elems[i].value = val
	} else {
		l.elems = append(l.elems, llElem[T]{value: val})
		i = int32(len(l.elems) - 1)
	}
	l.link(i)
	l.size++
	return i
}

func (l *linkedList[T]) MoveToFront(i int32) {
	if l.elems[root].next == i {
		// nothing to do
		return
	}
	l.unlink(i)
	l.link(i)
}

// Remove unlinks the element at i and recycles its slot, returning the
// value it held.
func (l *linkedList[T]) Remove(i int32) T {
	l.unlink(i)
	val := l.elems[i].value
	l.elems[i] = llElem[T]{}
	l.free = append(l.free, i)
	l.size--
	return val
}

// At returns a pointer to the value stored at i. The pointer is only
// valid until the next PushFront.
func (l *linkedList[T]) At(i int32) *T {
	return &l.elems[i].value
}

func (l *linkedList[T]) Len() int {
	return l.size
}

// Front returns the index of the most recently used element, or root
// when the list is empty.
func (l *linkedList[T]) Front() int32 {
	if l.size == 0 {
		return root
	}
	return l.elems[root].next
}

// Back returns the index of the least recently used element, or root
// when the list is empty.
func (l *linkedList[T]) Back() int32 {
	if l.size == 0 {
		return root
	}
	return l.elems[root].prev
}

// Next returns the index following i, towards the back of the list.
// It returns root past the last element.
func (l *linkedList[T]) Next(i int32) int32 {
	return l.elems[i].next
}
