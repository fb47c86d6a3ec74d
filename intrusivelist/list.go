// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package intrusivelist implements the singly-linked list that backs every
// registry in the kernel core: the device tables, the filesystem-type
// registry, the super-block registry, and memfs's per-instance node and
// dentry lists. Values are owned by the caller; only the wrapping nodes are
// owned by the list.
package intrusivelist

// Matcher compares the stored value against an opaque search key, returning
// true for a match. Implementations receive the stored value directly, not
// the node wrapping it.
type Matcher[T any] func(value T, key any) bool

type node[T any] struct {
	value T
	next  *node[T]
}

// List is a value container polymorphic over T. Append is O(1) through a
// tail pointer; index access and the Find family are O(n), which is
// accepted because every registry built on List is bounded to tens or low
// hundreds of entries.
type List[T any] struct {
	head *node[T]
	tail *node[T]
	len  int
}

// New returns an empty list. The zero value of List is also ready to use;
// New exists for call-site symmetry with the rest of the package.
func New[T any]() *List[T] {
	return &List[T]{}
}

// Len reports the number of values currently in the list.
func (l *List[T]) Len() int {
	return l.len
}

// Append adds value to the end of the list.
func (l *List[T]) Append(value T) {
	n := &node[T]{value: value}
	if l.tail == nil {
		l.head = n
		l.tail = n
	} else {
		l.tail.next = n
		l.tail = n
	}
	l.len++
}

// At returns the value at the given zero-based index.
func (l *List[T]) At(index int) (value T, ok bool) {
	i := 0
	for n := l.head; n != nil; n = n.next {
		if i == index {
			return n.value, true
		}
		i++
	}
	return value, false
}

// DeleteAt removes and returns the value at the given zero-based index,
// without freeing or otherwise touching the value itself.
func (l *List[T]) DeleteAt(index int) (value T, ok bool) {
	var prev *node[T]
	i := 0
	for n := l.head; n != nil; n = n.next {
		if i == index {
			l.unlink(prev, n)
			return n.value, true
		}
		prev = n
		i++
	}
	return value, false
}

// Find returns the first value for which match reports true, scanning from
// the head and stopping at the first hit.
func (l *List[T]) Find(key any, match Matcher[T]) (value T, ok bool) {
	for n := l.head; n != nil; n = n.next {
		if match(n.value, key) {
			return n.value, true
		}
	}
	return value, false
}

// FindPos returns the index of the first value for which match reports
// true, or -1 if none match.
func (l *List[T]) FindPos(key any, match Matcher[T]) int {
	i := 0
	for n := l.head; n != nil; n = n.next {
		if match(n.value, key) {
			return i
		}
		i++
	}
	return -1
}

// FindDelete removes the first value for which match reports true and
// returns it. The node is freed; the value is handed back to the caller,
// who owns any further cleanup.
func (l *List[T]) FindDelete(key any, match Matcher[T]) (value T, ok bool) {
	var prev *node[T]
	for n := l.head; n != nil; n = n.next {
		if match(n.value, key) {
			l.unlink(prev, n)
			return n.value, true
		}
		prev = n
	}
	return value, false
}

// Each calls fn for every value in the list, in order, stopping early if fn
// returns false.
func (l *List[T]) Each(fn func(value T) bool) {
	for n := l.head; n != nil; n = n.next {
		if !fn(n.value) {
			return
		}
	}
}

func (l *List[T]) unlink(prev, n *node[T]) {
	if prev == nil {
		l.head = n.next
	} else {
		prev.next = n.next
	}
	if n == l.tail {
		l.tail = prev
	}
	l.len--
}
