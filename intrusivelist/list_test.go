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

package intrusivelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct {
	name string
	n    int
}

func byName(v widget, key any) bool {
	return v.name == key.(string)
}

func TestAppendAndAt(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"a", 1})
	l.Append(widget{"b", 2})

	assert.Equal(t, 2, l.Len())

	v, ok := l.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v.name)

	_, ok = l.At(5)
	assert.False(t, ok)
}

func TestFindStopsAtFirstMatch(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"x", 1})
	l.Append(widget{"x", 2})

	v, ok := l.Find("x", byName)
	assert.True(t, ok)
	assert.Equal(t, 1, v.n)
}

func TestFindDeleteRemovesFirstMatch(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"a", 1})
	l.Append(widget{"b", 2})
	l.Append(widget{"b", 3})

	v, ok := l.FindDelete("b", byName)
	assert.True(t, ok)
	assert.Equal(t, 2, v.n)
	assert.Equal(t, 2, l.Len())

	v, ok = l.Find("b", byName)
	assert.True(t, ok)
	assert.Equal(t, 3, v.n)
}

func TestDeleteAtHeadThenTail(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"a", 1})
	l.Append(widget{"b", 2})
	l.Append(widget{"c", 3})

	v, ok := l.DeleteAt(0)
	assert.True(t, ok)
	assert.Equal(t, "a", v.name)

	v, ok = l.DeleteAt(1)
	assert.True(t, ok)
	assert.Equal(t, "c", v.name)
	assert.Equal(t, 1, l.Len())

	// Appending after deleting the tail must still work (tail pointer kept
	// consistent).
	l.Append(widget{"d", 4})
	v, ok = l.At(1)
	assert.True(t, ok)
	assert.Equal(t, "d", v.name)
}

func TestFindPos(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"a", 1})
	l.Append(widget{"b", 2})

	assert.Equal(t, 1, l.FindPos("b", byName))
	assert.Equal(t, -1, l.FindPos("z", byName))
}

func TestEachStopsEarly(t *testing.T) {
	l := New[widget]()
	l.Append(widget{"a", 1})
	l.Append(widget{"b", 2})
	l.Append(widget{"c", 3})

	var seen []string
	l.Each(func(v widget) bool {
		seen = append(seen, v.name)
		return v.name != "b"
	})

	assert.Equal(t, []string{"a", "b"}, seen)
}
