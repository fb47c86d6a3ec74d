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

package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNestedEnterExit(t *testing.T) {
	cs := New()
	assert.False(t, cs.Disabled())

	exit1 := cs.Enter(false)
	assert.True(t, cs.Disabled())

	exit2 := cs.Enter(false)
	assert.True(t, cs.Disabled())

	exit2()
	assert.True(t, cs.Disabled(), "still disabled: outer critical section active")

	exit1()
	assert.False(t, cs.Disabled())
}

func TestExitIsIdempotent(t *testing.T) {
	cs := New()
	exit := cs.Enter(false)
	exit()
	exit()
	assert.False(t, cs.Disabled())
}

func TestInHandlerSkipsReenable(t *testing.T) {
	cs := New()
	exit := cs.Enter(true)
	exit()
	assert.True(t, cs.Disabled(), "Exit from inside a handler must not re-enable interrupts")
}

func TestDispatcherTracksHandler(t *testing.T) {
	d := NewDispatcher()
	assert.False(t, d.InHandler())

	d.RunHandler(func() {
		assert.True(t, d.InHandler())
	})

	assert.False(t, d.InHandler())
}
