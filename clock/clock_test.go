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

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedClockHoldsStillUntilMoved(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewSimulatedClock(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start, c.Now(), "time must not move on its own")

	c.AdvanceTime(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())
}

func TestSimulatedClockAfterFiresWhenDeadlineReached(t *testing.T) {
	c := NewSimulatedClock(time.Unix(1000, 0))
	ch := c.After(10 * time.Second)

	select {
	case <-ch:
		t.Fatal("timer fired before the simulated time reached its deadline")
	default:
	}

	c.AdvanceTime(9 * time.Second)
	select {
	case <-ch:
		t.Fatal("timer fired one second early")
	default:
	}

	c.AdvanceTime(time.Second)
	select {
	case got := <-ch:
		assert.Equal(t, time.Unix(1010, 0), got)
	default:
		t.Fatal("timer did not fire at its deadline")
	}
}

func TestSimulatedClockAfterNonPositiveFiresImmediately(t *testing.T) {
	c := NewSimulatedClock(time.Unix(1000, 0))
	select {
	case got := <-c.After(0):
		require.Equal(t, time.Unix(1000, 0), got)
	default:
		t.Fatal("non-positive After must fire immediately")
	}
}
