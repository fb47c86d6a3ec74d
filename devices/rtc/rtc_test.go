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

package rtc_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/clock"
	"github.com/GoogleCloudPlatform/kvfs/devices/rtc"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

func TestReadReturnsCurrentUnixTime(t *testing.T) {
	fc := &clock.SimulatedClock{}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fc.SetTime(want)

	d := rtc.New(fc)
	buf := make([]byte, 8)
	n, err := d.Read(&vfs.OpenFile{}, buf)
	require.NoError(t, err)
	require.Equal(t, 8, n)

	got := int64(binary.LittleEndian.Uint64(buf))
	require.Equal(t, want.Unix(), got)
}

func TestReadTruncatesToShortBuffer(t *testing.T) {
	d := rtc.New(&clock.SimulatedClock{})
	buf := make([]byte, 3)
	n, err := d.Read(&vfs.OpenFile{}, buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}
