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

// Package rtc is a demonstration character-device driver for the
// real-time clock: a read-only device that hands back the wall-clock
// time. Concrete legacy drivers are treated as black boxes outside the
// core; this package exists only to give the device registry and VFS a
// real driver to publish and open.
//
// This driver takes a github.com/jacobsa/timeutil.Clock so it can be
// driven by a fake clock in tests.
package rtc

import (
	"encoding/binary"

	"github.com/jacobsa/timeutil"

	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// Driver reads back the current time as 8 little-endian bytes (Unix
// seconds). It exposes no Write: this device is registered read-only.
type Driver struct {
	clock timeutil.Clock
}

// New returns a Driver backed by clock.
func New(clock timeutil.Clock) *Driver {
	return &Driver{clock: clock}
}

// Ops returns the operation table to hand to device.Registry.RegisterChar.
func (d *Driver) Ops() vfs.FileOps {
	return vfs.FileOps{Read: d}
}

// Read implements vfs.Reader. Every read returns the current time,
// independent of f.Pos; the device has no notion of a byte stream to
// seek within.
func (d *Driver) Read(f *vfs.OpenFile, buf []byte) (int, error) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(d.clock.Now().Unix()))
	return copy(buf, tmp[:]), nil
}
