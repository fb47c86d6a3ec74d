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

// Package urandom is a third demonstration character-device driver: a
// read-only, unbounded stream of pseudo-random bytes, in the tradition of
// /dev/urandom. Like devices/rtc and devices/serial it is a black-box
// driver; it exists to give the device registry a third, differently
// shaped Read to publish.
package urandom

import (
	"github.com/google/uuid"

	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// Driver draws entropy from successive UUIDs rather than holding any
// CSPRNG state; its only state is the pool of drawn bytes not yet handed
// out. Tag is
// an instance id generated at construction, so multiple /dev/urandom-like
// instances in the same process are distinguishable in logs.
type Driver struct {
	Tag uuid.UUID

	pool []byte
}

// New returns a Driver tagged with a freshly generated instance id.
func New() *Driver {
	return &Driver{Tag: uuid.New()}
}

// Ops returns the operation table to hand to device.Registry.RegisterChar.
// Write is deliberately absent: the devfs permission bits are derived
// from which operations are non-nil, so this publishes read-only.
func (d *Driver) Ops() vfs.FileOps {
	return vfs.FileOps{Read: d}
}

func (d *Driver) refill(n int) {
	for len(d.pool) < n {
		id := uuid.New()
		d.pool = append(d.pool, id[:]...)
	}
}

// Read implements vfs.Reader: it hands back len(buf) bytes drawn from
// successive UUIDs, consuming the pool so repeated reads never repeat
// bytes already handed out. f.Pos is not advanced, matching rtc and
// memfs regular files rather than serial: a stream device with no
// notion of position sits closer to the former.
func (d *Driver) Read(f *vfs.OpenFile, buf []byte) (int, error) {
	d.refill(len(buf))
	n := copy(buf, d.pool)
	d.pool = d.pool[n:]
	return n, nil
}
