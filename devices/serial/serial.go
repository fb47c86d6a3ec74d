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

// Package serial is a demonstration character-device driver for a UART,
// modeled as the example of a driver that busy-waits on a ring buffer
// fed by a hardware interrupt. Concrete legacy drivers are treated as
// black boxes; this package exists to give the core something real to
// read from and write to, and to demonstrate a driver that advances
// f_pos itself rather than leaving the offset to the caller.
package serial

import (
	"golang.org/x/sys/unix"

	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// ioctlGetBaud is this driver's only ioctl, numbered in the TCGETS-style
// command space to mirror a real termios-speaking UART driver.
const ioctlGetBaud = 0x5401

// Driver is a byte-oriented ring buffer standing in for UART hardware.
// Feed simulates the receive interrupt handler; Read busy-waits for at
// least one byte, the way a real serial read loop waits on a ring
// buffer populated by a hardware interrupt.
type Driver struct {
	rx   chan byte
	tx   chan byte
	baud uint32
}

// New returns a Driver with the given receive/transmit ring capacities.
func New(rxCap, txCap int) *Driver {
	return &Driver{
		rx:   make(chan byte, rxCap),
		tx:   make(chan byte, txCap),
		baud: uint32(unix.B9600),
	}
}

// Ops returns the operation table to hand to device.Registry.RegisterChar.
func (d *Driver) Ops() vfs.FileOps {
	return vfs.FileOps{Read: d, Write: d, Ioctl: d}
}

// Feed simulates the hardware interrupt handler depositing a received
// byte into the ring buffer. It blocks if the buffer is full, matching a
// real UART dropping or back-pressuring on overrun.
func (d *Driver) Feed(b byte) {
	d.rx <- b
}

// Transmitted drains and returns every byte a prior Write sent to the
// wire, for tests to observe what the driver would have transmitted.
func (d *Driver) Transmitted() []byte {
	out := make([]byte, 0, len(d.tx))
	for {
		select {
		case b := <-d.tx:
			out = append(out, b)
		default:
			return out
		}
	}
}

// Read implements vfs.Reader: it blocks for the first byte, then drains
// whatever else is already buffered without blocking further, and
// advances f.Pos by the number of bytes returned.
func (d *Driver) Read(f *vfs.OpenFile, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	buf[0] = <-d.rx
	n := 1

	for n < len(buf) {
		select {
		case b := <-d.rx:
			buf[n] = b
			n++
		default:
			f.Pos += int64(n)
			return n, nil
		}
	}

	f.Pos += int64(n)
	return n, nil
}

// Write implements vfs.Writer: every byte is queued for transmission,
// dropped if the transmit ring is full (matching UART overrun rather
// than blocking the caller), and f.Pos advances by the full count.
func (d *Driver) Write(f *vfs.OpenFile, buf []byte) (int, error) {
	for _, b := range buf {
		select {
		case d.tx <- b:
		default:
		}
	}
	f.Pos += int64(len(buf))
	return len(buf), nil
}

// Ioctl implements vfs.Ioctler: the only supported command reports the
// configured baud rate.
func (d *Driver) Ioctl(f *vfs.OpenFile, cmd uintptr, arg uintptr) (uintptr, error) {
	if cmd != ioctlGetBaud {
		return 0, errno.New("ioctl", errno.NOTIMP)
	}
	return uintptr(d.baud), nil
}
