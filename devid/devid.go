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

// Package devid implements dev_t: the 16-bit (major, minor) device id
// packed as (major << 8) | minor. Zero is the "no device" sentinel used on
// non-device files.
package devid

import "fmt"

// ID is a packed 16-bit device id.
type ID uint16

// None is the sentinel device id for files that are not device-special.
const None ID = 0

// Pack combines a major and minor number into a device id.
func Pack(major, minor byte) ID {
	return ID(uint16(major)<<8 | uint16(minor))
}

// Major returns the high byte.
func (d ID) Major() byte {
	return byte(d >> 8)
}

// Minor returns the low byte.
func (d ID) Minor() byte {
	return byte(d)
}

func (d ID) String() string {
	return fmt.Sprintf("(%d,%d)", d.Major(), d.Minor())
}
