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

package kernel

import (
	"github.com/GoogleCloudPlatform/kvfs/clock"
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/devices/rtc"
	"github.com/GoogleCloudPlatform/kvfs/devices/serial"
	"github.com/GoogleCloudPlatform/kvfs/devices/urandom"
)

// RTCDev, SerialDev and URandomDev are the device ids assigned to the
// demonstration rtc driver (major 13, minor 17), a conventional first
// serial port, and the pseudo-random byte stream.
var (
	RTCDev     = devid.Pack(13, 17)
	SerialDev  = devid.Pack(4, 64)
	URandomDev = devid.Pack(1, 9)
)

const (
	serialRxCap = 256
	serialTxCap = 256
)

// RegisterDemoDevices publishes three black-box drivers: a read-only
// rtc, a read/write/ioctl serial port, and a read-only urandom stream,
// and returns the serial driver. It exists so cmd/kvfsd's "boot" and cmd/kvfsck's walk
// exercise the exact same device registry path without either owning
// driver construction.
func (k *Kernel) RegisterDemoDevices() (*serial.Driver, error) {
	rtcDrv := rtc.New(clock.RealClock{})
	if err := k.Devices.RegisterChar(RTCDev, "rtc", rtcDrv.Ops()); err != nil {
		return nil, err
	}

	serialDrv := serial.New(serialRxCap, serialTxCap)
	if err := k.Devices.RegisterChar(SerialDev, "ttyS0", serialDrv.Ops()); err != nil {
		return nil, err
	}

	urandomDrv := urandom.New()
	if err := k.Devices.RegisterChar(URandomDev, "urandom", urandomDrv.Ops()); err != nil {
		return nil, err
	}

	return serialDrv, nil
}
