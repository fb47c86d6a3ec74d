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

// Package kernel wires the independent core packages (vfs, memfs, device)
// into a single boot sequence: create rootfs, mount it at "/", create
// devfs, mount it at "/dev", and register whatever character/block
// drivers the caller wants published. Both cmd/kvfsd and cmd/kvfsck share
// this package so neither binary duplicates the boot sequence.
package kernel

import (
	"github.com/sirupsen/logrus"

	"github.com/GoogleCloudPlatform/kvfs/device"
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/memfs"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// RootDev and DevfsDev are the synthetic device ids assigned to the two
// memfs instances every boot creates.
const (
	RootDev  devid.ID = 0x0001
	DevfsDev devid.ID = 0x0002
)

const devfsMount = "/dev"

// Kernel bundles the three core subsystems once Boot has wired them
// together: control flows top-down, data flows bottom-up on registration.
type Kernel struct {
	VFS     *vfs.VFS
	Memfs   *memfs.Memfs
	Devices *device.Registry
	Log     *logrus.Logger
}

// Boot creates and mounts rootfs at "/" and devfs at "/dev". It does not
// register any device driver itself, leaving that to
// RegisterChar/RegisterBlock so callers can choose which drivers to
// publish.
func Boot(log *logrus.Logger) (*Kernel, error) {
	v := vfs.New(log)
	mfs := memfs.New(v)
	devices := device.New(v)

	if err := mfs.Create("rootfs", RootDev, memfs.AllowDirs|memfs.AllowFiles); err != nil {
		return nil, errno.Wrap("boot", errno.CORRUPT, err)
	}
	if err := v.Mount(RootDev, "/", "rootfs"); err != nil {
		return nil, err
	}

	if err := v.Mkdir(devfsMount, filemode.Mode(0755)); err != nil {
		return nil, err
	}
	if err := mfs.Create("devfs", DevfsDev, memfs.AllowNodes); err != nil {
		return nil, errno.Wrap("boot", errno.CORRUPT, err)
	}
	if err := v.Mount(DevfsDev, devfsMount, "devfs"); err != nil {
		return nil, err
	}

	return &Kernel{VFS: v, Memfs: mfs, Devices: devices, Log: log}, nil
}
