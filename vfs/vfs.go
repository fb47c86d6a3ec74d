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

package vfs

import (
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/guard"
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
	"github.com/sirupsen/logrus"
)

// DeviceResolver lets the device subsystem hand an open's file-operation
// table to the VFS without vfs importing the device package back
// (set_char_operations/set_block_operations, inverted into a small
// interface the device package implements and registers at boot, the way
// optional collaborators are wired in at boot rather than imported
// directly).
type DeviceResolver interface {
	ResolveCharOps(dev devid.ID) (FileOps, error)
	ResolveBlockOps(dev devid.ID) (FileOps, error)
}

// VFS is the top-level kernel object: the registries, the root dentry, and
// the public entry points the core exposes. Every
// public method brackets its registry mutations with a guard.
// CriticalSection, matching the single concurrency discipline the core assumes.
type VFS struct {
	cs *guard.CriticalSection

	fstypes     *fstypeRegistry
	superblocks *superblockRegistry
	dentries    *dentryCache
	vnodes      *vnodeCache
	openFiles   *intrusivelist.List[*OpenFile]

	rootDentry int // noParent (-1) until the first Mount("/", ...)

	devices DeviceResolver

	log *logrus.Logger
}

// New returns an empty VFS with no root mounted. log may be nil, in which
// case a disabled logger is used (always take a *logrus.Logger rather
// than the package-level default).
func New(log *logrus.Logger) *VFS {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel + 1) // effectively silent
	}

	return &VFS{
		cs:          guard.New(),
		fstypes:     newFstypeRegistry(),
		superblocks: newSuperblockRegistry(),
		dentries:    newDentryCache(),
		vnodes:      newVnodeCache(),
		openFiles:   intrusivelist.New[*OpenFile](),
		rootDentry:  noParent,
		log:         log,
	}
}

// RegisterFilesystem implements the two-step registration protocol for
// filesystem drivers.
func (v *VFS) RegisterFilesystem(name string, configure func(*FilesystemType) error) error {
	exit := v.cs.Enter(false)
	defer exit()

	err := v.fstypes.register(name, configure)
	if err != nil {
		v.log.WithField("fstype", name).WithError(err).Warn("register_filesystem failed")
	}
	return err
}

// SetDeviceResolver installs the device subsystem's operation-table
// provider. Must be called before any device-special file is opened;
// calling it is optional for a VFS that never mounts a device-backed
// filesystem.
func (v *VFS) SetDeviceResolver(r DeviceResolver) {
	exit := v.cs.Enter(false)
	defer exit()
	v.devices = r
}

func matchOpenFile(f *OpenFile, key any) bool {
	return f == key.(*OpenFile)
}

// CacheStats summarizes the live size of the caches a walker like kvfsck
// can use to check the invariant "v is in the cache iff v.v_count >= 1"
// without reaching into package-private state.
type CacheStats struct {
	Vnodes      int
	OpenFiles   int
	DentrySlots int
	DentryInUse int
	MountPoints int
	SuperBlocks int
}

// Stats reports the current occupancy of every registry the core owns.
func (v *VFS) Stats() CacheStats {
	exit := v.cs.Enter(false)
	defer exit()

	s := CacheStats{
		OpenFiles:   v.openFiles.Len(),
		DentrySlots: dentryCacheSize,
		SuperBlocks: v.superblocks.len(),
	}
	v.vnodes.entries.Each(func(*Vnode) bool { s.Vnodes++; return true })
	for i := range v.dentries.slots {
		d := &v.dentries.slots[i]
		if d.name == "" {
			continue
		}
		s.DentryInUse++
		if d.mountSB != nil {
			s.MountPoints++
		}
	}
	return s
}
