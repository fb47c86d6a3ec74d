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

// Package device implements the char/block device registry: two
// independent tables keyed by device id, each driver publishing
// itself as a devfs entry and handing its operation table to the VFS the
// first time the corresponding vnode is opened.
//
// Registry implements the vfs.DeviceResolver interface so vfs.VFS never
// imports this package back.
package device

import (
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// devfsRoot is the conventional mount point device drivers publish under.
const devfsRoot = "/dev/"

// Descriptor is one registered driver: its device id, its devfs name,
// and the operation table the VFS hands to an opening file.
type Descriptor struct {
	Dev  devid.ID
	Name string
	Ops  vfs.FileOps
}

// Registry owns the char and block device tables. It implements
// vfs.DeviceResolver, and New wires it into v automatically.
type Registry struct {
	v     *vfs.VFS
	char  *intrusivelist.List[*Descriptor]
	block *intrusivelist.List[*Descriptor]
}

// New returns a Registry bound to v and installs it as v's device
// resolver.
func New(v *vfs.VFS) *Registry {
	r := &Registry{
		v:     v,
		char:  intrusivelist.New[*Descriptor](),
		block: intrusivelist.New[*Descriptor](),
	}
	v.SetDeviceResolver(r)
	return r
}

func matchDescriptorDev(d *Descriptor, key any) bool {
	return d.Dev == key.(devid.ID)
}

// devicePerm computes the permission bits a fresh devfs entry gets:
// user-read iff the driver's Read is non-nil, user-write iff its Write is
// non-nil.
func devicePerm(ops vfs.FileOps) filemode.Mode {
	var perm filemode.Mode
	if ops.Read != nil {
		perm |= filemode.UsrRead
	}
	if ops.Write != nil {
		perm |= filemode.UsrWrite
	}
	return perm
}

// RegisterChar implements register_char: allocate a
// descriptor, then publish it under devfs; on failure to publish, the
// descriptor is removed again.
func (r *Registry) RegisterChar(dev devid.ID, name string, ops vfs.FileOps) error {
	if _, ok := r.char.Find(dev, matchDescriptorDev); ok {
		return errno.New("register_char", errno.BUSY)
	}

	desc := &Descriptor{Dev: dev, Name: name, Ops: ops}
	r.char.Append(desc)

	mode := filemode.New(filemode.TypeCharDevice, devicePerm(ops))
	if err := r.v.Mknod(devfsRoot+name, mode, dev); err != nil {
		r.char.FindDelete(dev, matchDescriptorDev)
		return err
	}

	return nil
}

// RegisterBlock is RegisterChar's block-device counterpart.
func (r *Registry) RegisterBlock(dev devid.ID, name string, ops vfs.FileOps) error {
	if _, ok := r.block.Find(dev, matchDescriptorDev); ok {
		return errno.New("register_block", errno.BUSY)
	}

	desc := &Descriptor{Dev: dev, Name: name, Ops: ops}
	r.block.Append(desc)

	mode := filemode.New(filemode.TypeBlockDevice, devicePerm(ops))
	if err := r.v.Mknod(devfsRoot+name, mode, dev); err != nil {
		r.block.FindDelete(dev, matchDescriptorDev)
		return err
	}

	return nil
}

// UnregisterChar implements unregister_char. There is
// no VFS delete primitive, so the devfs dentry itself is left in place;
// removing the descriptor is enough to make the invariant hold in
// practice, since ResolveCharOps subsequently fails with E_NODEV and no
// new file can be opened against the stale entry.
func (r *Registry) UnregisterChar(dev devid.ID) error {
	if _, ok := r.char.FindDelete(dev, matchDescriptorDev); !ok {
		return errno.New("unregister_char", errno.NODEV)
	}
	return nil
}

// UnregisterBlock is UnregisterChar's block-device counterpart.
func (r *Registry) UnregisterBlock(dev devid.ID) error {
	if _, ok := r.block.FindDelete(dev, matchDescriptorDev); !ok {
		return errno.New("unregister_block", errno.NODEV)
	}
	return nil
}

// LookupChar implements lookup_char.
func (r *Registry) LookupChar(dev devid.ID) (*Descriptor, bool) {
	return r.char.Find(dev, matchDescriptorDev)
}

// LookupBlock implements lookup_block.
func (r *Registry) LookupBlock(dev devid.ID) (*Descriptor, bool) {
	return r.block.Find(dev, matchDescriptorDev)
}

// ResolveCharOps implements vfs.DeviceResolver, fulfilling
// set_char_operations on behalf of the VFS.
func (r *Registry) ResolveCharOps(dev devid.ID) (vfs.FileOps, error) {
	d, ok := r.char.Find(dev, matchDescriptorDev)
	if !ok {
		return vfs.FileOps{}, errno.New("set_char_operations", errno.NODEV)
	}
	return d.Ops, nil
}

// ResolveBlockOps implements vfs.DeviceResolver, fulfilling
// set_block_operations on behalf of the VFS.
func (r *Registry) ResolveBlockOps(dev devid.ID) (vfs.FileOps, error) {
	d, ok := r.block.Find(dev, matchDescriptorDev)
	if !ok {
		return vfs.FileOps{}, errno.New("set_block_operations", errno.NODEV)
	}
	return d.Ops, nil
}
