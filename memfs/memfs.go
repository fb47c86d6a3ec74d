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

// Package memfs implements the in-memory filesystem driver: a small
// fixed table of independent instances, each backing a tree of nodes and
// directory entries held entirely in Go memory. One instance typically
// serves as the initial root filesystem, another as devfs.
package memfs

import (
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// maxInstances bounds the number of simultaneously live memfs instances.
const maxInstances = 5

// Flags gate which inode operations a memfs instance exposes on its
// directories.
type Flags uint8

const (
	AllowDirs Flags = 1 << iota
	AllowFiles
	AllowNodes
)

// Memfs owns the fixed instance table and the *vfs.VFS each instance
// registers its filesystem type against.
type Memfs struct {
	v     *vfs.VFS
	slots [maxInstances]*instance
}

// New returns a Memfs bound to v. Every instance Create produces
// registers itself with v.
func New(v *vfs.VFS) *Memfs {
	return &Memfs{v: v}
}

type instance struct {
	name    string
	dev     devid.ID
	flags   Flags
	nodes   *intrusivelist.List[*node]
	lastIno int
	rootIno int
}

// Create implements the instance lifecycle: allocate the first
// free table slot, build a root directory node, and register a matching
// filesystem type whose get_sb/kill_sb bind and release this instance.
func (m *Memfs) Create(name string, dev devid.ID, flags Flags) error {
	for _, s := range m.slots {
		if s != nil && s.dev == dev {
			return errno.New("memfs_create", errno.EXIST)
		}
	}

	slot := -1
	for i, s := range m.slots {
		if s == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		return errno.New("memfs_create", errno.LIMIT)
	}

	inst := &instance{
		name:  name,
		dev:   dev,
		flags: flags,
		nodes: intrusivelist.New[*node](),
	}
	root := inst.allocNode(filemode.New(filemode.TypeDirectory, 0755), devid.None)
	inst.rootIno = root.ino

	m.slots[slot] = inst

	err := m.v.RegisterFilesystem(name, func(t *vfs.FilesystemType) error {
		t.GetSB = func(sb *vfs.SuperBlock) error {
			return inst.getSB(sb)
		}
		t.KillSB = func(sb *vfs.SuperBlock) error {
			m.slots[slot] = nil
			return nil
		}
		return nil
	})
	if err != nil {
		m.slots[slot] = nil
		return err
	}

	return nil
}

// getSB wires the super-block's operation table to this instance. Only
// ReadVnode is meaningful for a pure in-memory filesystem: there is no
// write-back step, so WriteVnode/DeleteVnode stay nil, and mounting
// requires no setup beyond what GetSB already did, so Mount/Unmount stay
// nil too.
func (inst *instance) getSB(sb *vfs.SuperBlock) error {
	sb.Private = inst
	sb.RootVno = inst.rootIno
	sb.Ops = vfs.SuperBlockOps{
		ReadVnode:    inst.readVnode,
		DestroyVnode: nil,
	}
	return nil
}

func matchNodeIno(n *node, key any) bool {
	return n.ino == key.(int)
}

// readVnode implements read_vnode: look up the node by inode
// number and wire the operation table appropriate to its file type.
func (inst *instance) readVnode(sb *vfs.SuperBlock, v *vfs.Vnode) error {
	n, ok := inst.nodes.Find(v.Vno, matchNodeIno)
	if !ok {
		return errno.New("read_vnode", errno.NOENT)
	}

	v.Mode = n.mode
	v.Size = n.size
	v.Dev = n.dev
	v.Private = n

	switch n.mode.Type() {
	case filemode.TypeDirectory:
		v.Iops.Lookup = n
		if inst.flags&AllowDirs != 0 {
			v.Iops.Mkdir = n
		}
		if inst.flags&AllowFiles != 0 {
			v.Iops.Create = n
		}
		if inst.flags&AllowNodes != 0 {
			v.Iops.Mknod = n
		}
		v.Fops.Open = n
		v.Fops.Release = n
		v.Fops.Flush = n
		v.Fops.Readdir = n
	case filemode.TypeRegular:
		v.Fops.Open = n
		v.Fops.Release = n
		v.Fops.Flush = n
		v.Fops.Read = n
		v.Fops.Write = n
	default:
		// Device-special and other types: the VFS substitutes the
		// driver's own operation table on open.
	}

	return nil
}
