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

package memfs

import (
	"io"

	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// dirent is one directory entry: a name pointing at an inode number
// within the owning node's child list.
type dirent struct {
	name string
	ino  int
}

func matchDirentName(d *dirent, key any) bool {
	return d.name == key.(string)
}

// node is memfs's in-memory inode. It implements every vfs capability
// interface directly; readVnode decides which of those methods actually
// get wired onto a given vnode's operation tables based on the node's
// file type and the owning instance's flags.
type node struct {
	ino      int
	mode     filemode.Mode
	size     int64
	dev      devid.ID
	data     []byte
	dentries *intrusivelist.List[*dirent]
	super    *instance
}

// allocNode implements alloc_node: a fresh node with the
// next inode number, zero size, no data, and an empty dentry list.
func (inst *instance) allocNode(mode filemode.Mode, dev devid.ID) *node {
	inst.lastIno++
	n := &node{
		ino:      inst.lastIno,
		mode:     mode,
		dev:      dev,
		super:    inst,
		dentries: intrusivelist.New[*dirent](),
	}
	inst.nodes.Append(n)
	return n
}

// Lookup implements vfs.Lookuper: a linear scan of n's children for a
// name match (lookup).
func (n *node) Lookup(dir *vfs.Vnode, dentry *vfs.Dentry) error {
	d, ok := n.dentries.Find(dentry.Name(), matchDirentName)
	if !ok {
		return errno.New("lookup", errno.NOENT)
	}
	dentry.Resolve(d.ino)
	return nil
}

// Create implements vfs.Creator as mknod with no device id.
func (n *node) Create(dir *vfs.Vnode, dentry *vfs.Dentry, mode filemode.Mode) error {
	return n.mknod(dentry, mode, devid.None)
}

// Mkdir implements vfs.Mkdirer as mknod with no device id.
func (n *node) Mkdir(dir *vfs.Vnode, dentry *vfs.Dentry, mode filemode.Mode) error {
	return n.mknod(dentry, mode, devid.None)
}

// Mknod implements vfs.Mknoder.
func (n *node) Mknod(dir *vfs.Vnode, dentry *vfs.Dentry, mode filemode.Mode, dev devid.ID) error {
	return n.mknod(dentry, mode, dev)
}

// mknod implements shared mknod/mkdir/create body: allocate a
// node and a dentry, then write the new ino back into the VFS dentry.
func (n *node) mknod(dentry *vfs.Dentry, mode filemode.Mode, dev devid.ID) error {
	child := n.super.allocNode(mode, dev)
	n.dentries.Append(&dirent{name: dentry.Name(), ino: child.ino})
	dentry.Resolve(child.ino)
	return nil
}

// Open implements vfs.Opener: memfs needs no per-open setup.
func (n *node) Open(v *vfs.Vnode, f *vfs.OpenFile) error { return nil }

// Release implements vfs.Releaser: nothing to tear down.
func (n *node) Release(v *vfs.Vnode, f *vfs.OpenFile) error { return nil }

// Flush implements vfs.Flusher: writes are already visible once made.
func (n *node) Flush(f *vfs.OpenFile) error { return nil }

// Read implements vfs.Reader: clamps to EOF, copies bytes, and does not
// advance f.Pos.
func (n *node) Read(f *vfs.OpenFile, buf []byte) (int, error) {
	off := f.Pos
	if off >= n.size {
		return 0, nil
	}

	count := int64(len(buf))
	if off+count > n.size {
		count = n.size - off
	}

	return copy(buf[:count], n.data[off:]), nil
}

// Write implements vfs.Writer: append-extending, never sparse, and like
// Read, does not advance f.Pos.
func (n *node) Write(f *vfs.OpenFile, buf []byte) (int, error) {
	off := f.Pos
	count := int64(len(buf))

	if off+count > n.size {
		grown := make([]byte, off+count)
		copy(grown, n.data)
		n.data = grown
		n.size = off + count
		f.Vnode.Size = n.size
	}

	copy(n.data[off:off+count], buf)
	return len(buf), nil
}

// Readdir implements vfs.Readdirer: the entry at index f.Pos, then
// advances f.Pos; io.EOF once exhausted.
func (n *node) Readdir(f *vfs.OpenFile) (string, error) {
	d, ok := n.dentries.At(int(f.Pos))
	if !ok {
		return "", io.EOF
	}
	f.Pos++
	return d.name, nil
}
