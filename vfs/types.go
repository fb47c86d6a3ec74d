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

// Package vfs implements the top layer of the kernel core: the
// filesystem-type registry, the super-block registry, the dentry and vnode
// caches, the open-file registry, and the public entry points (Mount, Stat,
// Mkdir, Mknod, Open, Read, Write, Lseek, Close, Unmount). It orchestrates
// path resolution and delegates to whatever concrete filesystem driver
// (memfs, in this repository) backs each mounted super-block.
//
// A single struct owns an inode table and a handle table behind one
// lock, generalized from one backing store to any number of mounted
// super-blocks.
package vfs

import (
	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
)

// OpenFlags mirror the O_* flags passed to Open.
type OpenFlags uint32

const (
	ORead OpenFlags = 1 << iota
	OWrite
	OCreate
	OExcl
	OTrunc
)

func (f OpenFlags) Has(bit OpenFlags) bool { return f&bit != 0 }

// FilesystemType represents a driver capable of constructing super-blocks,
// identified by a name unique across the process ("Filesystem
// type"). Registration is two-step: Register allocates the record,
// then invokes a configure callback that must set GetSB and KillSB.
type FilesystemType struct {
	Name string

	// GetSB binds a freshly allocated super-block to this type: it must
	// fill in sb.Ops and may set sb.Private.
	GetSB func(sb *SuperBlock) error

	// KillSB releases all driver resources attached to sb.
	KillSB func(sb *SuperBlock) error
}

// SuperBlockOps is the operation table a filesystem driver installs on a
// super-block from within GetSB. ReadVnode is required; DestroyVnode,
// WriteVnode, DeleteVnode, Mount and Unmount are optional (nil means
// unsupported or nothing to do).
type SuperBlockOps struct {
	ReadVnode    func(sb *SuperBlock, v *Vnode) error
	DestroyVnode func(sb *SuperBlock, v *Vnode)
	WriteVnode   func(sb *SuperBlock, v *Vnode) error
	DeleteVnode  func(sb *SuperBlock, v *Vnode) error
	Mount        func(sb *SuperBlock) error
	Unmount      func(sb *SuperBlock) error
}

// SuperBlock represents one mounted (or about to be mounted) filesystem
// instance, keyed by a device id unique across the super-block registry
// ("Super-block").
type SuperBlock struct {
	Dev        devid.ID
	BlockSize  int
	Blocks     int
	MaxFileLen int
	Dirty      bool
	Mounted    bool
	RootVno    int

	FSType    *FilesystemType
	MountedAt *Dentry // the dentry this super-block is mounted on, if any

	Ops SuperBlockOps

	// Private is the driver's payload, set by GetSB.
	Private any
}

// InodeOps is the capability set a directory vnode may expose. Each field
// is a single-method interface; a nil field means the operation is
// unsupported, exactly like the optional fields in "Vnode"
// inode-operation table. Concrete filesystem drivers populate these by
// assigning the backing node itself, which implements whichever of the
// Lookuper/Creator/Mkdirer/Mknoder interfaces it supports.
type InodeOps struct {
	Lookup Lookuper
	Create Creator
	Mkdir  Mkdirer
	Mknod  Mknoder
}

type Lookuper interface {
	Lookup(dir *Vnode, dentry *Dentry) error
}

type Creator interface {
	Create(dir *Vnode, dentry *Dentry, mode filemode.Mode) error
}

type Mkdirer interface {
	Mkdir(dir *Vnode, dentry *Dentry, mode filemode.Mode) error
}

type Mknoder interface {
	Mknod(dir *Vnode, dentry *Dentry, mode filemode.Mode, dev devid.ID) error
}

// FileOps is the capability set an open file may expose. As with
// InodeOps, a nil field means unsupported; Open/Read/Write are required
// only for the corresponding O_* flag.
type FileOps struct {
	Open    Opener
	Release Releaser
	Flush   Flusher
	Read    Reader
	Write   Writer
	Lseek   Lseeker
	Ioctl   Ioctler
	Readdir Readdirer
}

type Opener interface {
	Open(v *Vnode, f *OpenFile) error
}

type Releaser interface {
	Release(v *Vnode, f *OpenFile) error
}

type Flusher interface {
	Flush(f *OpenFile) error
}

// Reader's Read is responsible for advancing f.Pos itself when the
// driver wants that behavior: memfs's regular-file read does not advance
// f_pos (repeated reads return the same bytes unless the caller seeks),
// while the serial driver's read does. The core never advances f.Pos on
// the driver's behalf.
type Reader interface {
	Read(f *OpenFile, buf []byte) (n int, err error)
}

type Writer interface {
	Write(f *OpenFile, buf []byte) (n int, err error)
}

type Lseeker interface {
	Lseek(f *OpenFile, offset int64, whence int) (newPos int64, err error)
}

type Ioctler interface {
	Ioctl(f *OpenFile, cmd uintptr, arg uintptr) (uintptr, error)
}

type Readdirer interface {
	Readdir(f *OpenFile) (name string, err error)
}

// Vnode is the in-memory view of one filesystem object, identified by the
// pair (SB, Vno) ("Vnode").
type Vnode struct {
	Vno  int
	SB   *SuperBlock
	Mode filemode.Mode
	Size int64
	Dev  devid.ID

	Iops InodeOps
	Fops FileOps

	Private any

	count int
}

// OpenFile is one opening of a vnode ("Open file").
type OpenFile struct {
	Pos   int64
	Flags OpenFlags
	Fops  FileOps
	Vnode *Vnode

	Private any
	count   int
}

// Stat is the result of a Stat call: enough of a vnode's metadata to
// report a vnode's metadata without exposing the vnode cache entry
// itself.
type Stat struct {
	Ino  int
	Mode filemode.Mode
	Size int64
	Dev  devid.ID
}
