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
	"io"

	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
)

// Stat implements stat(path).
func (v *VFS) Stat(path string) (Stat, error) {
	exit := v.cs.Enter(false)
	defer exit()

	idx, err := v.lookupLocked(path)
	if err != nil {
		return Stat{}, err
	}

	sb, vno := v.nodeFromDentry(idx)
	vn, err := v.vnodes.getOrRead(sb, vno)
	if err != nil {
		return Stat{}, errno.Wrap("stat", errno.CORRUPT, err)
	}
	defer v.vnodes.release(vn)

	return Stat{Ino: vn.Vno, Mode: vn.Mode, Size: vn.Size, Dev: vn.Dev}, nil
}

// Mkdir implements mkdir(path, mode): only the permission
// bits of mode are honored, the type is forced to directory.
func (v *VFS) Mkdir(path string, mode filemode.Mode) error {
	exit := v.cs.Enter(false)
	defer exit()

	_, err := v.createNode(path, filemode.New(filemode.TypeDirectory, mode.Perm()), devid.None)
	return err
}

// Mknod implements mknod(path, mode, dev): mode's type
// selects char/block/fifo/socket.
func (v *VFS) Mknod(path string, mode filemode.Mode, dev devid.ID) error {
	exit := v.cs.Enter(false)
	defer exit()

	_, err := v.createNode(path, mode, dev)
	return err
}

// resolveDeviceOps substitutes the vnode's operation table with the one
// the device subsystem hands back for dev (set_char_operations /
// set_block_operations). A vnode whose mode is not device-special is
// left untouched.
func (v *VFS) resolveDeviceOps(vn *Vnode) error {
	if !vn.Mode.IsDevice() {
		return nil
	}
	if v.devices == nil {
		return errno.New("open", errno.NODEV)
	}

	var ops FileOps
	var err error
	if vn.Mode.IsCharDevice() {
		ops, err = v.devices.ResolveCharOps(vn.Dev)
	} else {
		ops, err = v.devices.ResolveBlockOps(vn.Dev)
	}
	if err != nil {
		return err
	}

	vn.Fops = ops
	return nil
}

// Open implements open(path, flags, mode). O_CREATE with a
// missing path creates a regular file; O_CREATE|O_EXCL on an existing
// path is rejected.
func (v *VFS) Open(path string, flags OpenFlags, mode filemode.Mode) (*OpenFile, error) {
	exit := v.cs.Enter(false)
	defer exit()

	idx, lookupErr := v.lookupLocked(path)
	exists := lookupErr == nil

	if exists && flags.Has(OCreate) && flags.Has(OExcl) {
		return nil, errno.New("open", errno.EXIST)
	}

	if !exists {
		if errno.CodeOf(lookupErr) != errno.NOENT {
			return nil, lookupErr
		}
		if !flags.Has(OCreate) {
			return nil, lookupErr
		}

		var err error
		idx, err = v.createNode(path, filemode.New(filemode.TypeRegular, mode.Perm()), devid.None)
		if err != nil {
			return nil, err
		}
	}

	sb, vno := v.nodeFromDentry(idx)
	vn, err := v.vnodes.getOrRead(sb, vno)
	if err != nil {
		return nil, errno.Wrap("open", errno.CORRUPT, err)
	}

	if err := v.resolveDeviceOps(vn); err != nil {
		v.vnodes.release(vn)
		return nil, err
	}

	if flags.Has(ORead) {
		if vn.Fops.Read == nil {
			v.vnodes.release(vn)
			return nil, errno.New("open", errno.ACCESS)
		}
		if vn.Mode.Perm()&filemode.UsrRead == 0 {
			v.vnodes.release(vn)
			return nil, errno.New("open", errno.ACCESS)
		}
	}

	if flags.Has(OWrite) {
		if vn.Fops.Write == nil {
			v.vnodes.release(vn)
			return nil, errno.New("open", errno.ACCESS)
		}
		if vn.Mode.Perm()&filemode.UsrWrite == 0 {
			v.vnodes.release(vn)
			return nil, errno.New("open", errno.ACCESS)
		}
	}

	f := &OpenFile{Flags: flags, Fops: vn.Fops, Vnode: vn}

	if vn.Fops.Open != nil {
		if err := vn.Fops.Open.Open(vn, f); err != nil {
			v.vnodes.release(vn)
			return nil, err
		}
	}

	v.openFiles.Append(f)
	return f, nil
}

// Read implements read(file, buf).
func (v *VFS) Read(f *OpenFile, buf []byte) (int, error) {
	exit := v.cs.Enter(false)
	defer exit()

	if !f.Flags.Has(ORead) {
		return 0, errno.New("read", errno.BADFD)
	}
	if f.Fops.Read == nil {
		return 0, errno.New("read", errno.NOTIMP)
	}
	return f.Fops.Read.Read(f, buf)
}

// Write implements write(file, buf).
func (v *VFS) Write(f *OpenFile, buf []byte) (int, error) {
	exit := v.cs.Enter(false)
	defer exit()

	if !f.Flags.Has(OWrite) {
		return 0, errno.New("write", errno.BADFD)
	}
	if f.Fops.Write == nil {
		return 0, errno.New("write", errno.NOTIMP)
	}
	return f.Fops.Write.Write(f, buf)
}

// Lseek implements lseek(file, offset, whence). A driver
// that supplies its own Lseeker (a device with no notion of size, for
// instance) overrides the generic byte-offset arithmetic entirely.
func (v *VFS) Lseek(f *OpenFile, offset int64, whence int) (int64, error) {
	exit := v.cs.Enter(false)
	defer exit()

	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, errno.New("lseek", errno.INVAL)
	}

	if f.Fops.Lseek != nil {
		return f.Fops.Lseek.Lseek(f, offset, whence)
	}

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.Pos
	case io.SeekEnd:
		base = f.Vnode.Size
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, errno.New("lseek", errno.INVAL)
	}

	f.Pos = newPos
	return f.Pos, nil
}

// Ioctl forwards a device control command to the driver behind file.
// Only drivers supply an Ioctler; everything else reports E_NOTIMP.
func (v *VFS) Ioctl(f *OpenFile, cmd uintptr, arg uintptr) (uintptr, error) {
	exit := v.cs.Enter(false)
	defer exit()

	if f.Fops.Ioctl == nil {
		return 0, errno.New("ioctl", errno.NOTIMP)
	}
	return f.Fops.Ioctl.Ioctl(f, cmd, arg)
}

// Close implements close(file): flush, then release if this
// was the file's last opener, then release the backing vnode reference.
func (v *VFS) Close(f *OpenFile) error {
	exit := v.cs.Enter(false)
	defer exit()

	if _, ok := v.openFiles.FindDelete(f, matchOpenFile); !ok {
		return errno.New("close", errno.NOKOBJ)
	}

	var firstErr error
	if f.Fops.Flush != nil {
		if err := f.Fops.Flush.Flush(f); err != nil {
			firstErr = err
		}
	}

	lastOpener := f.Vnode.count == 1
	if lastOpener && f.Fops.Release != nil {
		if err := f.Fops.Release.Release(f.Vnode, f); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	v.vnodes.release(f.Vnode)
	return firstErr
}

// Readdir implements readdir(file): one directory entry per
// call, io.EOF once exhausted.
func (v *VFS) Readdir(f *OpenFile) (string, error) {
	exit := v.cs.Enter(false)
	defer exit()

	if f.Fops.Readdir == nil {
		return "", errno.New("readdir", errno.NOTIMP)
	}
	return f.Fops.Readdir.Readdir(f)
}
