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
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/sirupsen/logrus"
)

// Mount attaches the super-block backed by dev at path. The very first
// mount of the process must target "/" and becomes the root super-block;
// every later mount must target an existing, non-mount-point directory.
func (v *VFS) Mount(dev devid.ID, path string, fsTypeName string) error {
	exit := v.cs.Enter(false)
	defer exit()

	firstMount := v.rootDentry == noParent

	var mountIdx int
	if firstMount {
		if path != "/" {
			return errno.New("mount", errno.NOROOT)
		}
	} else if path == "/" {
		// Rebinding an already-mounted root is not supported.
		return errno.New("mount", errno.NOTIMP)
	} else {
		idx, err := v.lookupLocked(path)
		if err != nil {
			return err
		}

		d := v.dentries.at(idx)
		if d.IsMountPoint() {
			return errno.New("mount", errno.ACCESS)
		}

		sb, vno := v.nodeFromDentry(idx)
		pv, err := v.vnodes.getOrRead(sb, vno)
		if err != nil {
			return errno.Wrap("mount", errno.CORRUPT, err)
		}
		isDir := pv.Mode.IsDir()
		v.vnodes.release(pv)
		if !isDir {
			return errno.New("mount", errno.NODIR)
		}

		mountIdx = idx
	}

	fstype, ok := v.fstypes.lookup(fsTypeName)
	if !ok {
		return errno.New("mount", errno.NOKOBJ)
	}

	if _, exists := v.superblocks.lookup(dev); exists {
		return errno.New("mount", errno.MOUNTED)
	}

	sb := v.superblocks.alloc(dev)

	if err := fstype.GetSB(sb); err != nil {
		v.superblocks.blocks.FindDelete(dev, matchSBDev)
		return errno.Wrap("mount", errno.INVFS, err)
	}
	sb.FSType = fstype

	if sb.Ops.Mount != nil {
		if err := sb.Ops.Mount(sb); err != nil {
			v.superblocks.blocks.FindDelete(dev, matchSBDev)
			return errno.Wrap("mount", errno.INVFS, err)
		}
	}

	if firstMount {
		mountIdx = v.dentries.allocRoot()
		v.rootDentry = mountIdx
	}

	d := v.dentries.at(mountIdx)
	d.mountSB = sb
	sb.Mounted = true
	sb.MountedAt = d

	v.log.WithFields(logrus.Fields{"dev": dev, "path": path, "fstype": fsTypeName}).Info("mounted")
	return nil
}

// Unmount reverses Mount: the target must be a live mount point with no
// outstanding vnodes and nothing mounted beneath it.
func (v *VFS) Unmount(path string) error {
	exit := v.cs.Enter(false)
	defer exit()

	idx, err := v.lookupLocked(path)
	if err != nil {
		return err
	}

	d := v.dentries.at(idx)
	if d.mountSB == nil {
		return errno.New("unmount", errno.NOTMOUNTED)
	}
	sb := d.mountSB

	if v.vnodes.countForSB(sb) > 0 {
		return errno.New("unmount", errno.BUSY)
	}

	// Detach first so the purge scan does not trip over the mount point
	// being removed; reattach if the purge refuses.
	d.mountSB = nil
	if err := v.dentries.unmountSB(sb); err != nil {
		d.mountSB = sb
		return err
	}

	if sb.Ops.Unmount != nil {
		if err := sb.Ops.Unmount(sb); err != nil {
			d.mountSB = sb
			return err
		}
	}

	sb.Mounted = false
	v.superblocks.dealloc(sb)

	if idx == v.rootDentry {
		v.dentries.reset(idx)
		v.rootDentry = noParent
	}

	return nil
}
