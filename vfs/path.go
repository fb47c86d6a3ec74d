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
	"strings"

	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
)

// maxNameLen is the per-component name limit: names are up to 32 bytes.
const maxNameLen = 32

// splitPath tokenizes an absolute path on '/' into non-empty, validated
// components.
func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, errno.New("path", errno.INVAL)
	}

	var comps []string
	for _, c := range strings.Split(path, "/") {
		if c == "" {
			continue
		}
		if len(c) > maxNameLen {
			return nil, errno.New("path", errno.INVAL)
		}
		comps = append(comps, c)
	}
	return comps, nil
}

// splitParentLeaf divides path into its parent directory path and leaf
// name, used by create_node.
func splitParentLeaf(path string) (parent, leaf string, err error) {
	comps, err := splitPath(path)
	if err != nil {
		return "", "", err
	}
	if len(comps) == 0 {
		return "", "", errno.New("path", errno.ACCESS)
	}

	leaf = comps[len(comps)-1]
	if len(comps) == 1 {
		return "", leaf, nil
	}
	return "/" + strings.Join(comps[:len(comps)-1], "/"), leaf, nil
}

// nodeFromDentry resolves which (super-block, vno) actually backs a
// dentry, crossing into the mounted filesystem's root if the dentry is a
// mount point.
func (v *VFS) nodeFromDentry(idx int) (*SuperBlock, int) {
	d := v.dentries.at(idx)
	if d.mountSB != nil {
		return d.mountSB, d.mountSB.RootVno
	}
	return d.sb, d.vno
}

// lookupLocked implements lookup(path). Callers must already
// hold the VFS critical section.
func (v *VFS) lookupLocked(path string) (int, error) {
	if v.rootDentry == noParent {
		return 0, errno.New("lookup", errno.NOENT)
	}

	comps, err := splitPath(path)
	if err != nil {
		return 0, err
	}

	parent := v.rootDentry
	for _, name := range comps {
		idx, _, err := v.dentries.get(parent, name)
		if err != nil {
			return 0, err
		}

		// An unresolved dentry (vno still 0, whether freshly allocated or
		// left behind by an earlier failed lookup) needs the backing
		// filesystem consulted.
		if v.dentries.at(idx).vno == 0 {
			sb, vno := v.nodeFromDentry(parent)
			pv, err := v.vnodes.getOrRead(sb, vno)
			if err != nil {
				return 0, errno.Wrap("lookup", errno.CORRUPT, err)
			}

			if !pv.Mode.IsDir() {
				v.vnodes.release(pv)
				return 0, errno.New("lookup", errno.NODIR)
			}

			if pv.Iops.Lookup == nil {
				v.vnodes.release(pv)
				return 0, errno.New("lookup", errno.NOENT)
			}

			d := v.dentries.at(idx)
			lookupErr := pv.Iops.Lookup.Lookup(pv, d)
			v.vnodes.release(pv)
			if lookupErr != nil {
				return 0, lookupErr
			}
		}

		parent = idx
	}

	return parent, nil
}

// createNode implements create_node, used directly by Mkdir
// and Mknod and internally by Open when O_CREATE is set.
func (v *VFS) createNode(path string, mode filemode.Mode, dev devid.ID) (int, error) {
	if path == "/" {
		return 0, errno.New("create_node", errno.ACCESS)
	}

	parentPath, leaf, err := splitParentLeaf(path)
	if err != nil {
		return 0, err
	}

	var parentIdx int
	if parentPath == "" {
		if v.rootDentry == noParent {
			return 0, errno.New("create_node", errno.NOENT)
		}
		parentIdx = v.rootDentry
	} else {
		parentIdx, err = v.lookupLocked(parentPath)
		if err != nil {
			return 0, err
		}
	}

	idx, _, err := v.dentries.get(parentIdx, leaf)
	if err != nil {
		return 0, err
	}

	d := v.dentries.at(idx)
	if d.vno != 0 {
		return 0, errno.New("create_node", errno.EXIST)
	}

	sb, vno := v.nodeFromDentry(parentIdx)
	pv, err := v.vnodes.getOrRead(sb, vno)
	if err != nil {
		v.dentries.reset(idx)
		return 0, errno.Wrap("create_node", errno.CORRUPT, err)
	}

	if !pv.Mode.IsDir() {
		v.vnodes.release(pv)
		v.dentries.reset(idx)
		return 0, errno.New("create_node", errno.NODIR)
	}

	var opErr error
	switch mode.Type() {
	case filemode.TypeDirectory:
		if pv.Iops.Mkdir == nil {
			opErr = errno.New("create_node", errno.NOTIMP)
		} else {
			opErr = pv.Iops.Mkdir.Mkdir(pv, d, mode)
		}
	case filemode.TypeRegular:
		if pv.Iops.Create == nil {
			opErr = errno.New("create_node", errno.NOTIMP)
		} else {
			opErr = pv.Iops.Create.Create(pv, d, mode)
		}
	case filemode.TypeCharDevice, filemode.TypeBlockDevice, filemode.TypeFIFO, filemode.TypeSocket:
		if pv.Iops.Mknod == nil {
			opErr = errno.New("create_node", errno.NOTIMP)
		} else {
			opErr = pv.Iops.Mknod.Mknod(pv, d, mode, dev)
		}
	case filemode.TypeSymlink:
		opErr = errno.New("create_node", errno.NOTIMP)
	default:
		opErr = errno.New("create_node", errno.INVAL)
	}

	v.vnodes.release(pv)

	if opErr != nil {
		v.dentries.reset(idx)
		return 0, opErr
	}

	return idx, nil
}
