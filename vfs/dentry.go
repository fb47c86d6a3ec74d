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

import "github.com/GoogleCloudPlatform/kvfs/errno"

// dentryCacheSize is the fixed slot count of the dentry cache.
const dentryCacheSize = 100

// noParent marks a dentry with no parent (the root).
const noParent = -1

// Dentry represents a named edge in the filesystem tree. A dentry names
// its parent by index into the fixed cache array rather than by raw
// pointer, so the LFU eviction policy can safely invalidate slots.
type Dentry struct {
	name    string // empty means the slot is free
	parent  int    // index of the parent dentry, or noParent for root
	vno     int    // 0 means "not yet resolved"
	sb      *SuperBlock
	mountSB *SuperBlock // non-nil iff this dentry is a mount point
	count   int         // d_count
}

// Name returns the dentry's name within its parent.
func (d *Dentry) Name() string { return d.name }

// Resolve fills in the vnode number a driver's Lookup, Mkdir, Create or
// Mknod implementation discovered or allocated for this dentry ("writes
// the new ino into the dentry").
func (d *Dentry) Resolve(vno int) { d.vno = vno }

// IsMountPoint reports whether this dentry carries a mounted super-block.
func (d *Dentry) IsMountPoint() bool { return d.mountSB != nil }

// dentryCache is the fixed-size open-addressed table behind path
// resolution.
type dentryCache struct {
	slots [dentryCacheSize]Dentry
}

func newDentryCache() *dentryCache {
	return &dentryCache{}
}

// allocRoot installs the root dentry at a fixed slot (index 0), with the
// sentinel vno of 1 so that path resolution does not abort before the real
// root super-block is attached.
func (c *dentryCache) allocRoot() int {
	c.slots[0] = Dentry{name: "/", parent: noParent, vno: 1, count: 1}
	return 0
}

// at returns a pointer to the dentry at the given index. Callers must only
// use indices returned by this cache.
func (c *dentryCache) at(idx int) *Dentry {
	return &c.slots[idx]
}

// sbFor computes the super-block a new dentry under parent should record:
// the parent's mnt_sb if the parent is a mount point, otherwise the
// parent's sb.
func (c *dentryCache) sbFor(parentIdx int) *SuperBlock {
	p := c.at(parentIdx)
	if p.mountSB != nil {
		return p.mountSB
	}
	return p.sb
}

// get implements dentry_get: linear scan for a (parent, name)
// match; on miss, evict the least-frequently-used non-mount-point slot
// (preferring an actually-free slot, which always has a zero count) and
// install a fresh, unresolved dentry there.
func (c *dentryCache) get(parentIdx int, name string) (idx int, freshlyAllocated bool, err error) {
	evictCandidate := -1
	evictCount := int(^uint(0) >> 1) // max int

	for i := range c.slots {
		s := &c.slots[i]
		if s.name != "" && s.parent == parentIdx && s.name == name {
			s.count++
			return i, false, nil
		}

		if s.mountSB != nil {
			continue // mount points are pinned, never evictable
		}

		count := s.count
		if s.name == "" {
			count = 0
		}
		if count < evictCount {
			evictCount = count
			evictCandidate = i
		}
	}

	if evictCandidate == -1 {
		return 0, false, errno.New("dentry_get", errno.LIMIT)
	}

	c.slots[evictCandidate] = Dentry{
		name:   name,
		parent: parentIdx,
		vno:    0,
		sb:     c.sbFor(parentIdx),
		count:  1,
	}

	return evictCandidate, true, nil
}

// reset clears a dentry slot back to free, used to undo a speculative
// allocation made by get() when the caller's create attempt subsequently
// fails.
func (c *dentryCache) reset(idx int) {
	c.slots[idx] = Dentry{}
}

// unmountSB implements unmount_sb: verify no mount point still points at
// sb and nothing is mounted on a dentry belonging to sb, then purge every
// dentry belonging to sb.
func (c *dentryCache) unmountSB(sb *SuperBlock) error {
	for i := range c.slots {
		s := &c.slots[i]
		if s.name == "" {
			continue
		}
		if s.mountSB == sb {
			return errno.New("unmount", errno.BUSY)
		}
		if s.sb == sb && s.mountSB != nil {
			return errno.New("unmount", errno.BUSY)
		}
	}

	for i := range c.slots {
		if c.slots[i].name != "" && c.slots[i].sb == sb {
			c.slots[i] = Dentry{}
		}
	}

	return nil
}
