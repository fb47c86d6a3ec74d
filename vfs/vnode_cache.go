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

import "github.com/GoogleCloudPlatform/kvfs/intrusivelist"

// vnodeKey is the (super-block, vno) identity a vnode is cached under.
type vnodeKey struct {
	sb  *SuperBlock
	vno int
}

type vnodeCache struct {
	entries *intrusivelist.List[*Vnode]
}

func newVnodeCache() *vnodeCache {
	return &vnodeCache{entries: intrusivelist.New[*Vnode]()}
}

func matchVnode(v *Vnode, key any) bool {
	k := key.(vnodeKey)
	return v.SB == k.sb && v.Vno == k.vno
}

// prealloc produces an unpublished vnode with v.Vno == 0 and no operation
// tables. The split between preallocation and publication keeps a vnode
// out of the cache until ReadVnode has filled it in; getOrRead is its only
// caller, and mkdir/create/mknod do not go through it.
func (c *vnodeCache) prealloc(sb *SuperBlock) *Vnode {
	return &Vnode{SB: sb}
}

// getOrRead implements get_or_read: a cache hit just acquires
// a reference; a miss preallocates, calls sb.Ops.ReadVnode to fill it in,
// and publishes it before acquiring.
func (c *vnodeCache) getOrRead(sb *SuperBlock, vno int) (*Vnode, error) {
	if v, ok := c.entries.Find(vnodeKey{sb, vno}, matchVnode); ok {
		v.count++
		return v, nil
	}

	v := c.prealloc(sb)
	v.Vno = vno
	if err := sb.Ops.ReadVnode(sb, v); err != nil {
		return nil, err
	}

	c.entries.Append(v)
	v.count = 1
	return v, nil
}

// release implements release: decrement the refcount, and
// when it drops below 1, invoke destroy_vnode (if any) and drop the vnode
// from the cache.
func (c *vnodeCache) release(v *Vnode) {
	v.count--
	if v.count >= 1 {
		return
	}

	if v.SB.Ops.DestroyVnode != nil {
		v.SB.Ops.DestroyVnode(v.SB, v)
	}

	c.entries.FindDelete(vnodeKey{v.SB, v.Vno}, matchVnode)
}

// countForSB reports how many live vnodes currently belong to sb, used by
// unmount to refuse while any vnode belonging to sb is live.
func (c *vnodeCache) countForSB(sb *SuperBlock) int {
	n := 0
	c.entries.Each(func(v *Vnode) bool {
		if v.SB == sb {
			n++
		}
		return true
	})
	return n
}
