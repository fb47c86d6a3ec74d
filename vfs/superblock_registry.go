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
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
)

type superblockRegistry struct {
	blocks *intrusivelist.List[*SuperBlock]
}

func newSuperblockRegistry() *superblockRegistry {
	return &superblockRegistry{blocks: intrusivelist.New[*SuperBlock]()}
}

func matchSBDev(sb *SuperBlock, key any) bool {
	return sb.Dev == key.(devid.ID)
}

func (r *superblockRegistry) lookup(dev devid.ID) (*SuperBlock, bool) {
	return r.blocks.Find(dev, matchSBDev)
}

// alloc allocates a fresh super-block: block size defaults to 1024,
// block count to 0, mounted flag unset; only the device id is final
// thereafter.
func (r *superblockRegistry) alloc(dev devid.ID) *SuperBlock {
	sb := &SuperBlock{Dev: dev, BlockSize: 1024}
	r.blocks.Append(sb)
	return sb
}

// dealloc invokes kill_sb and removes sb from the registry.
func (r *superblockRegistry) dealloc(sb *SuperBlock) {
	if sb.FSType != nil && sb.FSType.KillSB != nil {
		sb.FSType.KillSB(sb)
	}
	r.blocks.FindDelete(sb.Dev, matchSBDev)
}

func (r *superblockRegistry) len() int {
	return r.blocks.Len()
}
