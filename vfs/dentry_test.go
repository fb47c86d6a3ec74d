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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/errno"
)

func TestAllocRootIsSlotZeroWithSentinelVno(t *testing.T) {
	c := newDentryCache()
	idx := c.allocRoot()
	require.Equal(t, 0, idx)
	require.Equal(t, 1, c.at(idx).vno)
	require.Equal(t, 1, c.at(idx).count)
}

func TestGetCacheHitBumpsCount(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()

	idx, fresh, err := c.get(root, "a")
	require.NoError(t, err)
	require.True(t, fresh)
	require.Equal(t, 1, c.at(idx).count)

	idx2, fresh2, err := c.get(root, "a")
	require.NoError(t, err)
	require.False(t, fresh2)
	require.Equal(t, idx, idx2)
	require.Equal(t, 2, c.at(idx2).count)
}

func TestGetEvictsLeastFrequentlyUsedSlot(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()
	c.at(root).mountSB = &SuperBlock{} // a mounted root is pinned, as after Mount

	// Fill every remaining slot with distinct names, each touched a
	// different number of times so there is a single clear minimum.
	var victimIdx int
	for i := 0; i < dentryCacheSize-1; i++ {
		name := fmtName(i)
		var idx int
		var err error
		for touch := 0; touch <= i; touch++ {
			idx, _, err = c.get(root, name)
			require.NoError(t, err)
		}
		if i == 0 {
			victimIdx = idx
		}
	}

	newIdx, fresh, err := c.get(root, "brand-new")
	require.NoError(t, err)
	require.True(t, fresh)
	require.Equal(t, victimIdx, newIdx)
}

func fmtName(i int) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	return "n" + string(digits[i%len(digits)]) + string(digits[(i/len(digits))%len(digits)])
}

func TestGetLimitWhenFullOfMountPoints(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()
	c.at(root).mountSB = &SuperBlock{} // pin the root itself too

	for i := 0; i < dentryCacheSize-1; i++ {
		idx, _, err := c.get(root, string(rune('a'+i)))
		require.NoError(t, err)
		c.at(idx).mountSB = &SuperBlock{}
	}

	_, _, err := c.get(root, "overflow")
	require.Equal(t, errno.LIMIT, errno.CodeOf(err))
}

func TestResetClearsSlot(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()

	idx, _, err := c.get(root, "tmp")
	require.NoError(t, err)
	c.reset(idx)
	require.Equal(t, "", c.at(idx).name)
}

func TestUnmountSBRefusesWhileMountPointReferencesIt(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()
	sb := &SuperBlock{}

	idx, _, err := c.get(root, "mnt")
	require.NoError(t, err)
	c.at(idx).mountSB = sb

	err = c.unmountSB(sb)
	require.Equal(t, errno.BUSY, errno.CodeOf(err))
}

func TestUnmountSBPurgesDentries(t *testing.T) {
	c := newDentryCache()
	root := c.allocRoot()
	sb := &SuperBlock{}

	idx, _, err := c.get(root, "child")
	require.NoError(t, err)
	c.at(idx).sb = sb

	require.NoError(t, c.unmountSB(sb))
	require.Equal(t, "", c.at(idx).name)
}
