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

package urandom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/devices/urandom"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

func TestReadFillsBufferCompletely(t *testing.T) {
	d := urandom.New()
	buf := make([]byte, 100)
	n, err := d.Read(&vfs.OpenFile{}, buf)
	require.NoError(t, err)
	require.Equal(t, 100, n)
}

func TestSuccessiveReadsDoNotRepeatBytes(t *testing.T) {
	d := urandom.New()
	first := make([]byte, 64)
	second := make([]byte, 64)

	_, err := d.Read(&vfs.OpenFile{}, first)
	require.NoError(t, err)
	_, err = d.Read(&vfs.OpenFile{}, second)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestOpsExposesReadOnly(t *testing.T) {
	ops := urandom.New().Ops()
	require.NotNil(t, ops.Read)
	require.Nil(t, ops.Write)
}
