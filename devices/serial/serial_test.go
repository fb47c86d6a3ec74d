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

package serial_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/devices/serial"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

func TestReadDrainsFedBytesAndAdvancesPos(t *testing.T) {
	d := serial.New(16, 16)
	d.Feed('h')
	d.Feed('i')

	f := &vfs.OpenFile{}
	buf := make([]byte, 8)
	n, err := d.Read(f, buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "hi", string(buf[:n]))
	require.EqualValues(t, 2, f.Pos)
}

func TestWriteQueuesForTransmission(t *testing.T) {
	d := serial.New(4, 4)
	f := &vfs.OpenFile{}

	n, err := d.Write(f, []byte("ok"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 2, f.Pos)
	require.Equal(t, []byte("ok"), d.Transmitted())
}

func TestIoctlUnknownCommandIsNotImplemented(t *testing.T) {
	d := serial.New(1, 1)
	_, err := d.Ioctl(&vfs.OpenFile{}, 0xdead, 0)
	require.Equal(t, errno.NOTIMP, errno.CodeOf(err))
}
