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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/kernel"
)

func TestShellRoundTripsWriteSeekRead(t *testing.T) {
	k, err := kernel.Boot(nil)
	require.NoError(t, err)

	sh := newShell(k.VFS)
	var out bytes.Buffer

	script := strings.Join([]string{
		"open /a.txt rwc 0644",
		"write 0 hello world",
		"lseek 0 0 set",
		"read 0 11",
		"close 0",
	}, "\n")

	require.NoError(t, sh.run(strings.NewReader(script), &out))

	got := out.String()
	require.Contains(t, got, "fd=0")
	require.Contains(t, got, "n=11")
	require.Contains(t, got, `data="hello world"`)
	require.Contains(t, got, "ok")
	require.NotContains(t, got, "error:")
}

func TestShellStatReportsDeviceEntries(t *testing.T) {
	k, err := kernel.Boot(nil)
	require.NoError(t, err)
	_, err = k.RegisterDemoDevices()
	require.NoError(t, err)

	sh := newShell(k.VFS)
	var out bytes.Buffer
	require.NoError(t, sh.run(strings.NewReader("stat /dev/rtc"), &out))
	require.Contains(t, out.String(), "type=char-device")
}

func TestShellUnknownCommandReportsError(t *testing.T) {
	k, err := kernel.Boot(nil)
	require.NoError(t, err)

	sh := newShell(k.VFS)
	var out bytes.Buffer
	require.NoError(t, sh.run(strings.NewReader("frobnicate /a.txt"), &out))
	require.Contains(t, out.String(), "error:")
}
