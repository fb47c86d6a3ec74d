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

package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// registerStub registers a minimal directory-only filesystem type: vno 1
// is a root directory whose Lookup resolves the single name "a" to vno 2,
// itself a directory, so mount targets below the root can be resolved.
func registerStub(t *testing.T, v *vfs.VFS, name string, mode filemode.Mode) {
	t.Helper()
	err := v.RegisterFilesystem(name, func(ft *vfs.FilesystemType) error {
		ft.GetSB = func(sb *vfs.SuperBlock) error {
			sb.RootVno = 1
			sb.Ops.ReadVnode = func(sb *vfs.SuperBlock, vn *vfs.Vnode) error {
				vn.Mode = mode
				if vn.Vno == 1 {
					vn.Iops.Lookup = lookupFunc(func(dir *vfs.Vnode, d *vfs.Dentry) error {
						if d.Name() != "a" {
							return errno.New("lookup", errno.NOENT)
						}
						d.Resolve(2)
						return nil
					})
				}
				return nil
			}
			return nil
		}
		return nil
	})
	require.NoError(t, err)
}

func TestMountFirstMustBeRoot(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))

	err := v.Mount(devid.Pack(0, 1), "/a", "stub")
	require.Equal(t, errno.NOROOT, errno.CodeOf(err))
}

func TestMountUnknownFilesystemType(t *testing.T) {
	v := vfs.New(nil)
	err := v.Mount(devid.Pack(0, 1), "/", "nope")
	require.Equal(t, errno.NOKOBJ, errno.CodeOf(err))
}

func TestMountRootThenStat(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))

	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "stub"))

	st, err := v.Stat("/")
	require.NoError(t, err)
	require.True(t, st.Mode.IsDir())
	require.Equal(t, 1, st.Ino)
}

func TestMountSameDeviceTwiceFails(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))
	registerStub(t, v, "stub2", filemode.New(filemode.TypeDirectory, 0755))
	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "stub"))

	err := v.Mount(devid.Pack(0, 1), "/a", "stub2")
	require.Equal(t, errno.MOUNTED, errno.CodeOf(err))
}

func TestMountRootRebindNotSupported(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))
	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "stub"))

	err := v.Mount(devid.Pack(0, 2), "/", "stub")
	require.Equal(t, errno.NOTIMP, errno.CodeOf(err))
}

func TestMountOnMountPointDenied(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))
	registerStub(t, v, "stub2", filemode.New(filemode.TypeDirectory, 0755))
	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "stub"))
	require.NoError(t, v.Mount(devid.Pack(0, 2), "/a", "stub2"))

	err := v.Mount(devid.Pack(0, 3), "/a", "stub2")
	require.Equal(t, errno.ACCESS, errno.CodeOf(err))
}

func TestStatMissingPathIsNoEnt(t *testing.T) {
	v := vfs.New(nil)
	registerStub(t, v, "stub", filemode.New(filemode.TypeDirectory, 0755))
	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "stub"))

	_, err := v.Stat("/missing")
	require.Equal(t, errno.NOENT, errno.CodeOf(err))
}

func TestOpenPermissionDenied(t *testing.T) {
	v := vfs.New(nil)
	// A root whose only child resolves via Lookup to a regular file with
	// read-only permission bits and no write op, modeling a read-only
	// device like rtc without depending on the device package.
	err := v.RegisterFilesystem("ro", func(ft *vfs.FilesystemType) error {
		ft.GetSB = func(sb *vfs.SuperBlock) error {
			sb.RootVno = 1
			sb.Ops.ReadVnode = func(sb *vfs.SuperBlock, vn *vfs.Vnode) error {
				if vn.Vno == 1 {
					vn.Mode = filemode.New(filemode.TypeDirectory, 0755)
					vn.Iops.Lookup = lookupFunc(func(dir *vfs.Vnode, d *vfs.Dentry) error {
						if d.Name() != "ro.txt" {
							return errno.New("lookup", errno.NOENT)
						}
						d.Resolve(2)
						return nil
					})
					vn.Fops.Readdir = nil
					return nil
				}
				vn.Mode = filemode.New(filemode.TypeRegular, 0444)
				vn.Fops.Read = readFunc(func(f *vfs.OpenFile, buf []byte) (int, error) { return 0, nil })
				return nil
			}
			return nil
		}
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, v.Mount(devid.Pack(0, 1), "/", "ro"))

	_, err = v.Open("/ro.txt", vfs.OWrite, filemode.Mode(0))
	require.Equal(t, errno.ACCESS, errno.CodeOf(err))

	f, err := v.Open("/ro.txt", vfs.ORead, filemode.Mode(0))
	require.NoError(t, err)
	require.NoError(t, v.Close(f))
}

type lookupFunc func(dir *vfs.Vnode, d *vfs.Dentry) error

func (f lookupFunc) Lookup(dir *vfs.Vnode, d *vfs.Dentry) error { return f(dir, d) }

type readFunc func(f *vfs.OpenFile, buf []byte) (int, error)

func (f readFunc) Read(file *vfs.OpenFile, buf []byte) (int, error) { return f(file, buf) }
