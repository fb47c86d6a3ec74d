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
	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/intrusivelist"
)

type fstypeRegistry struct {
	types *intrusivelist.List[*FilesystemType]
}

func newFstypeRegistry() *fstypeRegistry {
	return &fstypeRegistry{types: intrusivelist.New[*FilesystemType]()}
}

func matchFSTypeName(t *FilesystemType, key any) bool {
	return t.Name == key.(string)
}

// register allocates a named record, appends it, then invokes configure
// so the driver can fill in GetSB/KillSB. If configure fails, the record
// is removed again.
func (r *fstypeRegistry) register(name string, configure func(*FilesystemType) error) error {
	if _, ok := r.types.Find(name, matchFSTypeName); ok {
		return errno.New("register_filesystem", errno.EXIST)
	}

	t := &FilesystemType{Name: name}
	r.types.Append(t)

	if err := configure(t); err != nil {
		r.types.FindDelete(name, matchFSTypeName)
		return err
	}

	return nil
}

func (r *fstypeRegistry) lookup(name string) (*FilesystemType, bool) {
	return r.types.Find(name, matchFSTypeName)
}
