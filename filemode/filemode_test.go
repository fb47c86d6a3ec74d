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

package filemode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroModeIsUninitialized(t *testing.T) {
	var m Mode
	assert.True(t, m.IsZero())
	assert.Equal(t, TypeUnknown, m.Type())
}

func TestCharDeviceReadOnly(t *testing.T) {
	m := New(TypeCharDevice, UsrRead)
	assert.True(t, m.IsCharDevice())
	assert.True(t, m.IsDevice())
	assert.Equal(t, UsrRead, m.Perm()&UsrRead)
	assert.Equal(t, Mode(0), m.Perm()&UsrWrite)
}

func TestDirectoryMode(t *testing.T) {
	m := New(TypeDirectory, UsrRead|UsrWrite|UsrExec)
	assert.True(t, m.IsDir())
	assert.False(t, m.IsRegular())
}

func TestPermMaskDropsHighBitsBeyond12(t *testing.T) {
	m := New(TypeRegular, Mode(0xFFFF))
	assert.Equal(t, Mode(07777), m.Perm())
}
