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

package devid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackMatchesKnownExample(t *testing.T) {
	// (13, 17) packs to 0x0D11.
	id := Pack(13, 17)
	assert.Equal(t, ID(0x0D11), id)
	assert.EqualValues(t, 13, id.Major())
	assert.EqualValues(t, 17, id.Minor())
}

func TestNoneSentinel(t *testing.T) {
	assert.Equal(t, ID(0), None)
}
