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

package errno

import (
	"fmt"
	"os"
	"sync/atomic"
)

// PanicLevel controls whether setting the process-wide errno also halts
// the simulated machine. Named after the source kernel's set_panic_level.
type PanicLevel int32

const (
	// PanicHysterical halts on every non-OK errno.
	PanicHysterical PanicLevel = iota
	// PanicOnPerror halts only when Perror is called.
	PanicOnPerror
	// PanicNoPanic never halts; the caller is expected to check errno.
	PanicNoPanic
)

var (
	current     int32 // Code, stored atomically
	panicLevel  int32 = int32(PanicNoPanic)
	haltHandler func(msg string) = func(msg string) {
		panic(msg)
	}
)

// SetErrno records code as the process-wide last error. Under
// PanicHysterical, any non-OK code halts immediately.
func SetErrno(code Code) {
	atomic.StoreInt32(&current, int32(code))
	if PanicLevel(atomic.LoadInt32(&panicLevel)) == PanicHysterical && code != OK {
		haltHandler(fmt.Sprintf("hysterical panic: errno set to %s", code))
	}
}

// GetErrno returns the process-wide last error.
func GetErrno() Code {
	return Code(atomic.LoadInt32(&current))
}

// SetPanicLevel selects the halting behavior for SetErrno/Perror.
func SetPanicLevel(level PanicLevel) {
	atomic.StoreInt32(&panicLevel, int32(level))
}

// Perror prints msg and the current errno to stderr, then halts if the
// panic level is PanicOnPerror or stricter.
func Perror(msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, GetErrno())
	level := PanicLevel(atomic.LoadInt32(&panicLevel))
	if level == PanicHysterical || level == PanicOnPerror {
		haltHandler(fmt.Sprintf("%s: %s", msg, GetErrno()))
	}
}

// setHaltHandlerForTest overrides the halt behavior; used by tests so
// panic-level exercises don't actually crash the test binary.
func setHaltHandlerForTest(h func(string)) (restore func()) {
	prev := haltHandler
	haltHandler = h
	return func() { haltHandler = prev }
}
