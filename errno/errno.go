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

// Package errno implements the kernel-wide error taxonomy: a small set of
// sentinel codes, a typed error wrapping one of them, and the process-wide
// "last error" slot that the VFS, memfs and device registries all set
// on failure instead of returning arbitrary Go errors.
package errno

import (
	"errors"
	"fmt"
)

// Code is one of the taxonomy values below. The zero value is OK.
type Code int

const (
	OK Code = iota
	NOMEM
	NOKOBJ
	CORRUPT
	NODEV
	IO
	ACCESS
	BADFD
	BUSY
	NOROOT
	INVFS
	MOUNTED
	NOTMOUNTED
	NOENT
	NOEMPTY
	EXIST
	NODIR
	LIMIT
	NOSPACE
	NOTIMP
	INVAL
)

var names = map[Code]string{
	OK:         "E_OK",
	NOMEM:      "E_NOMEM",
	NOKOBJ:     "E_NOKOBJ",
	CORRUPT:    "E_CORRUPT",
	NODEV:      "E_NODEV",
	IO:         "E_IO",
	ACCESS:     "E_ACCESS",
	BADFD:      "E_BADFD",
	BUSY:       "E_BUSY",
	NOROOT:     "E_NOROOT",
	INVFS:      "E_INVFS",
	MOUNTED:    "E_MOUNTED",
	NOTMOUNTED: "E_NOTMOUNTED",
	NOENT:      "E_NOENT",
	NOEMPTY:    "E_NOEMPTY",
	EXIST:      "E_EXIST",
	NODIR:      "E_NODIR",
	LIMIT:      "E_LIMIT",
	NOSPACE:    "E_NOSPACE",
	NOTIMP:     "E_NOTIMP",
	INVAL:      "E_INVAL",
}

// String renders the taxonomy name, e.g. "E_NOENT".
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("E_UNKNOWN(%d)", int(c))
}

// Error is a taxonomy code, optionally wrapping an underlying cause (a
// driver-reported I/O error, for instance). It satisfies error and
// errors.Unwrap so callers can still test for specific causes with
// errors.Is/errors.As while switching on Code for kernel-level handling.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error for the given operation and code with no underlying
// cause, and records the code as the process-wide errno.
func New(op string, code Code) *Error {
	SetErrno(code)
	return &Error{Op: op, Code: code}
}

// Wrap builds an *Error for the given operation and code, recording err as
// the underlying cause and the code as the process-wide errno.
func Wrap(op string, code Code, err error) *Error {
	SetErrno(code)
	return &Error{Op: op, Code: code, Err: err}
}

// CodeOf extracts the taxonomy Code from err, returning CORRUPT if err is
// non-nil but was not produced by this package (an invariant violation
// somewhere upstream), or OK if err is nil.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CORRUPT
}
