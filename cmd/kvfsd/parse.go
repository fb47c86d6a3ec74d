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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

func parseMode(s string) (filemode.Mode, error) {
	n, err := strconv.ParseUint(s, 8, 16)
	if err != nil {
		return 0, fmt.Errorf("bad octal mode %q: %w", s, err)
	}
	return filemode.Mode(n), nil
}

func parseType(s string) (filemode.Type, error) {
	switch s {
	case "dir":
		return filemode.TypeDirectory, nil
	case "reg":
		return filemode.TypeRegular, nil
	case "chr":
		return filemode.TypeCharDevice, nil
	case "blk":
		return filemode.TypeBlockDevice, nil
	case "fifo":
		return filemode.TypeFIFO, nil
	case "sock":
		return filemode.TypeSocket, nil
	default:
		return 0, fmt.Errorf("unknown file type %q (want dir|reg|chr|blk|fifo|sock)", s)
	}
}

func parseDev(majorStr, minorStr string) (major, minor byte, err error) {
	m, err := strconv.ParseUint(majorStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("bad major %q: %w", majorStr, err)
	}
	n, err := strconv.ParseUint(minorStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor %q: %w", minorStr, err)
	}
	return byte(m), byte(n), nil
}

// parseFlags maps a letter-coded flag string (any combination of r, w, c,
// x, t) onto vfs.OpenFlags, e.g. "rwc" -> ORead|OWrite|OCreate.
func parseFlags(s string) vfs.OpenFlags {
	var flags vfs.OpenFlags
	for _, c := range s {
		switch c {
		case 'r':
			flags |= vfs.ORead
		case 'w':
			flags |= vfs.OWrite
		case 'c':
			flags |= vfs.OCreate
		case 'x':
			flags |= vfs.OExcl
		case 't':
			flags |= vfs.OTrunc
		}
	}
	return flags
}

func parseWhence(s string) (int, error) {
	switch strings.ToLower(s) {
	case "set":
		return io.SeekStart, nil
	case "cur":
		return io.SeekCurrent, nil
	case "end":
		return io.SeekEnd, nil
	default:
		return 0, fmt.Errorf("unknown whence %q (want set|cur|end)", s)
	}
}
