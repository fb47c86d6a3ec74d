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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/kvfs/devid"
	"github.com/GoogleCloudPlatform/kvfs/filemode"
	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// shell is the line-oriented command loop standing in for the
// out-of-scope software-interrupt syscall gate: each line is one VFS
// call, translated from text the way a real syscall dispatcher would
// translate a register file.
type shell struct {
	v    *vfs.VFS
	open map[int]*vfs.OpenFile
	next int
}

func newShell(v *vfs.VFS) *shell {
	return &shell{v: v, open: make(map[int]*vfs.OpenFile)}
}

// run reads one command per line from in until EOF, writing results and
// errors to out. It never returns an error for a bad command line; only
// an unreadable input stream ends the loop early.
func (s *shell) run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := s.dispatch(line, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *shell) dispatch(line string, out io.Writer) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "stat":
		return s.cmdStat(args, out)
	case "mkdir":
		return s.cmdMkdir(args, out)
	case "mknod":
		return s.cmdMknod(args, out)
	case "open":
		return s.cmdOpen(args, out)
	case "read":
		return s.cmdRead(args, out)
	case "write":
		parts := strings.SplitN(line, " ", 3)
		return s.cmdWrite(parts[1:], out)
	case "lseek":
		return s.cmdLseek(args, out)
	case "ioctl":
		return s.cmdIoctl(args, out)
	case "close":
		return s.cmdClose(args, out)
	case "readdir":
		return s.cmdReaddir(args, out)
	case "mount":
		return s.cmdMount(args, out)
	case "unmount":
		return s.cmdUnmount(args, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *shell) fd(args []string, idx int) (*vfs.OpenFile, error) {
	n, err := strconv.Atoi(args[idx])
	if err != nil {
		return nil, fmt.Errorf("bad fd %q: %w", args[idx], err)
	}
	f, ok := s.open[n]
	if !ok {
		return nil, fmt.Errorf("fd %d not open", n)
	}
	return f, nil
}

func (s *shell) cmdStat(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: stat <path>")
	}
	st, err := s.v.Stat(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ino=%d type=%s perm=%#o size=%d dev=%s\n",
		st.Ino, st.Mode.Type(), st.Mode.Perm(), st.Size, st.Dev)
	return nil
}

func (s *shell) cmdMkdir(args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: mkdir <path> <octal-mode>")
	}
	mode, err := parseMode(args[1])
	if err != nil {
		return err
	}
	if err := s.v.Mkdir(args[0], mode); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok\n")
	return nil
}

func (s *shell) cmdMknod(args []string, out io.Writer) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: mknod <path> <type> <major> <minor>")
	}
	typ, err := parseType(args[1])
	if err != nil {
		return err
	}
	major, minor, err := parseDev(args[2], args[3])
	if err != nil {
		return err
	}
	if err := s.v.Mknod(args[0], filemode.New(typ, 0644), devid.Pack(major, minor)); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok\n")
	return nil
}

func (s *shell) cmdOpen(args []string, out io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: open <path> <flags:rwcxt> <octal-mode>")
	}
	mode, err := parseMode(args[2])
	if err != nil {
		return err
	}
	f, err := s.v.Open(args[0], parseFlags(args[1]), mode)
	if err != nil {
		return err
	}
	fd := s.next
	s.next++
	s.open[fd] = f
	fmt.Fprintf(out, "fd=%d\n", fd)
	return nil
}

func (s *shell) cmdRead(args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: read <fd> <count>")
	}
	f, err := s.fd(args, 0)
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad count %q: %w", args[1], err)
	}
	buf := make([]byte, count)
	n, err := s.v.Read(f, buf)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "n=%d data=%q\n", n, buf[:n])
	return nil
}

// cmdWrite takes args = [fd, payload], where payload is the remainder of
// the input line verbatim (split out by dispatch via strings.SplitN so it
// may contain spaces; strings.Fields would have mangled it).
func (s *shell) cmdWrite(args []string, out io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: write <fd> <data...>")
	}
	f, err := s.fd(args, 0)
	if err != nil {
		return err
	}
	n, err := s.v.Write(f, []byte(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "n=%d\n", n)
	return nil
}

func (s *shell) cmdLseek(args []string, out io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: lseek <fd> <offset> <set|cur|end>")
	}
	f, err := s.fd(args, 0)
	if err != nil {
		return err
	}
	offset, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad offset %q: %w", args[1], err)
	}
	whence, err := parseWhence(args[2])
	if err != nil {
		return err
	}
	pos, err := s.v.Lseek(f, offset, whence)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "pos=%d\n", pos)
	return nil
}

func (s *shell) cmdIoctl(args []string, out io.Writer) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: ioctl <fd> <cmd> <arg>")
	}
	f, err := s.fd(args, 0)
	if err != nil {
		return err
	}
	cmd, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return fmt.Errorf("bad cmd %q: %w", args[1], err)
	}
	arg, err := strconv.ParseUint(args[2], 0, 64)
	if err != nil {
		return fmt.Errorf("bad arg %q: %w", args[2], err)
	}
	ret, err := s.v.Ioctl(f, uintptr(cmd), uintptr(arg))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ret=%d\n", ret)
	return nil
}

func (s *shell) cmdClose(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: close <fd>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad fd %q: %w", args[0], err)
	}
	f, ok := s.open[n]
	if !ok {
		return fmt.Errorf("fd %d not open", n)
	}
	delete(s.open, n)
	if err := s.v.Close(f); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok\n")
	return nil
}

func (s *shell) cmdReaddir(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: readdir <fd>")
	}
	f, err := s.fd(args, 0)
	if err != nil {
		return err
	}
	for {
		name, err := s.v.Readdir(f)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", name)
	}
}

func (s *shell) cmdMount(args []string, out io.Writer) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: mount <major> <minor> <path> <fstype>")
	}
	major, minor, err := parseDev(args[0], args[1])
	if err != nil {
		return err
	}
	if err := s.v.Mount(devid.Pack(major, minor), args[2], args[3]); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok\n")
	return nil
}

func (s *shell) cmdUnmount(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: unmount <path>")
	}
	if err := s.v.Unmount(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(out, "ok\n")
	return nil
}
