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
	"strings"

	"github.com/GoogleCloudPlatform/kvfs/vfs"
)

// walker recursively visits every dentry reachable from "/" through the
// public VFS API, the way a real fsck can only ever see a filesystem
// through its own syscall surface. It never touches package-private VFS
// state directly; invariant checks are derived entirely from before/after
// vfs.VFS.Stats() snapshots.
type walker struct {
	v *vfs.VFS
}

func newWalker(v *vfs.VFS) *walker {
	return &walker{v: v}
}

// checkReport lists every invariant violation a walk discovered. An empty
// violations slice means the walk left every cache exactly as it found it.
type checkReport struct {
	violations []string
}

// check walks the tree rooted at "/", printing one line per dentry to
// out, then compares vfs.VFS.Stats() before and after: a balanced
// sequence of opens and closes must leave the vnode and open-file counts
// exactly where they started.
func (w *walker) check(out io.Writer) (checkReport, error) {
	var rep checkReport

	before := w.v.Stats()
	if err := w.walk("/", 0, out); err != nil {
		return rep, err
	}
	after := w.v.Stats()

	if after.OpenFiles != before.OpenFiles {
		rep.violations = append(rep.violations, fmt.Sprintf(
			"open-file count changed from %d to %d across the walk", before.OpenFiles, after.OpenFiles))
	}
	if after.Vnodes != before.Vnodes {
		rep.violations = append(rep.violations, fmt.Sprintf(
			"live vnode count changed from %d to %d across the walk", before.Vnodes, after.Vnodes))
	}

	return rep, nil
}

func (w *walker) walk(path string, depth int, out io.Writer) error {
	st, err := w.v.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	fmt.Fprintf(out, "%s%s  ino=%d type=%s\n", strings.Repeat("  ", depth), path, st.Ino, st.Mode.Type())

	if !st.Mode.IsDir() {
		return nil
	}

	// Directories are opened with no access flags: readdir is not a
	// read in the O_READ sense, and directories carry no read op.
	f, err := w.v.Open(path, 0, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer w.v.Close(f)

	for {
		name, err := w.v.Readdir(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("readdir %s: %w", path, err)
		}

		child := strings.TrimSuffix(path, "/") + "/" + name
		if err := w.walk(child, depth+1, out); err != nil {
			return err
		}
	}

	return nil
}
