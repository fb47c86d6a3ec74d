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

// Package guard implements the single concurrency discipline the kernel
// core relies on: a nestable "disable interrupts / restore on
// exit" critical section. There is no preemption and no internal event
// loop; the only thing that can run between two instructions of core code
// is a simulated interrupt handler, so every mutation of a shared registry
// (the dentry cache, the vnode cache, the device tables, ...) brackets
// itself with a CriticalSection.
package guard

import "sync"

// CriticalSection is a reentrant interrupt-disable guard. Enter clears the
// (simulated) interrupt-enable flag on first entry and leaves it untouched
// on nested entries; Exit restores it only when the outermost Enter's Exit
// runs, and only if the calling context is not itself already inside an
// interrupt handler.
type CriticalSection struct {
	mu       sync.Mutex
	depth    int
	disabled bool
}

// New returns a ready-to-use CriticalSection with interrupts enabled.
func New() *CriticalSection {
	return &CriticalSection{}
}

// Enter disables interrupts if this is the outermost call, and returns a
// token that must be passed to Exit exactly once. inHandler should be true
// when the calling code is itself running inside the simulated interrupt
// dispatcher (see Dispatcher below); Exit will then skip re-enabling
// interrupts, matching the source kernel's discipline of never re-enabling
// from inside a handler.
func (c *CriticalSection) Enter(inHandler bool) (exit func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.depth++
	if c.depth == 1 {
		c.disabled = true
	}

	exited := false
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if exited {
			return
		}
		exited = true

		c.depth--
		if c.depth == 0 && !inHandler {
			c.disabled = false
		}
	}
}

// Disabled reports whether the guard currently considers interrupts
// disabled. Exposed for tests and for drivers that want to assert they are
// running with the core's lists stable.
func (c *CriticalSection) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Dispatcher tracks whether a simulated interrupt handler is currently
// running (one process-wide flag, not per goroutine), so CriticalSection.Enter can be called with
// the correct inHandler value without threading it through every call site.
type Dispatcher struct {
	mu        sync.Mutex
	inHandler bool
}

// NewDispatcher returns a Dispatcher with no handler running.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// RunHandler invokes fn with InHandler() reporting true for its duration,
// matching the real dispatcher setting the flag around every handler.
func (d *Dispatcher) RunHandler(fn func()) {
	d.mu.Lock()
	prev := d.inHandler
	d.inHandler = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inHandler = prev
		d.mu.Unlock()
	}()

	fn()
}

// InHandler reports whether the calling code is currently inside a
// RunHandler call.
func (d *Dispatcher) InHandler() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inHandler
}
