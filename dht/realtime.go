// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"runtime"
	rdebug "runtime/debug"
	"sync"

	"github.com/womat/debug"
)

// realtime is the scope during which the capture runs undisturbed: the
// goroutine owns its OS thread, which runs at the highest FIFO priority if
// the process is allowed to. Memory is locked and no garbage collection is
// started.
//
// Failing to change the priority or lock memory only degrades timing, which
// the checksum guards, so it is logged and not returned.
type realtime struct{}

// process holds the process wide part of the scope. It is shared by
// overlapping captures: the first one to enter changes it and the last one
// to leave restores it.
var process struct {
	mu        sync.Mutex
	users     int
	gcPercent int
	locked    bool
}

func acquireRealtime() *realtime {
	runtime.LockOSThread()
	process.mu.Lock()
	if process.users == 0 {
		process.gcPercent = rdebug.SetGCPercent(-1)
		if err := lockMemory(); err != nil {
			logf("dht: running without locked memory: %v", err)
			process.locked = false
		} else {
			process.locked = true
		}
	}
	process.users++
	process.mu.Unlock()

	// The scheduling policy is per thread.
	if err := setPriorityMax(); err != nil {
		logf("dht: running without real-time priority: %v", err)
	}
	return &realtime{}
}

// release is always safe to call, even if the priority was never raised.
func (rt *realtime) release() {
	if err := setPriorityNormal(); err != nil {
		logf("dht: failed to restore normal priority: %v", err)
	}

	process.mu.Lock()
	process.users--
	if process.users == 0 {
		if process.locked {
			if err := unlockMemory(); err != nil {
				logf("dht: failed to unlock memory: %v", err)
			}
			process.locked = false
		}
		rdebug.SetGCPercent(process.gcPercent)
	}
	process.mu.Unlock()
	runtime.UnlockOSThread()
}

// logf writes to the debug log once the application has configured it.
func logf(format string, a ...interface{}) {
	if debug.DebugLog != nil {
		debug.DebugLog.Printf(format, a...)
	}
}
