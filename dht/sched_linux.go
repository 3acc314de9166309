// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"golang.org/x/sys/unix"
)

// fifoMaxPriority is sched_get_priority_max(SCHED_FIFO) on Linux.
const fifoMaxPriority = 99

// setPriorityMax moves the calling thread to SCHED_FIFO. It requires
// CAP_SYS_NICE.
func setPriorityMax() error {
	return unix.SchedSetAttr(0, &unix.SchedAttr{Policy: unix.SCHED_FIFO, Priority: fifoMaxPriority}, 0)
}

func setPriorityNormal() error {
	return unix.SchedSetAttr(0, &unix.SchedAttr{Policy: unix.SCHED_NORMAL}, 0)
}

// lockMemory prevents page faults during the capture. It requires
// CAP_IPC_LOCK or a large enough RLIMIT_MEMLOCK.
func lockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}

func unlockMemory() error {
	return unix.Munlockall()
}
