// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package dht

import (
	"errors"
)

var errNoRealtime = errors.New("real-time scheduling is not supported on this platform")

func setPriorityMax() error {
	return errNoRealtime
}

func setPriorityNormal() error {
	return errNoRealtime
}

func lockMemory() error {
	return errNoRealtime
}

func unlockMemory() error {
	return errNoRealtime
}
