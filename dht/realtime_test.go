// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	rdebug "runtime/debug"
	"sync"
	"testing"
	"time"
)

// gcPercent returns the current GOGC value.
func gcPercent() int {
	p := rdebug.SetGCPercent(-1)
	rdebug.SetGCPercent(p)
	return p
}

func TestRealtime_Nested(t *testing.T) {
	before := gcPercent()
	a := acquireRealtime()
	b := acquireRealtime()
	if got := gcPercent(); got != -1 {
		t.Fatalf("GOGC during capture = %d, want -1", got)
	}
	a.release()
	if got := gcPercent(); got != -1 {
		t.Errorf("GOGC while another capture runs = %d, want -1", got)
	}
	b.release()
	if got := gcPercent(); got != before {
		t.Errorf("GOGC after captures = %d, want %d", got, before)
	}
	if process.users != 0 || process.locked {
		t.Errorf("users = %d, locked = %t", process.users, process.locked)
	}
}

func TestRead_Overlapping(t *testing.T) {
	before := gcPercent()
	f := Frame{0x01, 0x90, 0x00, 0xfa, 0x8b}
	first := testOpts
	first.StartHigh = 30 * time.Millisecond
	second := testOpts
	second.StartHigh = 60 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, o := range []Opts{first, second} {
		wg.Add(1)
		go func(i int, o Opts) {
			defer wg.Done()
			// The second read starts while the first one holds the line
			// high.
			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			_, errs[i] = Read(newScriptPin(f), DHT22, &o)
		}(i, o)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("read %d: %v", i, err)
		}
	}
	if got := gcPercent(); got != before {
		t.Errorf("GOGC after overlapping reads = %d, want %d", got, before)
	}
}
