// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Capture sends the start signal on p and records the pulse train sent back
// by the sensor.
//
// The calling goroutine is pinned to its thread, which is moved to the
// highest real-time priority when allowed, and the garbage collector is
// paused until the capture ends.
func Capture(p gpio.PinIO, opts *Opts) (*Timings, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	rt := acquireRealtime()
	defer rt.release()

	if err := p.Out(gpio.High); err != nil {
		return nil, hardwareError(err)
	}
	time.Sleep(opts.StartHigh)
	if err := p.Out(gpio.Low); err != nil {
		return nil, hardwareError(err)
	}
	// The sensor answers ~20µs after release; a sleep could overshoot by
	// milliseconds.
	spin(opts.StartLow)
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, hardwareError(err)
	}
	for i := 0; i < opts.SettleReads; i++ {
		p.Read()
	}

	limit := opts.MaxTicks
	for i := uint32(0); ; i++ {
		if i >= limit {
			return nil, timeoutError(PhaseStart, 0)
		}
		if p.Read() == gpio.Low {
			break
		}
	}

	t := &Timings{}
	for i := 0; i < NumPulses; i++ {
		for p.Read() == gpio.Low {
			t.Low[i]++
			if t.Low[i] >= limit {
				return nil, timeoutError(PhaseLow, i)
			}
		}
		for p.Read() == gpio.High {
			t.High[i]++
			if t.High[i] >= limit {
				return nil, timeoutError(PhaseHigh, i)
			}
		}
	}
	return t, nil
}

// spin busy waits for d on the monotonic clock.
func spin(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; {
	}
}
