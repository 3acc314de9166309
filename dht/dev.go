// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Dev is a DHT11 or DHT22 sensor on a GPIO line.
type Dev struct {
	p       gpio.PinIO
	variant Variant
	opts    Opts

	mu       sync.Mutex
	last     time.Time
	shutdown chan struct{}
}

// New returns a Dev for a sensor of model v wired to p. A nil opts selects
// DefaultOpts.
//
// The line is driven high so the sensor is ready for the first read.
func New(p gpio.PinIO, v Variant, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, invalidArgument("nil pin")
	}
	if !v.Valid() {
		return nil, invalidArgument("unknown sensor variant %d", int(v))
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := p.Out(gpio.High); err != nil {
		return nil, hardwareError(err)
	}
	return &Dev{p: p, variant: v, opts: *opts}, nil
}

// Variant returns the sensor model.
func (d *Dev) Variant() Variant {
	return d.variant
}

// Sense implements physic.SenseEnv.
//
// It waits if the previous read is more recent than the minimum interval,
// then makes up to 1+Opts.Retries attempts. Pressure is always zero.
func (d *Dev) Sense(env *physic.Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0

	r, err := d.Read()
	if err != nil {
		return err
	}
	e := r.Env()
	env.Temperature = e.Temperature
	env.Humidity = e.Humidity
	return nil
}

// Read is Sense returning the calibrated floating point values.
func (d *Dev) Read() (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var r Reading
	var err error
	for attempt := 0; attempt <= d.opts.Retries; attempt++ {
		if wait := d.minInterval() - time.Since(d.last); !d.last.IsZero() && wait > 0 {
			time.Sleep(wait)
		}
		r, err = read(d.p, d.variant, &d.opts)
		d.last = time.Now()
		if err == nil {
			return r, nil
		}
	}
	return Reading{}, err
}

// SenseContinuous implements physic.SenseEnv. The interval cannot be shorter
// than the minimum interval of the sensor. Call Halt to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < d.minInterval() {
		return nil, fmt.Errorf("dht: invalid interval %s, minimum is %s", interval, d.minInterval())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("dht: sense continuous already running")
	}
	d.shutdown = make(chan struct{})
	stop := d.shutdown
	ch := make(chan physic.Env, 16)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					select {
					case ch <- e:
					case <-stop:
						return
					}
				}
			}
		}
	}()
	return ch, nil
}

// Halt implements conn.Resource. It stops a running SenseContinuous.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(env *physic.Env) {
	env.Temperature = physic.Celsius / 10
	env.Pressure = 0
	env.Humidity = physic.MilliRH
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s}", d.variant, d.p)
}

func (d *Dev) minInterval() time.Duration {
	if d.opts.MinInterval > 0 {
		return d.opts.MinInterval
	}
	return d.variant.minInterval()
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
