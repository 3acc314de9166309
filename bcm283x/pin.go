// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is a GPIO line of a mapped register window.
//
// Pull resistors, edge detection and PWM are not supported.
type Pin struct {
	regs   *Regs
	number int
	name   string

	// Precomputed level register position, so Read stays cheap inside
	// polling loops.
	level int
	mask  uint32
}

// Pin returns the GPIO line number n.
func (r *Regs) Pin(n int) (*Pin, error) {
	i, mask, err := r.bank(levelReg, n)
	if err != nil {
		return nil, err
	}
	if _, _, err := r.fsel(n); err != nil {
		return nil, err
	}
	return &Pin{regs: r, number: n, name: "GPIO" + strconv.Itoa(n), level: i, mask: mask}, nil
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.number
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	f, err := p.regs.Function(p.number)
	if err != nil {
		return pin.FuncNone
	}
	switch f {
	case 0:
		return gpio.IN
	case 1:
		return gpio.OUT
	case 2:
		return pin.Func("ALT5")
	case 3:
		return pin.Func("ALT4")
	default:
		return pin.Func("ALT" + strconv.Itoa(int(f)-4))
	}
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.IN, gpio.OUT}
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT:
		return p.regs.SetOutput(p.number)
	default:
		return fmt.Errorf("bcm283x: %s: function %q is not supported", p, f)
	}
}

// In implements gpio.PinIn.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.PullNoChange && pull != gpio.Float {
		return fmt.Errorf("bcm283x: %s: pull %s is not supported", p, pull)
	}
	if edge != gpio.NoEdge {
		return fmt.Errorf("bcm283x: %s: edge detection is not supported", p)
	}
	return p.regs.SetInput(p.number)
}

// Read implements gpio.PinIn.
//
// It returns gpio.Low once the register window has been closed.
func (p *Pin) Read() gpio.Level {
	w := p.regs.words
	if w == nil {
		return gpio.Low
	}
	return gpio.Level(atomic.LoadUint32(&w[p.level])&p.mask != 0)
}

// WaitForEdge implements gpio.PinIn. Edge detection is not supported so it
// always returns false.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
//
// The level is latched before the line is switched to output so the pin never
// glitches to the previous level.
func (p *Pin) Out(l gpio.Level) error {
	if err := p.regs.Write(p.number, bool(l)); err != nil {
		return err
	}
	return p.regs.SetOutput(p.number)
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("bcm283x: PWM is not supported")
}

var _ conn.Resource = &Pin{}
var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
