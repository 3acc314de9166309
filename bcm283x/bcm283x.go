// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrConfig is returned when the platform description cannot be read or
	// is malformed.
	ErrConfig = errors.New("bcm283x: invalid platform description")
	// ErrPermission is returned when the physical memory device cannot be
	// opened.
	ErrPermission = errors.New("bcm283x: physical memory access denied")
	// ErrMap is returned when the register window cannot be mapped.
	ErrMap = errors.New("bcm283x: failed to map registers")
	// ErrInvalidHandle is returned by any operation on a nil or closed Regs.
	ErrInvalidHandle = errors.New("bcm283x: invalid register handle")
	// ErrInvalidPin is returned for a pin number outside of the layout.
	ErrInvalidPin = errors.New("bcm283x: invalid pin")
)

// Layout describes where the GPIO controller lives and how its registers are
// arranged. Register positions are 32 bit word indices relative to the start
// of the mapped window.
type Layout struct {
	// DeviceTreePath is the address translation table of the SoC bus.
	DeviceTreePath string
	// RangesOffset is the byte offset of the big endian parent bus address
	// within DeviceTreePath.
	RangesOffset int64
	// MemPath is the physical memory device.
	MemPath string
	// BaseOffset is added to the parent bus address to find the GPIO
	// controller. It must keep the result page aligned.
	BaseOffset uint32
	// Size of the mapped window in bytes.
	Size int

	FuncSelect int // GPFSEL0
	Set        int // GPSET0
	Clear      int // GPCLR0
	Level      int // GPLEV0

	// MaxPin is the highest GPIO line number of the controller.
	MaxPin int
}

// DefaultLayout is the register map of the BCM2835, BCM2836, BCM2837 and
// BCM2711.
var DefaultLayout = Layout{
	DeviceTreePath: "/proc/device-tree/soc/ranges",
	RangesOffset:   4,
	MemPath:        "/dev/mem",
	BaseOffset:     0x200000,
	Size:           4096,
	FuncSelect:     0,
	Set:            7,
	Clear:          10,
	Level:          13,
	MaxPin:         53,
}

// BaseAddress returns the physical address of the SoC peripheral bus as
// described by l.DeviceTreePath. A nil l selects DefaultLayout.
//
// The ranges property starts with the child bus address followed by the
// parent bus address; the latter is stored big endian whatever the CPU
// endianness is.
func BaseAddress(l *Layout) (uint32, error) {
	if l == nil {
		l = &DefaultLayout
	}
	f, err := os.Open(l.DeviceTreePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	defer f.Close()
	if l.RangesOffset < 0 {
		return 0, fmt.Errorf("%w: negative ranges offset %d", ErrConfig, l.RangesOffset)
	}
	buf := make([]byte, l.RangesOffset+4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrConfig, l.DeviceTreePath, err)
	}
	return binary.BigEndian.Uint32(buf[l.RangesOffset:]), nil
}

// Regs is a handle over the mapped GPIO register window.
//
// It is not safe for concurrent use. Only one acquisition may drive a given
// line at a time.
type Regs struct {
	layout Layout
	words  []uint32
	unmap  func() error
}

// Open maps the GPIO register window described by l.
//
// The memory device is closed before returning; the mapping stays valid until
// Close is called or the process exits.
func Open(l *Layout) (*Regs, error) {
	if l == nil {
		l = &DefaultLayout
	}
	if l.Size <= 0 || l.Size%4 != 0 {
		return nil, fmt.Errorf("%w: window size %d is not a positive multiple of 4", ErrConfig, l.Size)
	}
	base, err := BaseAddress(l)
	if err != nil {
		return nil, err
	}
	b, unmap, err := mapWindow(l.MemPath, int64(base)+int64(l.BaseOffset), l.Size)
	if err != nil {
		return nil, err
	}
	return newRegs(l, b, unmap), nil
}

// Close unmaps the register window. Any later use of the handle, or of a Pin
// obtained from it, fails with ErrInvalidHandle.
func (r *Regs) Close() error {
	if r == nil || r.words == nil {
		return ErrInvalidHandle
	}
	r.words = nil
	if r.unmap == nil {
		return nil
	}
	return r.unmap()
}

// Layout returns the layout the handle was opened with, or the zero Layout
// for a nil handle.
func (r *Regs) Layout() Layout {
	if r == nil {
		return Layout{}
	}
	return r.layout
}

// SetInput clears the function select field of pin, configuring it as an
// input.
func (r *Regs) SetInput(pin int) error {
	i, shift, err := r.fsel(pin)
	if err != nil {
		return err
	}
	atomic.StoreUint32(&r.words[i], atomic.LoadUint32(&r.words[i])&^(7<<shift))
	return nil
}

// SetOutput configures pin as an output.
func (r *Regs) SetOutput(pin int) error {
	i, shift, err := r.fsel(pin)
	if err != nil {
		return err
	}
	v := atomic.LoadUint32(&r.words[i]) &^ (7 << shift)
	atomic.StoreUint32(&r.words[i], v|1<<shift)
	return nil
}

// Function returns the raw 3 bit function select value of pin.
func (r *Regs) Function(pin int) (uint32, error) {
	i, shift, err := r.fsel(pin)
	if err != nil {
		return 0, err
	}
	return (atomic.LoadUint32(&r.words[i]) >> shift) & 7, nil
}

// Read returns true if pin is currently high.
func (r *Regs) Read(pin int) (bool, error) {
	i, mask, err := r.bank(levelReg, pin)
	if err != nil {
		return false, err
	}
	return atomic.LoadUint32(&r.words[i])&mask != 0, nil
}

// Write drives pin high or low.
//
// The set and clear registers only act on bits written as 1 so no read is
// needed.
func (r *Regs) Write(pin int, high bool) error {
	reg := clearReg
	if high {
		reg = setReg
	}
	i, mask, err := r.bank(reg, pin)
	if err != nil {
		return err
	}
	atomic.StoreUint32(&r.words[i], mask)
	return nil
}

func newRegs(l *Layout, words []uint32, unmap func() error) *Regs {
	return &Regs{layout: *l, words: words, unmap: unmap}
}

// fsel returns the word index and bit shift of the function select field of
// pin. There are 10 pins per register, 3 bits each.
func (r *Regs) fsel(pin int) (int, uint, error) {
	if err := r.check(pin); err != nil {
		return 0, 0, err
	}
	i := r.layout.FuncSelect + pin/10
	if i >= len(r.words) {
		return 0, 0, fmt.Errorf("%w: %d is outside of the register window", ErrInvalidPin, pin)
	}
	return i, uint(pin%10) * 3, nil
}

// Selectors of the register banks, resolved once the handle is known to be
// valid.
func levelReg(l *Layout) int { return l.Level }
func setReg(l *Layout) int   { return l.Set }
func clearReg(l *Layout) int { return l.Clear }

// bank returns the word index and bit mask of pin in the 2 words register
// bank selected by reg.
func (r *Regs) bank(reg func(*Layout) int, pin int) (int, uint32, error) {
	if err := r.check(pin); err != nil {
		return 0, 0, err
	}
	i := reg(&r.layout) + pin/32
	if i >= len(r.words) {
		return 0, 0, fmt.Errorf("%w: %d is outside of the register window", ErrInvalidPin, pin)
	}
	return i, 1 << uint(pin%32), nil
}

func (r *Regs) check(pin int) error {
	if r == nil || r.words == nil {
		return ErrInvalidHandle
	}
	if pin < 0 || pin > r.layout.MaxPin {
		return fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}
	return nil
}
