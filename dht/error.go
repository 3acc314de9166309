// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
	"unicode/utf8"
)

// MaxMessageLen bounds the length in bytes of the text returned by
// Error.Error. Truncation never splits a UTF-8 sequence.
const MaxMessageLen = 128

// Kind classifies why an acquisition failed.
type Kind int

const (
	// InvalidArgument is a bad pin, variant or pin handle. Nothing was sent
	// to the hardware.
	InvalidArgument Kind = iota + 1
	// Hardware is a failure of the register interface. Use errors.Is with
	// bcm283x.ErrConfig, bcm283x.ErrPermission or bcm283x.ErrMap to tell them
	// apart.
	Hardware
	// Timeout means the line did not change level within Opts.MaxTicks.
	Timeout
	// Checksum means the received frame failed its integrity check.
	Checksum
	// Range means a decoded value is outside of the sensor envelope.
	Range
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid argument"
	case Hardware:
		return "hardware error"
	case Timeout:
		return "timeout"
	case Checksum:
		return "checksum error"
	case Range:
		return "out of range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Phase identifies which wait of the capture timed out.
type Phase int

const (
	// PhaseStart is the wait for the sensor to pull the line low after the
	// host released it.
	PhaseStart Phase = iota
	// PhaseLow is the wait for the sensor to release the line at the end of
	// the low part of a bit.
	PhaseLow
	// PhaseHigh is the wait for the sensor to pull the line low at the end
	// of the high part of a bit.
	PhaseHigh
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseLow:
		return "low"
	case PhaseHigh:
		return "high"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Error is the error returned by every failing acquisition.
type Error struct {
	Kind Kind
	Msg  string

	// Timeout only.
	Phase Phase
	Bit   int

	// Range only: "humidity" or "temperature" and the decoded value.
	Quantity string
	Value    float64

	// Err is the underlying error, if any.
	Err error
}

// Sentinels usable with errors.Is.
var (
	ErrInvalidArgument = &Error{Kind: InvalidArgument, Msg: "invalid argument"}
	ErrHardware        = &Error{Kind: Hardware, Msg: "hardware error"}
	ErrTimeout         = &Error{Kind: Timeout, Msg: "timeout"}
	ErrChecksum        = &Error{Kind: Checksum, Msg: "checksum error"}
	ErrRange           = &Error{Kind: Range, Msg: "out of range"}
)

func (e *Error) Error() string {
	s := "dht: " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	if len(s) > MaxMessageLen {
		n := MaxMessageLen
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	return s
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func invalidArgument(format string, a ...interface{}) error {
	return &Error{Kind: InvalidArgument, Msg: fmt.Sprintf(format, a...)}
}

func hardwareError(err error) error {
	return &Error{Kind: Hardware, Msg: "hardware error", Err: err}
}

func timeoutError(phase Phase, bit int) error {
	e := &Error{Kind: Timeout, Phase: phase, Bit: bit}
	switch phase {
	case PhaseStart:
		e.Bit = -1
		e.Msg = "timeout while waiting for sensor to de-assert pin at initialisation"
	case PhaseLow:
		e.Msg = fmt.Sprintf("timeout while waiting for sensor to assert pin at bit %d", bit)
	default:
		e.Msg = fmt.Sprintf("timeout while waiting for sensor to de-assert pin at bit %d", bit)
	}
	return e
}

func rangeError(quantity string, v float64) error {
	return &Error{Kind: Range, Quantity: quantity, Value: v, Msg: fmt.Sprintf("%s out of range: %8.3f", quantity, v)}
}
