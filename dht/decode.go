// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
)

// NumPulses is the number of pulses sent by the sensor: one preamble pulse
// followed by 40 data bits.
const NumPulses = 41

// Timings holds the number of polling ticks the line spent low and high for
// each pulse. Index 0 is the preamble.
type Timings struct {
	Low  [NumPulses]uint32
	High [NumPulses]uint32
}

// Frame is a decoded transmission: humidity high and low bytes, temperature
// high and low bytes, then the checksum.
type Frame [5]byte

// Checksum returns the low 8 bits of the sum of the first four bytes.
func (f Frame) Checksum() byte {
	return f[0] + f[1] + f[2] + f[3]
}

// Valid reports whether the checksum byte matches the payload.
func (f Frame) Valid() bool {
	return f[4] == f.Checksum()
}

func (f Frame) String() string {
	return fmt.Sprintf("[0x%02x 0x%02x 0x%02x 0x%02x 0x%02x]", f[0], f[1], f[2], f[3], f[4])
}

// Decode turns captured pulse timings into a frame.
//
// The low part of every data bit lasts ~50µs, so its average tick count is
// the reference: a high part at least as long as the average is a 1
// (~70µs), anything shorter is a 0 (~26µs). The preamble is ignored.
func Decode(t *Timings) Frame {
	var sum uint64
	for i := 1; i < NumPulses; i++ {
		sum += uint64(t.Low[i])
	}
	avg := sum / (NumPulses - 1)

	var f Frame
	for i := 0; i < NumPulses-1; i++ {
		var bit byte
		if uint64(t.High[i+1]) >= avg {
			bit = 1
		}
		f[i/8] = f[i/8]<<1 | bit
	}
	return f
}

// Convert validates f and converts it into calibrated values for the sensor
// variant v.
func Convert(f Frame, v Variant) (Reading, error) {
	if !v.Valid() {
		return Reading{}, invalidArgument("unknown sensor variant %d", int(v))
	}
	if !f.Valid() {
		return Reading{}, &Error{Kind: Checksum, Msg: fmt.Sprintf("checksum error: got 0x%02x, want 0x%02x", f[4], f.Checksum())}
	}

	var r Reading
	switch v {
	case DHT11:
		r.Humidity = float64(f[0]) + float64(f[1])/10
		r.Temperature = float64(f[2]) + float64(f[3])/10
	case DHT22:
		r.Humidity = float64(uint16(f[0])<<8|uint16(f[1])) / 10
		r.Temperature = float64(uint16(f[2]&0x7f)<<8|uint16(f[3])) / 10
		// Sign and magnitude, not two's complement.
		if f[2]&0x80 != 0 {
			r.Temperature = -r.Temperature
		}
	}

	e := v.Envelope()
	if r.Humidity < e.MinHumidity || r.Humidity > e.MaxHumidity {
		return Reading{}, rangeError("humidity", r.Humidity)
	}
	if r.Temperature < e.MinTemperature || r.Temperature > e.MaxTemperature {
		return Reading{}, rangeError("temperature", r.Temperature)
	}
	return r, nil
}
