// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Tick counts of a typical pulse train.
const (
	ticksPreamble = 80
	ticksLow      = 50
	ticksZero     = 26
	ticksOne      = 70
)

// timingsFor returns the timings the sensor would produce when sending f.
func timingsFor(f Frame) *Timings {
	t := &Timings{}
	t.Low[0] = ticksPreamble
	t.High[0] = ticksPreamble
	for i := 0; i < NumPulses-1; i++ {
		t.Low[i+1] = ticksLow
		t.High[i+1] = ticksZero
		if f[i/8]&(0x80>>uint(i%8)) != 0 {
			t.High[i+1] = ticksOne
		}
	}
	return t
}

// withChecksum returns the frame made of b followed by its checksum.
func withChecksum(b0, b1, b2, b3 byte) Frame {
	f := Frame{b0, b1, b2, b3}
	f[4] = f.Checksum()
	return f
}

func TestDecode(t *testing.T) {
	for _, want := range []Frame{
		{25, 0, 26, 0, 51},
		{0x01, 0x90, 0x00, 0xfa, 0x8b},
		{0xff, 0xff, 0xff, 0xff, 0xfc},
		{},
		{0xaa, 0x55, 0x0f, 0xf0, 0xfe},
	} {
		if diff := cmp.Diff(Decode(timingsFor(want)), want); diff != "" {
			t.Errorf("Decode() difference (-got +want):\n%s", diff)
		}
	}
}

func TestDecode_Deterministic(t *testing.T) {
	tm := timingsFor(Frame{0x01, 0x90, 0x00, 0xfa, 0x8b})
	// Jitter that stays on the right side of the average.
	tm.Low[3] = 53
	tm.Low[9] = 47
	tm.High[5] += 9
	first := Decode(tm)
	for i := 0; i < 10; i++ {
		if got := Decode(tm); got != first {
			t.Fatalf("Decode() = %s, previously %s", got, first)
		}
	}
	r1, err1 := Convert(first, DHT22)
	r2, err2 := Convert(Decode(tm), DHT22)
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	}
	if r1 != r2 {
		t.Errorf("Convert() = %v then %v", r1, r2)
	}
}

func TestDecode_AverageTie(t *testing.T) {
	tm := timingsFor(Frame{})
	// Lows average to 50 (truncated from 50.975); a high equal to the
	// average is a 1, one tick below is a 0.
	for i := 1; i < NumPulses; i++ {
		tm.Low[i] = 51
	}
	tm.Low[1] = 50
	tm.High[1] = 50
	tm.High[2] = 49
	// The preamble is not part of the average.
	tm.Low[0] = 10000
	got := Decode(tm)
	if got[0] != 0x80 {
		t.Errorf("Decode()[0] = 0x%02x, want 0x80", got[0])
	}
}

func TestChecksum(t *testing.T) {
	for _, prefix := range [][4]byte{
		{0, 0, 0, 0},
		{25, 0, 26, 0},
		{0xff, 0xff, 0xff, 0xff},
		{0x80, 0x80, 0x01, 0x02},
	} {
		f := withChecksum(prefix[0], prefix[1], prefix[2], prefix[3])
		if !f.Valid() {
			t.Errorf("%s: Valid() = false", f)
		}
		if want := byte((int(prefix[0]) + int(prefix[1]) + int(prefix[2]) + int(prefix[3])) & 0xff); f[4] != want {
			t.Errorf("%s: checksum 0x%02x, want 0x%02x", f, f[4], want)
		}
		for _, delta := range []byte{1, 0x80, 0xff} {
			bad := f
			bad[4] += delta
			if bad.Valid() {
				t.Errorf("%s: Valid() = true", bad)
			}
		}
	}
}

func TestConvert(t *testing.T) {
	for _, tc := range []struct {
		name    string
		frame   Frame
		variant Variant
		want    Reading
		wantErr error
	}{
		{
			name:    "DHT11",
			frame:   Frame{25, 0, 26, 0, 51},
			variant: DHT11,
			want:    Reading{Humidity: 25, Temperature: 26},
		},
		{
			name:    "DHT11 decimals",
			frame:   withChecksum(45, 0, 21, 7),
			variant: DHT11,
			want:    Reading{Humidity: 45, Temperature: 21.7},
		},
		{
			name:    "DHT22",
			frame:   Frame{0x01, 0x90, 0x00, 0xfa, 0x8b},
			variant: DHT22,
			want:    Reading{Humidity: 40, Temperature: 25},
		},
		{
			name:    "DHT22 negative",
			frame:   withChecksum(0x02, 0x8c, 0x80, 0x65),
			variant: DHT22,
			want:    Reading{Humidity: 65.2, Temperature: -10.1},
		},
		{
			name:    "DHT22 lowest",
			frame:   withChecksum(0x00, 0x00, 0x81, 0x90),
			variant: DHT22,
			want:    Reading{Humidity: 0, Temperature: -40},
		},
		{
			name:    "DHT22 highest",
			frame:   withChecksum(0x03, 0xe8, 0x03, 0x20),
			variant: DHT22,
			want:    Reading{Humidity: 100, Temperature: 80},
		},
		{
			name:    "DHT22 below",
			frame:   withChecksum(0x01, 0x90, 0x81, 0x91),
			variant: DHT22,
			wantErr: ErrRange,
		},
		{
			name:    "DHT22 above",
			frame:   withChecksum(0x01, 0x90, 0x03, 0x21),
			variant: DHT22,
			wantErr: ErrRange,
		},
		{
			name:    "DHT22 humidity above",
			frame:   withChecksum(0x03, 0xe9, 0x00, 0xfa),
			variant: DHT22,
			wantErr: ErrRange,
		},
		{
			name:    "DHT11 humidity below",
			frame:   withChecksum(19, 9, 25, 0),
			variant: DHT11,
			wantErr: ErrRange,
		},
		{
			name:    "DHT11 temperature above",
			frame:   withChecksum(40, 0, 50, 1),
			variant: DHT11,
			wantErr: ErrRange,
		},
		{
			name:    "checksum",
			frame:   Frame{0x01, 0x90, 0x00, 0xfa, 0x8c},
			variant: DHT22,
			wantErr: ErrChecksum,
		},
		{
			name:    "variant",
			frame:   Frame{25, 0, 26, 0, 51},
			variant: Variant(3),
			wantErr: ErrInvalidArgument,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.frame, tc.variant)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Convert() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Convert() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestConvert_RangeError(t *testing.T) {
	_, err := Convert(withChecksum(0x01, 0x90, 0x81, 0x91), DHT22)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Convert() error = %v, want *Error", err)
	}
	if e.Quantity != "temperature" || e.Value != -40.1 {
		t.Errorf("got %s %v, want temperature -40.1", e.Quantity, e.Value)
	}
	if want := "dht: temperature out of range:  -40.100"; e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}
