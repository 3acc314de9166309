// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/GermanBionicSystems/dhtxx/bcm283x"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Variant selects the sensor model.
type Variant int

const (
	// DHT11 is the blue, cheaper sensor. Humidity 20-90%, temperature 0-50°C.
	DHT11 Variant = iota + 1
	// DHT22 is the white sensor, also sold as AM2302. Humidity 0-100%,
	// temperature -40-80°C.
	DHT22
)

func (v Variant) String() string {
	switch v {
	case DHT11:
		return "DHT11"
	case DHT22:
		return "DHT22"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Valid reports whether v is a known sensor model.
func (v Variant) Valid() bool {
	return v == DHT11 || v == DHT22
}

// ParseVariant returns the Variant named s, case insensitive. AM2302 is an
// alias of DHT22.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "dht11":
		return DHT11, nil
	case "dht22", "am2302":
		return DHT22, nil
	default:
		return 0, invalidArgument("unknown sensor variant %q", s)
	}
}

// Envelope is the measurement range of a sensor model. Readings outside of
// it are rejected.
type Envelope struct {
	MinHumidity, MaxHumidity       float64
	MinTemperature, MaxTemperature float64
}

// Envelope returns the measurement range of v.
func (v Variant) Envelope() Envelope {
	if v == DHT11 {
		return Envelope{20, 90, 0, 50}
	}
	return Envelope{0, 100, -40, 80}
}

// minInterval is the shortest time the datasheet allows between two reads.
func (v Variant) minInterval() time.Duration {
	if v == DHT11 {
		return time.Second
	}
	return 2 * time.Second
}

// Reading is a calibrated measurement. Humidity is in %RH and Temperature in
// °C.
type Reading struct {
	Humidity    float64
	Temperature float64
}

// Env converts the reading to periph units. Pressure is not measured.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(math.Round(r.Temperature*10))*(physic.Celsius/10),
		Humidity:    physic.RelativeHumidity(math.Round(r.Humidity*10)) * physic.MilliRH,
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("%8.3f %8.3f", r.Humidity, r.Temperature)
}

// Header pin numbers accepted by Acquire.
const (
	MinPin = 1
	MaxPin = 40
)

// Opts holds the protocol parameters.
type Opts struct {
	// MaxTicks is the number of polls after which a wait for a level change
	// is abandoned.
	MaxTicks uint32
	// StartHigh is how long the line is held high before the start signal.
	StartHigh time.Duration
	// StartLow is the length of the start signal. It is busy waited.
	StartLow time.Duration
	// SettleReads is the number of discarded reads after the line is
	// released.
	SettleReads int
	// Layout is the register map used by Acquire.
	Layout bcm283x.Layout

	// Retries is the number of additional attempts made by Dev.Sense.
	Retries int
	// MinInterval overrides the minimum time between two reads of a Dev.
	// Zero selects the datasheet value.
	MinInterval time.Duration
}

// DefaultOpts are the recommended options.
var DefaultOpts = Opts{
	MaxTicks:    32000,
	StartHigh:   500 * time.Millisecond,
	StartLow:    20 * time.Millisecond,
	SettleReads: 50,
	Layout:      bcm283x.DefaultLayout,
}

// Acquire reads the sensor of model v wired to GPIO pin, using the memory
// mapped GPIO registers and DefaultOpts.
//
// Every failure is terminal for the call and returned as an *Error; the
// caller may retry. Acquire busy waits for a few tens of milliseconds and
// cannot be interrupted once started.
func Acquire(pin int, v Variant) (Reading, error) {
	return AcquireOpts(pin, v, &DefaultOpts)
}

// AcquireOpts is Acquire with explicit options.
func AcquireOpts(pin int, v Variant, opts *Opts) (Reading, error) {
	if pin < MinPin || pin > MaxPin {
		return Reading{}, invalidArgument("invalid pin %d, must be in [%d, %d]", pin, MinPin, MaxPin)
	}
	if !v.Valid() {
		return Reading{}, invalidArgument("unknown sensor variant %d", int(v))
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	regs, err := bcm283x.Open(&opts.Layout)
	if err != nil {
		return Reading{}, hardwareError(err)
	}
	defer regs.Close()
	p, err := regs.Pin(pin)
	if err != nil {
		return Reading{}, hardwareError(err)
	}
	return read(p, v, opts)
}

// Read reads the sensor of model v wired to p. It is the engine used by
// Acquire, usable with any gpio.PinIO, e.g. one from gpioreg.
func Read(p gpio.PinIO, v Variant, opts *Opts) (Reading, error) {
	if p == nil {
		return Reading{}, invalidArgument("nil pin")
	}
	if !v.Valid() {
		return Reading{}, invalidArgument("unknown sensor variant %d", int(v))
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	return read(p, v, opts)
}

func read(p gpio.PinIO, v Variant, opts *Opts) (Reading, error) {
	t, err := Capture(p, opts)
	if err != nil {
		return Reading{}, err
	}
	return Convert(Decode(t), v)
}
