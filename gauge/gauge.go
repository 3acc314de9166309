// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gauge

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/GermanBionicSystems/dhtxx/dht"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells of each bar.
	Width   int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts are the options used when New is passed nil.
var DefaultOpts = Opts{Width: 20}

// Colours of the bars.
var (
	empty = color.NRGBA{48, 48, 48, 255}
	dry   = color.NRGBA{255, 220, 160, 255}
	wet   = color.NRGBA{0, 64, 255, 255}
	cold  = color.NRGBA{0, 160, 255, 255}
	hot   = color.NRGBA{255, 32, 0, 255}
)

const reset = "\033[0m"

// Dev renders readings on a terminal as two coloured bars, humidity then
// temperature, followed by the values.
type Dev struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev writing to w. A nil w selects stdout, with ANSI codes
// translated on Windows consoles.
func New(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultOpts.Width
	}
	return &Dev{w: w, width: width, palette: *p}
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes and ends the line.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\n"+reset)
	return err
}

// Show redraws the current line with r, scaled into the envelope of v.
func (d *Dev) Show(r dht.Reading, v dht.Variant) error {
	e := v.Envelope()
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r" + reset)
	d.bar(Fill(r.Humidity, e.MinHumidity, e.MaxHumidity, d.width), dry, wet)
	_, _ = fmt.Fprintf(&d.buf, "%s %8.3f%%RH ", reset, r.Humidity)
	d.bar(Fill(r.Temperature, e.MinTemperature, e.MaxTemperature, d.width), cold, hot)
	_, _ = fmt.Fprintf(&d.buf, "%s %8.3f°C ", reset, r.Temperature)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// bar writes d.width cells, the first n blended from lo to hi.
func (d *Dev) bar(n int, lo, hi color.NRGBA) {
	for i := 0; i < d.width; i++ {
		c := empty
		if i < n {
			c = blend(lo, hi, i, d.width)
		}
		_, _ = d.buf.WriteString(d.palette.Block(c))
	}
}

// Fill returns the number of cells out of width that v covers in [lo, hi],
// rounded to the nearest cell and clamped.
func Fill(v, lo, hi float64, width int) int {
	if width <= 0 || hi <= lo {
		return 0
	}
	n := int(math.Round((v - lo) / (hi - lo) * float64(width)))
	if n < 0 {
		return 0
	}
	if n > width {
		return width
	}
	return n
}

func blend(lo, hi color.NRGBA, i, width int) color.NRGBA {
	if width <= 1 {
		return hi
	}
	f := float64(i) / float64(width-1)
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
	}
	return color.NRGBA{mix(lo.R, hi.R), mix(lo.G, hi.G), mix(lo.B, hi.B), 255}
}

var _ conn.Resource = &Dev{}
