// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dhtxx reads a DHT11 or DHT22 sensor wired to a Raspberry Pi GPIO pin and
// prints the relative humidity and the temperature.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dhtxx/bcm283x"
	"github.com/GermanBionicSystems/dhtxx/dht"
	"github.com/GermanBionicSystems/dhtxx/gauge"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Exit codes.
const (
	exitUsage   = 1
	exitNoPin   = 2
	exitBadPin  = 3
	exitFailure = 4
)

// sensor is the part of dht.Dev used by the command.
type sensor interface {
	Read() (dht.Reading, error)
	Halt() error
}

// acquire makes a single read through the memory mapped registers.
var acquire = dht.AcquireOpts

// openSensor returns the sensor of model v on pin through driver and a
// function releasing the pin.
var openSensor = func(driver string, pin int, v dht.Variant, opts *dht.Opts) (sensor, func() error, error) {
	var p gpio.PinIO
	release := func() error { return nil }
	switch driver {
	case "mem":
		regs, err := bcm283x.Open(&opts.Layout)
		if err != nil {
			return nil, nil, err
		}
		bp, err := regs.Pin(pin)
		if err != nil {
			_ = regs.Close()
			return nil, nil, err
		}
		p = bp
		release = regs.Close
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		if p = gpioreg.ByName("GPIO" + strconv.Itoa(pin)); p == nil {
			return nil, nil, fmt.Errorf("no pin GPIO%d", pin)
		}
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", driver)
	}
	d, err := dht.New(p, v, opts)
	if err != nil {
		_ = release()
		return nil, nil, err
	}
	return d, release, nil
}

func logFlags(level string) (int, error) {
	switch level {
	case "trace", "full":
		return debug.Full, nil
	case "debug":
		return debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug, nil
	case "standard":
		return debug.Standard, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}

// isTerminal reports whether w is a console and returns a writer translating
// ANSI sequences for it.
func isTerminal(w io.Writer) (io.Writer, bool) {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return w, false
	}
	return colorable.NewColorable(f), true
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "dhtxx",
		Usage:     "read a DHT11 or DHT22 humidity and temperature sensor",
		ArgsUsage: "<pin>",
		UsageText: "dhtxx [--dht11|-d] [--driver mem|periph] [--retries N] [--count N] [--gauge] [--log LEVEL] <pin>" +
			"\n\nEXAMPLE:" +
			"\n\tread the DHT22 on GPIO4, as root" +
			"\n\t\tdhtxx 4",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dht11", Aliases: []string{"d"}, Usage: "the sensor is a DHT11"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Value: "dht22", Usage: "`MODEL` of the sensor (dht11|dht22|am2302)"},
			&cli.StringFlag{Name: "driver", Value: "mem", Usage: "`DRIVER` accessing the pin: mem maps the registers from /dev/mem, periph uses the periph.io host drivers"},
			&cli.IntFlag{Name: "retries", Aliases: []string{"r"}, Value: 0, Usage: "additional attempts after a failed read"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of readings, 0 reads until interrupted"},
			&cli.DurationFlag{Name: "interval", Aliases: []string{"i"}, Usage: "time between readings, the sensor minimum when shorter"},
			&cli.BoolFlag{Name: "gauge", Aliases: []string{"g"}, Usage: "draw the readings as coloured bars when printing to a terminal"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Value: "standard", Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Action: func(c *cli.Context) error {
			flags, err := logFlags(c.String("log"))
			if err != nil {
				return cli.Exit(err, exitUsage)
			}
			debug.SetDebug(os.Stderr, flags)

			v, err := dht.ParseVariant(c.String("model"))
			if err != nil {
				return cli.Exit(err, exitUsage)
			}
			if c.Bool("dht11") {
				v = dht.DHT11
			}
			if c.Args().Len() == 0 {
				return cli.Exit("Need to specify GPIO pin", exitNoPin)
			}
			pin, _ := strconv.Atoi(c.Args().First())
			if pin < dht.MinPin || pin > dht.MaxPin {
				return cli.Exit(fmt.Sprintf("Invalid GPIO pin: %d", pin), exitBadPin)
			}
			if c.Int("retries") < 0 || c.Int("count") < 0 {
				return cli.Exit("retries and count cannot be negative", exitUsage)
			}

			show := func(r dht.Reading) error {
				_, err := fmt.Fprintf(stdout, "%8.3f %8.3f\n", r.Humidity, r.Temperature)
				return err
			}
			if c.Bool("gauge") {
				if w, ok := isTerminal(stdout); ok {
					g := gauge.New(w, nil)
					defer g.Halt()
					show = func(r dht.Reading) error { return g.Show(r, v) }
				} else {
					debug.InfoLog.Print("stdout is not a terminal, gauge disabled")
				}
			}

			opts := dht.DefaultOpts
			opts.Retries = c.Int("retries")
			if c.String("driver") == "mem" && c.Int("count") == 1 && opts.Retries == 0 {
				r, err := acquire(pin, v, &opts)
				if err != nil {
					return cli.Exit(fmt.Sprintf("Failed to get data: %v", err), exitFailure)
				}
				return show(r)
			}

			s, release, err := openSensor(c.String("driver"), pin, v, &opts)
			if err != nil {
				return cli.Exit(fmt.Sprintf("Failed to get data: %v", err), exitFailure)
			}
			defer func() {
				_ = s.Halt()
				if err := release(); err != nil {
					debug.ErrorLog.Printf("releasing pin %d: %v", pin, err)
				}
			}()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return measure(ctx, s, c.Int("count"), c.Duration("interval"), show)
		},
	}
	sort.Sort(cli.FlagsByName(app.Flags))
	// Errors are reported by main.
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// measure reads s count times, or until ctx is done when count is 0, and
// passes every reading to show.
func measure(ctx context.Context, s sensor, count int, interval time.Duration, show func(dht.Reading) error) error {
	for i := 0; count == 0 || i < count; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		r, err := s.Read()
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to get data: %v", err), exitFailure)
		}
		debug.DebugLog.Printf("reading %d: %s", i, r)
		if err := show(r); err != nil {
			return err
		}
	}
	return nil
}

// exitStatus maps the error returned by the app to the process exit code.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var e cli.ExitCoder
	if errors.As(err, &e) {
		return e.ExitCode()
	}
	return exitUsage
}

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	err := newApp(os.Stdout, os.Stderr).Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	exitCode = exitStatus(err)
}
