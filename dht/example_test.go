// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/GermanBionicSystems/dhtxx/bcm283x"
	"github.com/GermanBionicSystems/dhtxx/dht"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Reads a DHT22 on GPIO4 through /dev/mem. Must run as root.
	r, err := dht.Acquire(4, dht.DHT22)
	if err != nil {
		if errors.Is(err, bcm283x.ErrPermission) {
			log.Fatal("run as root")
		}
		log.Fatal(err)
	}
	fmt.Printf("%.1f%%RH %.1f°C\n", r.Humidity, r.Temperature)
}

func ExampleNew() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	p := gpioreg.ByName("GPIO4")
	if p == nil {
		log.Fatal("no GPIO4")
	}
	opts := dht.DefaultOpts
	opts.Retries = 3
	d, err := dht.New(p, dht.DHT11, &opts)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%8s %9s\n", e.Temperature, e.Humidity)
}
