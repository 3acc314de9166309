// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dhtxx is a container for the DHT11/DHT22 sensor reader.
//
// Package dht reads the sensor, bcm283x maps the Raspberry Pi GPIO registers
// it drives, and gauge draws readings on a terminal. The dhtxx command in
// cmd/dhtxx wraps them.
package dhtxx
