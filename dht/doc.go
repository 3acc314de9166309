// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht reads the AOSONG DHT11 and DHT22 (AM2302) humidity and
// temperature sensors by bit-banging their single wire protocol on a GPIO
// line.
//
// The host pulls the line low for 20ms, releases it, and the sensor answers
// with a preamble pulse followed by 40 bits. Every bit is ~50µs low followed
// by ~26µs high for a 0 or ~70µs high for a 1. The line is polled in a tight
// loop and the number of polls per level is recorded; bits are then decoded
// by comparing each high count to the average low count, which makes the
// decoder independent of how fast the host polls.
//
// Acquire drives the memory mapped registers of a Raspberry Pi directly (see
// package bcm283x) and needs root. Read and Dev accept any gpio.PinIO.
//
// # Datasheet
//
// https://cdn.datasheetspdf.com/pdf-down/D/H/T/DHT11-Aosong.pdf
//
// https://cdn.datasheetspdf.com/pdf-down/D/H/T/DHT22-Aosong.pdf
package dht
