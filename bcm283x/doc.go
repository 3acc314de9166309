// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x maps the GPIO register window of a Broadcom BCM283x/BCM2711
// SoC into the process and exposes the four primitives needed to bit-bang a
// GPIO line: select input, select output, read the level and write the level.
//
// The physical base address is discovered from the device tree
// (/proc/device-tree/soc/ranges) and the window is mapped through /dev/mem,
// which normally requires root.
//
// The register layout is described by a Layout value so that a different
// board of the same family can be supported without changing any caller.
// Regs.Pin returns a gpio.PinIO so that drivers written against
// periph.io/x/conn/v3/gpio can use the mapped registers directly.
//
// # Datasheet
//
// https://datasheets.raspberrypi.com/bcm2835/bcm2835-peripherals.pdf
package bcm283x
