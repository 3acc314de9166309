// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge draws DHT readings on a terminal using ANSI 256 colour codes.
//
// Each reading is shown on a single line, redrawn in place, as a humidity bar
// and a temperature bar scaled into the range of the sensor model.
package gauge
