// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package bcm283x

import (
	"fmt"
	"runtime"
)

func mapWindow(path string, offset int64, size int) ([]uint32, func() error, error) {
	return nil, nil, fmt.Errorf("%w: physical memory mapping is not supported on %s", ErrMap, runtime.GOOS)
}
