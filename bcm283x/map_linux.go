// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"periph.io/x/host/v3/pmem"
)

// mapWindow maps size bytes of path at offset and returns them as 32 bit
// registers.
func mapWindow(path string, offset int64, size int) ([]uint32, func() error, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPermission, err)
	}
	// The mapping outlives the descriptor.
	defer f.Close()
	b, err := unix.Mmap(int(f.Fd()), offset, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s at 0x%x: %v", ErrMap, path, offset, err)
	}
	s := pmem.Slice(b)
	return s.Uint32(), func() error { return unix.Munmap(b) }, nil
}
