//go:build linux || darwin

// Copyright (c) 2022, Google LLC All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package transport

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var (
	// ErrFileIsNotDevice indicates that the TPM file mode was not a device.
	ErrFileIsNotDevice = errors.New("TPM file is not a device")
)

// device is a TPM character device such as /dev/tpm0 or /dev/tpmrm0.
type device struct {
	f *os.File
}

// OpenDevice opens the TPM device file at the given path.
func OpenDevice(path string) (TPMCloser, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrFileIsNotDevice, fi.Mode().String(), path)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	return FromReadWriteCloser(&device{f: f}), nil
}

func (d *device) Write(b []byte) (int, error) {
	return d.f.Write(b)
}

// Read waits for the kernel driver to have a response ready before reading.
func (d *device) Read(b []byte) (int, error) {
	if err := poll(d.f); err != nil {
		return 0, err
	}
	return d.f.Read(b)
}

func (d *device) Close() error {
	return d.f.Close()
}

// poll blocks until the TPM device has a response ready to read or an error
// occurs. The kernel driver only has data once the command has completed.
func poll(f *os.File) error {
	const (
		events  = 0x001 // POLLIN
		timeout = -1    // TSS2_TCTI_TIMEOUT_BLOCK=-1; block indefinitely until data is available
	)
	pollFds := []unix.PollFd{
		{Fd: int32(f.Fd()), Events: events},
	}
	_, err := unix.Poll(pollFds, timeout)
	return err
}
