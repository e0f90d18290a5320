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
	"os"
	"path/filepath"
	"testing"
)

func TestPoll(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if _, err := w.Write([]byte("hi")); err != nil {
		t.Fatalf("error writing to pipe: %v", err)
	}
	if err := poll(r); err != nil {
		t.Errorf("error polling reader side of the pipe: %v", err)
	}
}

func TestOpenDeviceRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tpm0")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenDevice(path); !errors.Is(err, ErrFileIsNotDevice) {
		t.Errorf("OpenDevice(%q) = %v, want %v", path, err, ErrFileIsNotDevice)
	}
}

func TestLocalTPM(t *testing.T) {
	for _, path := range []string{"/dev/tpmrm0", "/dev/tpm0"} {
		t.Run(path, func(t *testing.T) {
			tpm, err := OpenDevice(path)
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) || errors.Is(err, ErrFileIsNotDevice) {
				t.Skipf("%v", err)
			}
			if err != nil {
				t.Fatalf("OpenDevice(%q) = %v", path, err)
			}
			defer tpm.Close()

			// TPM2_GetRandom(8)
			cmd := []byte{0x80, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x00, 0x00, 0x01, 0x7b, 0x00, 0x08}
			if _, err := Execute(tpm, cmd); err != nil {
				t.Errorf("GetRandom failed: %v", err)
			}
		})
	}
}
