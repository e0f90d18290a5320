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

// Package transport sends raw TPM 2.0 commands and turns the response code
// of the reply into an error.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-tpm-rc/rc"
)

const (
	maxTPMResponse = 4096
	headerSize     = 10
)

// TPM represents a logical connection to a TPM.
type TPM interface {
	Send(input []byte) ([]byte, error)
}

// TPMCloser represents a logical connection to a TPM and you can close it.
type TPMCloser interface {
	TPM
	io.Closer
}

// wrappedRW wraps an io.ReadWriter as a TPM.
type wrappedRW struct {
	transport io.ReadWriter
}

// wrappedRWC wraps an io.ReadWriteCloser as a TPMCloser.
type wrappedRWC struct {
	transport io.ReadWriteCloser
}

// FromReadWriter takes in a io.ReadWriter and returns a
// transport.TPM wrapping the io.ReadWriter.
func FromReadWriter(rw io.ReadWriter) TPM {
	return &wrappedRW{transport: rw}
}

// FromReadWriteCloser takes in a io.ReadWriteCloser and returns a
// transport.TPMCloser wrapping the io.ReadWriteCloser.
func FromReadWriteCloser(rwc io.ReadWriteCloser) TPMCloser {
	return &wrappedRWC{transport: rwc}
}

// Send implements the TPM interface.
func (t *wrappedRW) Send(input []byte) ([]byte, error) {
	return runCommandRaw(t.transport, input)
}

// Send implements the TPM interface.
func (t *wrappedRWC) Send(input []byte) ([]byte, error) {
	return runCommandRaw(t.transport, input)
}

// Close implements the TPM interface.
func (t *wrappedRWC) Close() error {
	return t.transport.Close()
}

// runCommandRaw writes a fully packed command and returns the raw response,
// header included.
func runCommandRaw(rw io.ReadWriter, inb []byte) ([]byte, error) {
	if rw == nil {
		return nil, errors.New("nil TPM handle")
	}
	if _, err := rw.Write(inb); err != nil {
		return nil, err
	}
	outb := make([]byte, maxTPMResponse)
	outlen, err := rw.Read(outb)
	if err != nil {
		return nil, err
	}
	return outb[:outlen], nil
}

// Execute sends cmd to t and returns the response body that follows the
// response header. If the TPM reports a failure, the returned error is the
// decoded response code, see rc.ResponseCode.Err.
func Execute(t TPM, cmd []byte) ([]byte, error) {
	rsp, err := t.Send(cmd)
	if err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}
	if len(rsp) < headerSize {
		return nil, fmt.Errorf("response too short: %d bytes", len(rsp))
	}
	size := binary.BigEndian.Uint32(rsp[2:6])
	if int(size) != len(rsp) {
		return nil, fmt.Errorf("response size %d does not match %d bytes read", size, len(rsp))
	}
	code := rc.ResponseCode(binary.BigEndian.Uint32(rsp[6:10]))
	if err := code.Err(); err != nil {
		return nil, err
	}
	return rsp[headerSize:], nil
}
