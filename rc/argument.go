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

package rc

import "fmt"

// ArgumentKind says which kind of command argument a format-one response
// code refers to.
type ArgumentKind uint8

// Argument kinds.
const (
	ArgHandle ArgumentKind = iota
	ArgParameter
	ArgSession
)

// String returns the string representation of the ArgumentKind.
func (k ArgumentKind) String() string {
	switch k {
	case ArgHandle:
		return "handle"
	case ArgParameter:
		return "parameter"
	case ArgSession:
		return "session"
	default:
		return fmt.Sprintf("unknown argument kind %d", uint8(k))
	}
}

// Layout of the argument number byte. Bit 0 selects a parameter; if it is
// clear, bit 5 selects a session over a handle. The number field starts at
// bit 2 and is 4 bits wide for parameters, 3 bits wide otherwise.
const (
	argIsParameter  = 1 << 0
	argIsSession    = 1 << 5
	argNumberShift  = 2
	argParameterMax = 0x0f
	argIndexMax     = 0x07
)

// ArgumentNumber identifies the handle, parameter or session that caused a
// format-one TPM error. Numbers are 1-based as in the TPM specification; 0
// means the TPM did not name an argument.
type ArgumentNumber struct {
	Kind   ArgumentKind
	Number uint8
}

// Parameter returns the ArgumentNumber for the nth command parameter.
func Parameter(n uint8) ArgumentNumber {
	return ArgumentNumber{Kind: ArgParameter, Number: n}
}

// Session returns the ArgumentNumber for the nth authorization session.
func Session(n uint8) ArgumentNumber {
	return ArgumentNumber{Kind: ArgSession, Number: n}
}

// Handle returns the ArgumentNumber for the nth handle.
func Handle(n uint8) ArgumentNumber {
	return ArgumentNumber{Kind: ArgHandle, Number: n}
}

// DecodeArgumentNumber decodes an argument number byte. Every byte decodes
// to exactly one variant; bits outside the selected number field are
// ignored.
func DecodeArgumentNumber(b uint8) ArgumentNumber {
	if b&argIsParameter != 0 {
		return Parameter((b >> argNumberShift) & argParameterMax)
	}
	if b&argIsSession != 0 {
		return Session((b >> argNumberShift) & argIndexMax)
	}
	return Handle((b >> argNumberShift) & argIndexMax)
}

// Encode returns the canonical argument number byte for a. Numbers wider
// than the field are truncated to the field width; use Fits to detect
// that case.
func (a ArgumentNumber) Encode() uint8 {
	switch a.Kind {
	case ArgParameter:
		return argIsParameter | (a.Number&argParameterMax)<<argNumberShift
	case ArgSession:
		return argIsSession | (a.Number&argIndexMax)<<argNumberShift
	default:
		return (a.Number & argIndexMax) << argNumberShift
	}
}

// Fits reports whether a's number fits in the field of its kind, i.e.
// whether DecodeArgumentNumber(a.Encode()) == a.
func (a ArgumentNumber) Fits() bool {
	switch a.Kind {
	case ArgParameter:
		return a.Number <= argParameterMax
	case ArgSession, ArgHandle:
		return a.Number <= argIndexMax
	default:
		return false
	}
}

// String renders a for use in error messages, e.g.
// "associated with handle number 3".
func (a ArgumentNumber) String() string {
	return fmt.Sprintf("associated with %v number %d", a.Kind, a.Number)
}
