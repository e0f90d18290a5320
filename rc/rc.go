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

// Package rc decodes TPM 2.0 response codes into Go errors, including the
// handle, parameter or session number carried by format-one codes.
package rc

import "fmt"

// ResponseCode is the TPM_RC value from a TPM response header.
type ResponseCode uint32

// Success is the response code of a successful command. Identical for TPM 1.2
// and TPM 2.0.
const Success ResponseCode = 0x000

type (
	Fmt0Code uint8 // Format 0 error codes, bits 0:6
	Fmt1Code uint8 // Format 1 error codes, bits 0:5
	WarnCode uint8 // Warning codes, bits 0:6
)

// Response code bits, from Part 2: Structures, section 6.6.
const (
	rcFmt1   ResponseCode = 0x080
	rcVer1   ResponseCode = 0x100
	rcVendor ResponseCode = 0x400
	rcWarn   ResponseCode = 0x800

	fmt0Mask ResponseCode = 0x07f
	fmt1Mask ResponseCode = 0x03f

	// The argument number byte of a format-one code sits in bits 6:11, so
	// its parameter flag is TPM_RC_P and its session flag is TPM_RC_S.
	argShift ResponseCode = 6
	argMask  ResponseCode = 0x03f
)

// Format 0 error codes.
const (
	RCInitialize      Fmt0Code = 0x00
	RCFailure         Fmt0Code = 0x01
	RCSequence        Fmt0Code = 0x03
	RCPrivate         Fmt0Code = 0x0B
	RCHMAC            Fmt0Code = 0x19
	RCDisabled        Fmt0Code = 0x20
	RCExclusive       Fmt0Code = 0x21
	RCAuthType        Fmt0Code = 0x24
	RCAuthMissing     Fmt0Code = 0x25
	RCPolicy          Fmt0Code = 0x26
	RCPCR             Fmt0Code = 0x27
	RCPCRChanged      Fmt0Code = 0x28
	RCUpgrade         Fmt0Code = 0x2D
	RCTooManyContexts Fmt0Code = 0x2E
	RCAuthUnavailable Fmt0Code = 0x2F
	RCReboot          Fmt0Code = 0x30
	RCUnbalanced      Fmt0Code = 0x31
	RCCommandSize     Fmt0Code = 0x42
	RCCommandCode     Fmt0Code = 0x43
	RCAuthSize        Fmt0Code = 0x44
	RCAuthContext     Fmt0Code = 0x45
	RCNVRange         Fmt0Code = 0x46
	RCNVSize          Fmt0Code = 0x47
	RCNVLocked        Fmt0Code = 0x48
	RCNVAuthorization Fmt0Code = 0x49
	RCNVUninitialized Fmt0Code = 0x4A
	RCNVSpace         Fmt0Code = 0x4B
	RCNVDefined       Fmt0Code = 0x4C
	RCBadContext      Fmt0Code = 0x50
	RCCPHash          Fmt0Code = 0x51
	RCParent          Fmt0Code = 0x52
	RCNeedsTest       Fmt0Code = 0x53
	RCNoResult        Fmt0Code = 0x54
	RCSensitive       Fmt0Code = 0x55
)

// Format 1 error codes.
const (
	RCAsymmetric   Fmt1Code = 0x01
	RCAttributes   Fmt1Code = 0x02
	RCHash         Fmt1Code = 0x03
	RCValue        Fmt1Code = 0x04
	RCHierarchy    Fmt1Code = 0x05
	RCKeySize      Fmt1Code = 0x07
	RCMGF          Fmt1Code = 0x08
	RCMode         Fmt1Code = 0x09
	RCType         Fmt1Code = 0x0A
	RCHandle       Fmt1Code = 0x0B
	RCKDF          Fmt1Code = 0x0C
	RCRange        Fmt1Code = 0x0D
	RCAuthFail     Fmt1Code = 0x0E
	RCNonce        Fmt1Code = 0x0F
	RCPP           Fmt1Code = 0x10
	RCScheme       Fmt1Code = 0x12
	RCSize         Fmt1Code = 0x15
	RCSymmetric    Fmt1Code = 0x16
	RCTag          Fmt1Code = 0x17
	RCSelector     Fmt1Code = 0x18
	RCInsufficient Fmt1Code = 0x1A
	RCSignature    Fmt1Code = 0x1B
	RCKey          Fmt1Code = 0x1C
	RCPolicyFail   Fmt1Code = 0x1D
	RCIntegrity    Fmt1Code = 0x1F
	RCTicket       Fmt1Code = 0x20
	RCReservedBits Fmt1Code = 0x21
	RCBadAuth      Fmt1Code = 0x22
	RCExpired      Fmt1Code = 0x23
	RCPolicyCC     Fmt1Code = 0x24
	RCBinding      Fmt1Code = 0x25
	RCCurve        Fmt1Code = 0x26
	RCECCPoint     Fmt1Code = 0x27
)

// Warning codes.
const (
	RCContextGap     WarnCode = 0x01
	RCObjectMemory   WarnCode = 0x02
	RCSessionMemory  WarnCode = 0x03
	RCMemory         WarnCode = 0x04
	RCSessionHandles WarnCode = 0x05
	RCObjectHandles  WarnCode = 0x06
	RCLocality       WarnCode = 0x07
	RCYielded        WarnCode = 0x08
	RCCanceled       WarnCode = 0x09
	RCTesting        WarnCode = 0x0A
	RCReferenceH0    WarnCode = 0x10
	RCReferenceH1    WarnCode = 0x11
	RCReferenceH2    WarnCode = 0x12
	RCReferenceH3    WarnCode = 0x13
	RCReferenceH4    WarnCode = 0x14
	RCReferenceH5    WarnCode = 0x15
	RCReferenceH6    WarnCode = 0x16
	RCReferenceS0    WarnCode = 0x18
	RCReferenceS1    WarnCode = 0x19
	RCReferenceS2    WarnCode = 0x1A
	RCReferenceS3    WarnCode = 0x1B
	RCReferenceS4    WarnCode = 0x1C
	RCReferenceS5    WarnCode = 0x1D
	RCReferenceS6    WarnCode = 0x1E
	RCNVRate         WarnCode = 0x20
	RCLockout        WarnCode = 0x21
	RCRetry          WarnCode = 0x22
	RCNVUnavailable  WarnCode = 0x23
)

// NewFmt1 returns the format-one response code for code attributed to arg.
func NewFmt1(code Fmt1Code, arg ArgumentNumber) ResponseCode {
	return rcFmt1 | ResponseCode(code)&fmt1Mask | ResponseCode(arg.Encode())<<argShift
}

// IsFmt1 reports whether r is a format-one error code.
func (r ResponseCode) IsFmt1() bool {
	return r&rcFmt1 != 0
}

// ArgumentByte returns bits 6:11 of r, the argument number byte of a
// format-one code. The result is meaningless for other codes.
func (r ResponseCode) ArgumentByte() uint8 {
	return uint8((r >> argShift) & argMask)
}

// Argument returns the handle, parameter or session that a format-one code
// refers to. It returns false for any other code.
func (r ResponseCode) Argument() (ArgumentNumber, bool) {
	if !r.IsFmt1() {
		return ArgumentNumber{}, false
	}
	return DecodeArgumentNumber(r.ArgumentByte()), true
}

// Err decodes r and returns the matching error, or nil for Success. Logic
// according to the "Response Code Evaluation" chart in Part 1 of the TPM 2.0
// spec.
func (r ResponseCode) Err() error {
	if r == Success {
		return nil
	}
	if r&rcFmt1 != 0 {
		return Fmt1Error{
			Code:     Fmt1Code(r & fmt1Mask),
			Argument: DecodeArgumentNumber(r.ArgumentByte()),
		}
	}
	if r&rcVer1 == 0 { // Bits 7:8 == 0 is a TPM1 error
		return TPM12Error{uint32(r)}
	}
	if r&rcVendor != 0 {
		return VendorError{uint32(r)}
	}
	if r&rcWarn != 0 {
		return WarnCode(r & fmt0Mask)
	}
	return Fmt0Code(r & fmt0Mask)
}

// String returns the name or error text of r.
func (r ResponseCode) String() string {
	if err := r.Err(); err != nil {
		return err.Error()
	}
	return "TPM_RC_SUCCESS"
}

// Error returns the string representation of the format-0 error.
func (c Fmt0Code) Error() string {
	desc, ok := fmt0Descs[c]
	if !ok {
		return fmt.Sprintf("unknown format-0 error code (0x%x)", uint8(c))
	}
	return fmt.Sprintf("%s: %s", desc.name, desc.description)
}

// Error returns the string representation of the format-1 error code,
// without argument information.
func (c Fmt1Code) Error() string {
	desc, ok := fmt1Descs[c]
	if !ok {
		return fmt.Sprintf("unknown format-1 error code (0x%x)", uint8(c))
	}
	return fmt.Sprintf("%s: %s", desc.name, desc.description)
}

// Error returns the string representation of the warning. A warning usually
// indicates a problem with the TPM state, and not the command; retrying the
// command later may succeed.
func (c WarnCode) Error() string {
	desc, ok := warnDescs[c]
	if !ok {
		return fmt.Sprintf("unknown warning (0x%x)", uint8(c))
	}
	return fmt.Sprintf("%s: %s", desc.name, desc.description)
}

// Fmt1Error represents a TPM 2.0 format-1 error together with the argument
// it was reported against.
type Fmt1Error struct {
	// The canonical TPM error code, with handle/parameter/session info
	// stripped out.
	Code     Fmt1Code
	Argument ArgumentNumber
}

// Error returns the string representation of the error.
func (e Fmt1Error) Error() string {
	desc, ok := fmt1Descs[e.Code]
	if !ok {
		return fmt.Sprintf("unknown format-1 error code (0x%x) %v", uint8(e.Code), e.Argument)
	}
	return fmt.Sprintf("%s (%v): %s", desc.name, e.Argument, desc.description)
}

// Is reports whether target is e's canonical code, so that
// errors.Is(err, rc.RCValue) holds whatever argument was in error.
func (e Fmt1Error) Is(target error) bool {
	code, ok := target.(Fmt1Code)
	return ok && code == e.Code
}

// ResponseCode returns the canonical response code for e.
func (e Fmt1Error) ResponseCode() ResponseCode {
	return NewFmt1(e.Code, e.Argument)
}

// Handle returns whether the error is handle-related and if so, which handle is
// in error.
func (e Fmt1Error) Handle() (bool, int) {
	return e.index(ArgHandle)
}

// Parameter returns whether the error is parameter-related and if so, which
// parameter is in error.
func (e Fmt1Error) Parameter() (bool, int) {
	return e.index(ArgParameter)
}

// Session returns whether the error is session-related and if so, which
// session is in error.
func (e Fmt1Error) Session() (bool, int) {
	return e.index(ArgSession)
}

func (e Fmt1Error) index(kind ArgumentKind) (bool, int) {
	if e.Argument.Kind != kind {
		return false, 0
	}
	return true, int(e.Argument.Number)
}

// VendorError is a vendor-specific TPM 2.0 response code.
type VendorError struct {
	Code uint32
}

func (e VendorError) Error() string {
	return fmt.Sprintf("vendor error code 0x%x", e.Code)
}

// TPM12Error is a response code that is not a TPM 2.0 code, as returned by a
// TPM 1.2 device.
type TPM12Error struct {
	Code uint32
}

func (e TPM12Error) Error() string {
	return fmt.Sprintf("response status 0x%x", e.Code)
}
