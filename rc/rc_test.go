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

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErr(t *testing.T) {
	tests := []struct {
		name string
		code ResponseCode
		want error
	}{
		{"success", 0x000, nil},
		{"tpm 1.2", 0x026, TPM12Error{0x026}},
		{"vendor", 0x501, VendorError{0x501}},
		{"warning", 0x922, RCRetry},
		{"format 0", 0x100, RCInitialize},
		{"format 0 nv locked", 0x148, RCNVLocked},
		{"parameter", 0xfc1, Fmt1Error{RCAsymmetric, Parameter(15)}},
		{"parameter with session bit", 0x9c4, Fmt1Error{RCValue, Parameter(9)}},
		{"handle", 0x7a3, Fmt1Error{RCExpired, Handle(7)}},
		{"session", 0xfa2, Fmt1Error{RCBadAuth, Session(7)}},
		{"unnumbered handle", 0x08b, Fmt1Error{RCHandle, Handle(0)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.code.Err()
			if reflect.TypeOf(got) != reflect.TypeOf(tc.want) {
				t.Fatalf("ResponseCode(%#x).Err() has type %v, want %v", uint32(tc.code), reflect.TypeOf(got), reflect.TypeOf(tc.want))
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ResponseCode(%#x).Err() mismatch (-want +got):\n%s", uint32(tc.code), diff)
			}
		})
	}
}

func TestArgument(t *testing.T) {
	tests := []struct {
		code   ResponseCode
		want   ArgumentNumber
		wantOK bool
	}{
		{0x1c4, Parameter(1), true},
		{0x184, Handle(1), true},
		{0x98e, Session(1), true},
		{0x101, ArgumentNumber{}, false},
		{0x922, ArgumentNumber{}, false},
	}
	for _, tc := range tests {
		got, ok := tc.code.Argument()
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ResponseCode(%#x).Argument() = %+v, %v, want %+v, %v", uint32(tc.code), got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNewFmt1(t *testing.T) {
	tests := []struct {
		code Fmt1Code
		arg  ArgumentNumber
		want ResponseCode
	}{
		{RCValue, Parameter(1), 0x1c4},
		{RCValue, Handle(1), 0x184},
		{RCAuthFail, Session(1), 0x98e},
		{RCAsymmetric, Parameter(15), 0xfc1},
		{RCExpired, Handle(7), 0x7a3},
		{RCBadAuth, Session(7), 0xfa2},
	}
	for _, tc := range tests {
		got := NewFmt1(tc.code, tc.arg)
		if got != tc.want {
			t.Errorf("NewFmt1(%#x, %+v) = %#x, want %#x", uint8(tc.code), tc.arg, uint32(got), uint32(tc.want))
		}
		if arg, ok := got.Argument(); !ok || arg != tc.arg {
			t.Errorf("NewFmt1(%#x, %+v).Argument() = %+v, %v", uint8(tc.code), tc.arg, arg, ok)
		}
	}
}

func TestFmt1ErrorIsAs(t *testing.T) {
	err := ResponseCode(0x184).Err()

	if !errors.Is(err, RCValue) {
		t.Errorf("errors.Is(%v, RCValue) = false, want true", err)
	}
	if errors.Is(err, RCHandle) {
		t.Errorf("errors.Is(%v, RCHandle) = true, want false", err)
	}

	var fmt1 Fmt1Error
	if !errors.As(err, &fmt1) {
		t.Fatalf("errors.As(%v, *Fmt1Error) = false, want true", err)
	}
	if ok, idx := fmt1.Handle(); !ok || idx != 1 {
		t.Errorf("Handle() = %v, %v, want true, 1", ok, idx)
	}
	if ok, _ := fmt1.Parameter(); ok {
		t.Error("Parameter() = true, want false")
	}
	if ok, _ := fmt1.Session(); ok {
		t.Error("Session() = true, want false")
	}
	if got := fmt1.ResponseCode(); got != 0x184 {
		t.Errorf("ResponseCode() = %#x, want 0x184", uint32(got))
	}
}

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		code ResponseCode
		want string
	}{
		{0x000, "TPM_RC_SUCCESS"},
		{0x184, "TPM_RC_VALUE (associated with handle number 1): value is out of range or is not correct for the context"},
		{0x1c4, "TPM_RC_VALUE (associated with parameter number 1)"},
		{0x9a2, "TPM_RC_BAD_AUTH (associated with session number 1)"},
		{0x0be, "unknown format-1 error code (0x3e) associated with handle number 0"},
		{0x922, "TPM_RC_RETRY"},
		{0x17f, "unknown format-0 error code (0x7f)"},
		{0x97f, "unknown warning (0x7f)"},
		{0x501, "vendor error code 0x501"},
	}
	for _, tc := range tests {
		if got := tc.code.String(); !strings.HasPrefix(got, tc.want) {
			t.Errorf("ResponseCode(%#x).String() = %q, want prefix %q", uint32(tc.code), got, tc.want)
		}
	}
}
