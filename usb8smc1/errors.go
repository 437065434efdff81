// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gotmc/libusb/v2"
)

// Code is the numeric error domain of the driver: 0 is success, -1 to -12
// and -99 mirror the libusb error space, -40 to -42 are driver-local.
type Code int

const (
	CodeSuccess         Code = 0
	CodeUSBIO           Code = -1
	CodeUSBInvalidParam Code = -2
	CodeUSBAccess       Code = -3
	CodeUSBNoDevice     Code = -4
	CodeUSBNotFound     Code = -5
	CodeUSBBusy         Code = -6
	CodeUSBTimeout      Code = -7
	CodeUSBOverflow     Code = -8
	CodeUSBPipe         Code = -9
	CodeUSBInterrupted  Code = -10
	CodeUSBNoMem        Code = -11
	CodeUSBNotSupported Code = -12
	CodeUSBOther        Code = -99
	CodeInvalidID       Code = -40
	CodeInvalidParam    Code = -41
	CodeInvalidValue    Code = -42
)

// Error carries a driver error code alongside the usual error text.
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is treats two driver errors with the same code as equivalent, so the
// sentinel values below work with errors.Is across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for the driver-local codes.
var (
	// ErrInvalidID is returned for a device index outside the registry.
	ErrInvalidID = &Error{Code: CodeInvalidID, Msg: "invalid device index"}
	// ErrInvalidParam is returned for a nil or malformed argument.
	ErrInvalidParam = &Error{Code: CodeInvalidParam, Msg: "invalid argument"}
	// ErrInvalidValue is returned when a physical-unit value is out of its
	// documented range. No conversion or transfer is performed.
	ErrInvalidValue = &Error{Code: CodeInvalidValue, Msg: "value out of range"}
)

// ErrorCode extracts the numeric code from an error returned by this
// package. A nil error maps to CodeSuccess, a foreign error to CodeUSBOther.
func ErrorCode(err error) Code {
	if err == nil {
		return CodeSuccess
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUSBOther
}

func invalidValue(field string) error {
	return &Error{Code: CodeInvalidValue, Msg: fmt.Sprintf("%s out of range", field)}
}

// transportError wraps a failed control transfer into the libusb mirror
// code space.
func transportError(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Code: e.Code, Msg: op, Cause: err}
	}
	return &Error{Code: classifyUSB(err), Msg: op, Cause: err}
}

// classifyUSB maps a transport error onto the mirror codes. Errors from
// the libusb binding carry their enum value directly; for anything else
// the classification falls back to the stable libusb error strings.
func classifyUSB(err error) Code {
	var ec libusb.ErrorCode
	if errors.As(err, &ec) {
		return Code(ec)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return CodeUSBTimeout
	case strings.Contains(msg, "invalid param"):
		return CodeUSBInvalidParam
	case strings.Contains(msg, "access"):
		return CodeUSBAccess
	case strings.Contains(msg, "no device") || strings.Contains(msg, "no such device"):
		return CodeUSBNoDevice
	case strings.Contains(msg, "not found"):
		return CodeUSBNotFound
	case strings.Contains(msg, "busy"):
		return CodeUSBBusy
	case strings.Contains(msg, "overflow"):
		return CodeUSBOverflow
	case strings.Contains(msg, "pipe"):
		return CodeUSBPipe
	case strings.Contains(msg, "interrupted"):
		return CodeUSBInterrupted
	case strings.Contains(msg, "memory"):
		return CodeUSBNoMem
	case strings.Contains(msg, "not supported"):
		return CodeUSBNotSupported
	case strings.Contains(msg, "i/o") || strings.Contains(msg, "input/output"):
		return CodeUSBIO
	default:
		return CodeUSBOther
	}
}
