// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gotmc/libusb/v2"
	"github.com/stretchr/testify/assert"
)

func TestClassifyTransportError(t *testing.T) {
	testCases := []struct {
		err  error
		want Code
	}{
		// The handle's own error codes pass through unchanged, even when
		// wrapped.
		{libusb.ErrorCode(-1), CodeUSBIO},
		{libusb.ErrorCode(-4), CodeUSBNoDevice},
		{libusb.ErrorCode(-7), CodeUSBTimeout},
		{libusb.ErrorCode(-12), CodeUSBNotSupported},
		{libusb.ErrorCode(-99), CodeUSBOther},
		{fmt.Errorf("closing transfer: %w", libusb.ErrorCode(-9)), CodeUSBPipe},
		// Anything else is classified by its text.
		{errors.New("operation timed out"), CodeUSBTimeout},
		{errors.New("no such device (it may have been disconnected)"), CodeUSBNoDevice},
		{errors.New("entity not found"), CodeUSBNotFound},
		{errors.New("something else entirely"), CodeUSBOther},
	}
	for _, testCase := range testCases {
		err := transportError("failed to start a move", testCase.err)
		assert.Equal(t, testCase.want, ErrorCode(err), "cause %q", testCase.err)
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeSuccess, ErrorCode(nil))
	assert.Equal(t, CodeInvalidID, ErrorCode(fmt.Errorf("looking up: %w", ErrInvalidID)))
	assert.Equal(t, CodeUSBOther, ErrorCode(errors.New("foreign error")))
}

func TestErrorIsSentinel(t *testing.T) {
	err := invalidValue("speed")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.NotErrorIs(t, err, ErrInvalidParam)
}
