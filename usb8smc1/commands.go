// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import "strings"

type command byte

// 8SMC1-USBhF control requests. Get-version is a standard GET_DESCRIPTOR
// request abused by the firmware to return its version string; everything
// else is a vendor request.
const (
	commandGetVersion      command = 0x06
	commandGetSerial       command = 0xC9
	commandGetEncoderState command = 0x85
	commandGetState        command = 0x82
	commandGoTo            command = 0x80
	commandSetMode         command = 0x81
	commandSetParameters   command = 0x83
	commandSetPosition     command = 0x01
	commandStop            command = 0x07
	commandSave            command = 0x84
)

var commands = map[command]string{
	commandGetVersion:      "Read firmware version",
	commandGetSerial:       "Read serial number",
	commandGetEncoderState: "Read encoder state",
	commandGetState:        "Read device state",
	commandGoTo:            "Start a move",
	commandSetMode:         "Set device mode",
	commandSetParameters:   "Set device parameters",
	commandSetPosition:     "Set current position",
	commandStop:            "Stop the motor",
	commandSave:            "Save settings to flash",
}

func (c command) String() string {
	return commands[c]
}

// lower is the command name for use mid-sentence in error messages.
func lower(c command) string {
	return strings.ToLower(commands[c])
}

// Transfer lengths in bytes for each request.
const (
	versionDataLen       = 6
	serialDataLen        = 16
	encoderStateDataLen  = 8
	stateDataLen         = 11
	goToPayloadLen       = 3
	modePayloadLen       = 3
	parametersPayloadLen = 0x35
)

// wValue/wIndex of the firmware version GET_DESCRIPTOR request.
const (
	versionDescriptorValue = 0x0304
	versionDescriptorIndex = 0x0409
)
