// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import "github.com/gotmc/libusb/v2"

// State reads the controller status report: position, temperature,
// voltage and the status flags, converted to physical units using the
// device's firmware version.
func (r *Registry) State(device int) (State, error) {
	d, err := r.device(device)
	if err != nil {
		return State{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	requestType := libusb.BitmapRequestType(
		libusb.DeviceToHost, libusb.Vendor, libusb.DeviceRecipient)
	buf := make([]byte, stateDataLen)
	if err := d.controlIn(requestType, commandGetState, 0, 0, buf); err != nil {
		return State{}, err
	}
	pkt, err := decodeState(buf)
	if err != nil {
		return State{}, err
	}
	return State{
		CurPos:    eighthsToSteps(pkt.CurPos),
		Temp:      rawToTemp(d.version, pkt.Temp),
		SDivisor:  pkt.stepDivisor(),
		Loft:      pkt.Loft,
		FullPower: pkt.RefIn,
		CWCCW:     pkt.CWCCW,
		Power:     pkt.Reset,
		FullSpeed: pkt.FullSpeed,
		AReset:    pkt.AftReset,
		Run:       pkt.Run,
		SyncIN:    pkt.SyncIN,
		SyncOUT:   pkt.SyncOUT,
		RotTr:     pkt.RotTr,
		RotTrErr:  pkt.RotTrErr,
		EmReset:   pkt.EmReset,
		Trailer1:  pkt.Trailer1,
		Trailer2:  pkt.Trailer2,
		Voltage:   rawToVolts(pkt.Voltage),
	}, nil
}

// EncoderState reads the encoder status report.
func (r *Registry) EncoderState(device int) (EncoderState, error) {
	d, err := r.device(device)
	if err != nil {
		return EncoderState{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	requestType := libusb.BitmapRequestType(
		libusb.DeviceToHost, libusb.Vendor, libusb.DeviceRecipient)
	buf := make([]byte, encoderStateDataLen)
	if err := d.controlIn(requestType, commandGetEncoderState, 0, 0, buf); err != nil {
		return EncoderState{}, err
	}
	pkt, err := decodeEncoderState(buf)
	if err != nil {
		return EncoderState{}, err
	}
	return EncoderState{
		EncoderPos: int(int32(pkt.EncPos)),
		ECurPos:    int(int32(pkt.ECurPos)),
	}, nil
}
