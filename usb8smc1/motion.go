// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

// Speed returns the cached speed in steps/second used for moves.
func (r *Registry) Speed(device int) (float64, error) {
	d, err := r.device(device)
	if err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed, nil
}

// SetSpeed stores the speed used for subsequent moves. Out-of-range
// values are rejected and leave the cached speed untouched.
func (r *Registry) SetSpeed(device int, speed float64) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	if err := validateSpeed(speed); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = speed
	return nil
}

// MoveTo starts a move to the given absolute position in whole steps,
// using the cached speed and start parameters.
func (r *Registry) MoveTo(device int, position int) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	m1, m2 := divisorBits(d.start.SDivisor)
	pkt := goToPacket{
		DestPos:     stepsToEighths(position),
		TimerPeriod: speedToPeriod(d.speed),
		M1:          m1,
		M2:          m2,
		DefDir:      d.start.DefDir,
		LoftEn:      d.start.LoftEn,
		SlStart:     d.start.SlStart,
		WSyncIN:     d.start.WSyncIN,
		SyncOUTR:    d.start.SyncOUTR,
		ForceLoft:   d.start.ForceLoft,
	}
	wValue, wIndex, payload := pkt.encode()
	return d.controlOut(commandGoTo, wValue, wIndex, payload)
}

// Stop halts the motor immediately.
func (r *Registry) Stop(device int) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.controlOut(commandStop, 0, 0, nil)
}

// SetCurrentPosition redefines the controller's notion of the current
// position without moving the motor. The position is quantized to whole
// four-step units by the hardware.
func (r *Registry) SetCurrentPosition(device int, position int) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	wValue, wIndex := encodeSetPosition(position)
	return d.controlOut(commandSetPosition, wValue, wIndex, nil)
}
