// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

// Mode returns the cached operating mode of a device: the last mode the
// hardware accepted.
func (r *Registry) Mode(device int) (Mode, error) {
	d, err := r.device(device)
	if err != nil {
		return Mode{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode, nil
}

// SetMode pushes a new operating mode to a device. The cached mode is
// updated only if the hardware accepted the transfer.
func (r *Registry) SetMode(device int, mode Mode) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeMode(mode); err != nil {
		return err
	}
	d.mode = mode
	return nil
}

// Parameters returns the cached motor parameters of a device.
func (r *Registry) Parameters(device int) (Parameters, error) {
	d, err := r.device(device)
	if err != nil {
		return Parameters{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params, nil
}

// SetParameters validates and pushes a new parameter set to a device. An
// out-of-range field rejects the whole set before anything is converted
// or transmitted; the previously cached values stay authoritative. On
// transport success the cache is updated.
func (r *Registry) SetParameters(device int, params Parameters) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	if err := validateParameters(params); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.writeParameters(params); err != nil {
		return err
	}
	d.params = params
	return nil
}

// StartParameters returns the cached per-move options of a device.
func (r *Registry) StartParameters(device int) (StartParameters, error) {
	d, err := r.device(device)
	if err != nil {
		return StartParameters{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.start, nil
}

// SetStartParameters stores new per-move options. They are host-side
// state sent with every subsequent go-to command, so no transfer happens
// here.
func (r *Registry) SetStartParameters(device int, start StartParameters) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.start = start
	return nil
}

// SaveToFlash commits the device's current settings to its non-volatile
// memory.
func (r *Registry) SaveToFlash(device int) error {
	d, err := r.device(device)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.controlOut(commandSave, 0, 0, nil)
}

// writeMode encodes and sends one set-mode command. The caller holds
// d.mu.
func (d *Device) writeMode(mode Mode) error {
	wValue, wIndex, payload := modePacketFrom(mode).encode()
	return d.controlOut(commandSetMode, wValue, wIndex, payload)
}

// writeParameters converts, encodes and sends one set-parameters
// command. The caller holds d.mu and has validated the fields.
func (d *Device) writeParameters(params Parameters) error {
	wValue, wIndex, payload := parametersPacketFrom(params, d.version).encode()
	return d.controlOut(commandSetParameters, wValue, wIndex, payload)
}

// modePacketFrom maps the public mode record onto the raw packet. The
// button-swap bit has no public counterpart and is always clear.
func modePacketFrom(m Mode) modePacket {
	return modePacket{
		PMode:     m.PMode,
		RefInEn:   m.PReg,
		ResetD:    m.ResetD,
		EMReset:   m.EMReset,
		Tr1T:      m.Tr1T,
		Tr2T:      m.Tr2T,
		RotTrT:    m.RotTrT,
		TrSwap:    m.TrSwap,
		Tr1En:     m.Tr1En,
		Tr2En:     m.Tr2En,
		RotTrEn:   m.RotTrEn,
		RotTrOp:   m.RotTrOp,
		Butt1T:    m.Butt1T,
		Butt2T:    m.Butt2T,
		ResetRT:   m.ResetRT,
		SyncOUTEn: m.SyncOUTEn,
		SyncOUTR:  m.SyncOUTR,
		SyncINOp:  m.SyncINOp,
		SyncOPol:  m.SyncInvert,
		Encoder:   m.EncoderEn,
		InvEnc:    m.EncoderInv,
		ResBEnc:   m.ResBEnc,
		ResEnc:    m.ResEnc,
		SyncCount: m.SyncCount,
	}
}

// parametersPacketFrom converts a physical-unit parameter set into raw
// register values. The temperature limit and the start position depend on
// the firmware version of the target device.
func parametersPacketFrom(p Parameters, version uint32) parametersPacket {
	var pkt parametersPacket
	pkt.Delay1 = timeToDelayMul(p.AccelT)
	pkt.Delay2 = timeToDelayMul(p.DecelT)
	pkt.RefInTimeout = timeoutToTicks(p.PTimeout)
	pkt.BTimeout1 = timeoutToTicks(p.BTimeout1)
	pkt.BTimeout2 = timeoutToTicks(p.BTimeout2)
	pkt.BTimeout3 = timeoutToTicks(p.BTimeout3)
	pkt.BTimeout4 = timeoutToTicks(p.BTimeout4)
	pkt.BTimeoutR = timeoutToTicks(p.BTimeoutR)
	pkt.BTimeoutD = timeoutToTicks(p.BTimeoutD)
	pkt.MinPeriod = lowSpeedToPeriod(p.MinP)
	pkt.BTO1P = lowSpeedToPeriod(p.BTO1P)
	pkt.BTO2P = lowSpeedToPeriod(p.BTO2P)
	pkt.BTO3P = lowSpeedToPeriod(p.BTO3P)
	pkt.BTO4P = lowSpeedToPeriod(p.BTO4P)
	pkt.MaxLoft = fullStepsToRaw(p.MaxLoft, minLoft, maxLoft)
	pkt.StartPos = startPosToRaw(version, p.StartPos)
	pkt.RTDelta = fullStepsToRaw(p.RTDelta, minRTSteps, maxRTSteps)
	pkt.RTMinError = fullStepsToRaw(p.RTMinError, minRTSteps, maxRTSteps)
	pkt.MaxTemp = tempToRaw(version, p.MaxTemp)
	pkt.SynOUTP = p.SynOUTP
	if p.LoftPeriod != 0 {
		pkt.LoftPeriod = loftSpeedToPeriod(p.LoftPeriod)
	}
	pkt.EncVSCP = encMultToRaw(p.EncMult)
	return pkt
}
