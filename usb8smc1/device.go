// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package usb8smc1 drives Standa 8SMC1-USBhF stepper motor controllers
// over USB control transfers.
package usb8smc1

import (
	"fmt"
	"sync"

	"github.com/gotmc/libusb/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/udyni/libusmc/logger"
)

const (
	vendorID  = 0x10c4
	productID = 0x0230
)

// transporter is the slice of the USB device handle the driver needs: one
// blocking control transfer at a time. *libusb.DeviceHandle satisfies it.
type transporter interface {
	ControlTransfer(requestType byte, request byte, value uint16, index uint16,
		data []byte, length int, timeout int) (int, error)
}

// Device is one open controller. All hardware access and every update of
// the cached records happens under mu, so at most one transfer is in
// flight per device and the cache always reflects the last value the
// hardware accepted.
type Device struct {
	mu          sync.Mutex
	handle      transporter
	closeHandle func()
	timeout     int
	log         logger.Logger

	serial  string
	version uint32
	mode    Mode
	params  Parameters
	start   StartParameters
	speed   float64
}

// Serial returns the serial number read at open time.
func (d *Device) Serial() string {
	return d.serial
}

// Version returns the firmware version read at open time.
func (d *Device) Version() uint32 {
	return d.version
}

// controlIn runs one IN control transfer and checks the full report
// arrived. The caller holds d.mu.
func (d *Device) controlIn(requestType byte, cmd command, value, index uint16, data []byte) error {
	n, err := d.handle.ControlTransfer(requestType, byte(cmd), value, index,
		data, len(data), d.timeout)
	if err != nil {
		d.log.Error("control transfer failed",
			"command", cmd.String(), "serial", d.serial, "error", err)
		return transportError(fmt.Sprintf("failed to %s", lower(cmd)), err)
	}
	if n != len(data) {
		d.log.Error("short report from device",
			"command", cmd.String(), "serial", d.serial, "got", n, "want", len(data))
		return &Error{Code: CodeUSBIO,
			Msg: fmt.Sprintf("short %s report: %d of %d bytes", lower(cmd), n, len(data))}
	}
	return nil
}

// controlOut runs one OUT vendor control transfer. The caller holds d.mu.
func (d *Device) controlOut(cmd command, value, index uint16, payload []byte) error {
	requestType := libusb.BitmapRequestType(
		libusb.HostToDevice, libusb.Vendor, libusb.DeviceRecipient)
	data := payload
	if len(data) == 0 {
		// The handle takes the address of the first byte even when
		// wLength is 0, so zero-payload commands need a scratch buffer.
		data = []byte{0}
	}
	_, err := d.handle.ControlTransfer(requestType, byte(cmd), value, index,
		data, len(payload), d.timeout)
	if err != nil {
		d.log.Error("control transfer failed",
			"command", cmd.String(), "serial", d.serial, "error", err)
		return transportError(fmt.Sprintf("failed to %s", lower(cmd)), err)
	}
	return nil
}

// readSerial asks the firmware for its serial number report.
func (d *Device) readSerial() (string, error) {
	requestType := libusb.BitmapRequestType(
		libusb.DeviceToHost, libusb.Vendor, libusb.DeviceRecipient)
	buf := make([]byte, serialDataLen)
	if err := d.controlIn(requestType, commandGetSerial, 0, 0, buf); err != nil {
		return "", err
	}
	return decodeSerial(buf)
}

// readVersion asks the firmware for its version report. The firmware
// serves it as a standard string descriptor carrying ASCII hex.
func (d *Device) readVersion() (uint32, error) {
	requestType := libusb.BitmapRequestType(
		libusb.DeviceToHost, libusb.Standard, libusb.DeviceRecipient)
	buf := make([]byte, versionDataLen)
	err := d.controlIn(requestType, commandGetVersion,
		versionDescriptorValue, versionDescriptorIndex, buf)
	if err != nil {
		return 0, err
	}
	return decodeVersion(buf)
}

// handshake brings a freshly opened controller to a known state: read its
// identity, then push the power-on defaults so the cached records and the
// hardware agree. Any failure aborts the open.
func (d *Device) handshake() error {
	serial, err := d.readSerial()
	if err != nil {
		return fmt.Errorf("reading serial number: %w", err)
	}
	d.serial = serial

	version, err := d.readVersion()
	if err != nil {
		return fmt.Errorf("reading firmware version: %w", err)
	}
	d.version = version

	d.mode = defaultMode()
	d.params = defaultParameters()
	d.start = defaultStartParameters()
	d.speed = defaultSpeed

	if err := d.writeMode(d.mode); err != nil {
		return fmt.Errorf("pushing default mode: %w", err)
	}
	if err := d.writeParameters(d.params); err != nil {
		return fmt.Errorf("pushing default parameters: %w", err)
	}
	return nil
}

func (d *Device) close() {
	if d.closeHandle != nil {
		d.closeHandle()
		d.closeHandle = nil
	}
}

// Registry owns the set of open controllers. Devices are addressed by a
// dense zero-based index assigned at probe time; indices are only stable
// within one probe session.
type Registry struct {
	mu      sync.RWMutex
	devices []*Device
	serials *xsync.MapOf[string, int]
	timeout int
	log     logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout sets the control transfer timeout in milliseconds.
func WithTimeout(ms int) Option {
	return func(r *Registry) {
		r.timeout = ms
	}
}

// WithLogger routes driver diagnostics into the given logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// NewRegistry creates an empty registry. Call Probe to populate it.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		serials: xsync.NewMapOf[string, int](),
		timeout: defaultTimeout,
		log:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// probeCandidate is an opened handle that has not yet passed its
// handshake. It is either committed as a Device or closed and dropped.
type probeCandidate struct {
	handle transporter
	close  func()
}

// Probe rebuilds the registry from the controllers currently attached.
// Devices from a previous probe are closed first, so prior indices are
// invalidated. A candidate that fails its handshake is closed and skipped
// while enumeration continues; partial success is the normal case.
// Returns the number of ready devices.
func (r *Registry) Probe(ctx *libusb.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeAllLocked()

	usbDevices, err := ctx.GetDeviceList()
	if err != nil {
		r.log.Error("failed to get USB device list", "error", err)
		return 0, transportError("failed to get USB device list", err)
	}

	var candidates []probeCandidate
	for _, usbDevice := range usbDevices {
		desc, err := usbDevice.GetDeviceDescriptor()
		if err != nil {
			r.log.Warn("failed to get device descriptor", "error", err)
			continue
		}
		if desc.VendorID != vendorID || desc.ProductID != productID {
			continue
		}
		handle, err := usbDevice.Open()
		if err != nil {
			r.log.Error("failed to open device", "error", err)
			continue
		}
		h := handle
		candidates = append(candidates, probeCandidate{
			handle: h,
			close:  func() { h.Close() },
		})
	}
	return r.openLocked(candidates), nil
}

// openLocked handshakes each candidate and commits the survivors. A
// Device becomes visible only after every handshake step succeeded, so no
// partially initialized entry is ever published.
func (r *Registry) openLocked(candidates []probeCandidate) int {
	count := 0
	for _, cand := range candidates {
		d := &Device{
			handle:      cand.handle,
			closeHandle: cand.close,
			timeout:     r.timeout,
			log:         r.log,
		}
		if err := d.handshake(); err != nil {
			r.log.Warn("device handshake failed, skipping", "error", err)
			d.close()
			continue
		}
		id := len(r.devices)
		r.devices = append(r.devices, d)
		r.serials.Store(d.serial, id)
		r.log.Info("device found and opened",
			"index", id, "serial", d.serial,
			"version", fmt.Sprintf("%04X", d.version))
		count++
	}
	return count
}

// Count returns the number of ready devices.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// IndexBySerial returns the index of the device with the given serial
// number, or -1 if no such device is open.
func (r *Registry) IndexBySerial(serial string) int {
	if id, ok := r.serials.Load(serial); ok {
		return id
	}
	return -1
}

// Close releases every open device. The registry is empty afterwards and
// can be reused with a new Probe.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeAllLocked()
}

// closeAllLocked releases every device. The serial map is cleared in
// place rather than reassigned: IndexBySerial reads it without taking
// r.mu, so the map itself must live as long as the registry.
func (r *Registry) closeAllLocked() {
	for _, d := range r.devices {
		d.close()
	}
	r.devices = nil
	r.serials.Clear()
}

// device resolves an index to an open Device.
func (r *Registry) device(device int) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if device < 0 || device >= len(r.devices) {
		return nil, ErrInvalidID
	}
	return r.devices[device], nil
}

// Serial returns the cached serial number of a device.
func (r *Registry) Serial(device int) (string, error) {
	d, err := r.device(device)
	if err != nil {
		return "", err
	}
	return d.Serial(), nil
}

// Version returns the cached firmware version of a device.
func (r *Registry) Version(device int) (uint32, error) {
	d, err := r.device(device)
	if err != nil {
		return 0, err
	}
	return d.Version(), nil
}
