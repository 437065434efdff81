// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Packet codec for the 8SMC1-USBhF. Every write command is built as a
// packed byte buffer whose first four bytes are never sent as payload:
// they are folded into the wValue/wIndex setup words of the control
// transfer. The fold rule differs per command and the firmware enforces
// each one, so the rules are kept literal per command and never unified:
//
//	go-to:            wIndex = LE word 0, wValue = LE word 1
//	set-mode:         wValue = swapped word 0, wIndex = swapped word 1
//	set-parameters:   wValue = swapped word 0, wIndex = LE word 1
//	set-position:     wValue = LE word 1, wIndex = LE word 0, no payload
//
// "Swapped" means the two bytes of the 16-bit word exchanged.

// swappedWord folds two bytes into a 16-bit word high byte first.
func swappedWord(b0, b1 byte) uint16 {
	return uint16(b0)<<8 | uint16(b1)
}

// packBits assembles up to eight flags into one byte, LSB first.
func packBits(flags ...bool) byte {
	var b byte
	for i, f := range flags {
		if f {
			b |= 1 << uint(i)
		}
	}
	return b
}

func bit(b byte, n uint) bool {
	return b&(1<<n) != 0
}

// goToPacket is the raw 7-byte go-to command: a 32-bit destination in
// eighth-steps, the step timer period and one byte of motion flags.
type goToPacket struct {
	DestPos     uint32
	TimerPeriod uint16
	M1          bool
	M2          bool
	DefDir      bool
	LoftEn      bool
	SlStart     bool
	WSyncIN     bool
	SyncOUTR    bool
	ForceLoft   bool
}

func (p goToPacket) encode() (wValue, wIndex uint16, payload []byte) {
	var buf [7]byte
	binary.LittleEndian.PutUint32(buf[0:4], p.DestPos)
	// The timer period goes on the wire high byte first.
	binary.BigEndian.PutUint16(buf[4:6], p.TimerPeriod)
	buf[6] = packBits(p.M1, p.M2, p.DefDir, p.LoftEn, p.SlStart,
		p.WSyncIN, p.SyncOUTR, p.ForceLoft)

	wIndex = binary.LittleEndian.Uint16(buf[0:2])
	wValue = binary.LittleEndian.Uint16(buf[2:4])
	return wValue, wIndex, buf[4:7]
}

func decodeGoTo(wValue, wIndex uint16, payload []byte) (goToPacket, error) {
	if len(payload) != goToPayloadLen {
		return goToPacket{}, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("go-to payload must be %d bytes", goToPayloadLen)}
	}
	var p goToPacket
	p.DestPos = uint32(wIndex) | uint32(wValue)<<16
	p.TimerPeriod = binary.BigEndian.Uint16(payload[0:2])
	f := payload[2]
	p.M1 = bit(f, 0)
	p.M2 = bit(f, 1)
	p.DefDir = bit(f, 2)
	p.LoftEn = bit(f, 3)
	p.SlStart = bit(f, 4)
	p.WSyncIN = bit(f, 5)
	p.SyncOUTR = bit(f, 6)
	p.ForceLoft = bit(f, 7)
	return p, nil
}

// divisorBits maps a step divisor of {1,2,4,8} onto the M1/M2 flag pair;
// divisorFromBits is its inverse, treating M2:M1 as a 2-bit exponent.
func divisorBits(divisor uint8) (m1, m2 bool) {
	switch divisor {
	case 2:
		return true, false
	case 4:
		return false, true
	case 8:
		return true, true
	default:
		return false, false
	}
}

func divisorFromBits(m1, m2 bool) uint8 {
	var n uint
	if m1 {
		n |= 1
	}
	if m2 {
		n |= 2
	}
	return uint8(1 << n)
}

// modePacket is the raw set-mode command: three bytes of flags and the
// synchronization counter. The firmware receives only the byte-reversed
// high word of the 32-bit counter; the low word never reaches the wire.
// Bytes 5 and 6 of the packet carry no information and are sent as zero.
type modePacket struct {
	PMode     bool
	RefInEn   bool
	ResetD    bool
	EMReset   bool
	Tr1T      bool
	Tr2T      bool
	RotTrT    bool
	TrSwap    bool
	Tr1En     bool
	Tr2En     bool
	RotTrEn   bool
	RotTrOp   bool
	Butt1T    bool
	Butt2T    bool
	ButSwap   bool
	ResetRT   bool
	SyncOUTEn bool
	SyncOUTR  bool
	SyncINOp  bool
	SyncOPol  bool
	Encoder   bool
	InvEnc    bool
	ResBEnc   bool
	ResEnc    bool
	SyncCount uint32
}

func (p modePacket) encode() (wValue, wIndex uint16, payload []byte) {
	var buf [7]byte
	buf[0] = packBits(p.PMode, p.RefInEn, p.ResetD, p.EMReset,
		p.Tr1T, p.Tr2T, p.RotTrT, p.TrSwap)
	buf[1] = packBits(p.Tr1En, p.Tr2En, p.RotTrEn, p.RotTrOp,
		p.Butt1T, p.Butt2T, p.ButSwap, p.ResetRT)
	buf[2] = packBits(p.SyncOUTEn, p.SyncOUTR, p.SyncINOp, p.SyncOPol,
		p.Encoder, p.InvEnc, p.ResBEnc, p.ResEnc)
	binary.LittleEndian.PutUint16(buf[3:5], uint16(bits.ReverseBytes32(p.SyncCount)))

	wValue = swappedWord(buf[0], buf[1])
	wIndex = swappedWord(buf[2], buf[3])
	return wValue, wIndex, buf[4:7]
}

func decodeMode(wValue, wIndex uint16, payload []byte) (modePacket, error) {
	if len(payload) != modePayloadLen {
		return modePacket{}, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("set-mode payload must be %d bytes", modePayloadLen)}
	}
	b0 := byte(wValue >> 8)
	b1 := byte(wValue)
	b2 := byte(wIndex >> 8)
	b3 := byte(wIndex)
	b4 := payload[0]

	var p modePacket
	p.PMode = bit(b0, 0)
	p.RefInEn = bit(b0, 1)
	p.ResetD = bit(b0, 2)
	p.EMReset = bit(b0, 3)
	p.Tr1T = bit(b0, 4)
	p.Tr2T = bit(b0, 5)
	p.RotTrT = bit(b0, 6)
	p.TrSwap = bit(b0, 7)
	p.Tr1En = bit(b1, 0)
	p.Tr2En = bit(b1, 1)
	p.RotTrEn = bit(b1, 2)
	p.RotTrOp = bit(b1, 3)
	p.Butt1T = bit(b1, 4)
	p.Butt2T = bit(b1, 5)
	p.ButSwap = bit(b1, 6)
	p.ResetRT = bit(b1, 7)
	p.SyncOUTEn = bit(b2, 0)
	p.SyncOUTR = bit(b2, 1)
	p.SyncINOp = bit(b2, 2)
	p.SyncOPol = bit(b2, 3)
	p.Encoder = bit(b2, 4)
	p.InvEnc = bit(b2, 5)
	p.ResBEnc = bit(b2, 6)
	p.ResEnc = bit(b2, 7)
	p.SyncCount = bits.ReverseBytes32(uint32(binary.LittleEndian.Uint16([]byte{b3, b4})))
	return p, nil
}

// parametersPacket is the raw 57-byte parameters command. Every field is
// the raw register value before the wire byte order is applied: the
// multi-byte fields other than the RefIN timeout go on the wire high byte
// first, the start position as a byte-reversed 32-bit value. The last 15
// bytes are reserved and always zero.
type parametersPacket struct {
	Delay1       uint8
	Delay2       uint8
	RefInTimeout uint16
	BTimeout1    uint16
	BTimeout2    uint16
	BTimeout3    uint16
	BTimeout4    uint16
	BTimeoutR    uint16
	BTimeoutD    uint16
	MinPeriod    uint16
	BTO1P        uint16
	BTO2P        uint16
	BTO3P        uint16
	BTO4P        uint16
	MaxLoft      uint16
	StartPos     uint32
	RTDelta      uint16
	RTMinError   uint16
	MaxTemp      uint16
	SynOUTP      uint8
	LoftPeriod   uint16
	EncVSCP      uint8
}

func (p parametersPacket) encode() (wValue, wIndex uint16, payload []byte) {
	buf := make([]byte, 57)
	buf[0] = p.Delay1
	buf[1] = p.Delay2
	binary.LittleEndian.PutUint16(buf[2:4], p.RefInTimeout)
	binary.BigEndian.PutUint16(buf[4:6], p.BTimeout1)
	binary.BigEndian.PutUint16(buf[6:8], p.BTimeout2)
	binary.BigEndian.PutUint16(buf[8:10], p.BTimeout3)
	binary.BigEndian.PutUint16(buf[10:12], p.BTimeout4)
	binary.BigEndian.PutUint16(buf[12:14], p.BTimeoutR)
	binary.BigEndian.PutUint16(buf[14:16], p.BTimeoutD)
	binary.BigEndian.PutUint16(buf[16:18], p.MinPeriod)
	binary.BigEndian.PutUint16(buf[18:20], p.BTO1P)
	binary.BigEndian.PutUint16(buf[20:22], p.BTO2P)
	binary.BigEndian.PutUint16(buf[22:24], p.BTO3P)
	binary.BigEndian.PutUint16(buf[24:26], p.BTO4P)
	binary.BigEndian.PutUint16(buf[26:28], p.MaxLoft)
	binary.BigEndian.PutUint32(buf[28:32], p.StartPos)
	binary.BigEndian.PutUint16(buf[32:34], p.RTDelta)
	binary.BigEndian.PutUint16(buf[34:36], p.RTMinError)
	binary.BigEndian.PutUint16(buf[36:38], p.MaxTemp)
	buf[38] = p.SynOUTP
	binary.BigEndian.PutUint16(buf[39:41], p.LoftPeriod)
	buf[41] = p.EncVSCP

	wValue = swappedWord(buf[0], buf[1])
	wIndex = binary.LittleEndian.Uint16(buf[2:4])
	return wValue, wIndex, buf[4:]
}

func decodeParameters(wValue, wIndex uint16, payload []byte) (parametersPacket, error) {
	if len(payload) != parametersPayloadLen {
		return parametersPacket{}, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("set-parameters payload must be %d bytes", parametersPayloadLen)}
	}
	buf := make([]byte, 57)
	buf[0] = byte(wValue >> 8)
	buf[1] = byte(wValue)
	binary.LittleEndian.PutUint16(buf[2:4], wIndex)
	copy(buf[4:], payload)

	var p parametersPacket
	p.Delay1 = buf[0]
	p.Delay2 = buf[1]
	p.RefInTimeout = binary.LittleEndian.Uint16(buf[2:4])
	p.BTimeout1 = binary.BigEndian.Uint16(buf[4:6])
	p.BTimeout2 = binary.BigEndian.Uint16(buf[6:8])
	p.BTimeout3 = binary.BigEndian.Uint16(buf[8:10])
	p.BTimeout4 = binary.BigEndian.Uint16(buf[10:12])
	p.BTimeoutR = binary.BigEndian.Uint16(buf[12:14])
	p.BTimeoutD = binary.BigEndian.Uint16(buf[14:16])
	p.MinPeriod = binary.BigEndian.Uint16(buf[16:18])
	p.BTO1P = binary.BigEndian.Uint16(buf[18:20])
	p.BTO2P = binary.BigEndian.Uint16(buf[20:22])
	p.BTO3P = binary.BigEndian.Uint16(buf[22:24])
	p.BTO4P = binary.BigEndian.Uint16(buf[24:26])
	p.MaxLoft = binary.BigEndian.Uint16(buf[26:28])
	p.StartPos = binary.BigEndian.Uint32(buf[28:32])
	p.RTDelta = binary.BigEndian.Uint16(buf[32:34])
	p.RTMinError = binary.BigEndian.Uint16(buf[34:36])
	p.MaxTemp = binary.BigEndian.Uint16(buf[36:38])
	p.SynOUTP = buf[38]
	p.LoftPeriod = binary.BigEndian.Uint16(buf[39:41])
	p.EncVSCP = buf[41]
	return p, nil
}

// encodeSetPosition builds the zero-payload set-current-position setup
// words: the position in eighth-steps with the low five bits cleared,
// split low word into wIndex and high word into wValue.
func encodeSetPosition(steps int) (wValue, wIndex uint16) {
	raw := uint32(int32(steps*8)) & 0xFFFFFFE0
	wValue = uint16(raw >> 16)
	wIndex = uint16(raw)
	return wValue, wIndex
}

func decodeSetPosition(wValue, wIndex uint16) int {
	raw := uint32(wValue)<<16 | uint32(wIndex)
	return eighthsToSteps(raw)
}

// statePacket is the raw 11-byte device state report.
type statePacket struct {
	CurPos    uint32
	Temp      uint16
	M1        bool
	M2        bool
	Loft      bool
	RefIn     bool
	CWCCW     bool
	Reset     bool
	FullSpeed bool
	AftReset  bool
	Run       bool
	SyncIN    bool
	SyncOUT   bool
	RotTr     bool
	RotTrErr  bool
	EmReset   bool
	Trailer1  bool
	Trailer2  bool
	USBPow    bool
	Working   bool
	Voltage   uint16
}

func decodeState(buf []byte) (statePacket, error) {
	if len(buf) != stateDataLen {
		return statePacket{}, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("state report must be %d bytes", stateDataLen)}
	}
	var p statePacket
	p.CurPos = binary.LittleEndian.Uint32(buf[0:4])
	p.Temp = binary.LittleEndian.Uint16(buf[4:6])
	p.M1 = bit(buf[6], 0)
	p.M2 = bit(buf[6], 1)
	p.Loft = bit(buf[6], 2)
	p.RefIn = bit(buf[6], 3)
	p.CWCCW = bit(buf[6], 4)
	p.Reset = bit(buf[6], 5)
	p.FullSpeed = bit(buf[6], 6)
	p.AftReset = bit(buf[6], 7)
	p.Run = bit(buf[7], 0)
	p.SyncIN = bit(buf[7], 1)
	p.SyncOUT = bit(buf[7], 2)
	p.RotTr = bit(buf[7], 3)
	p.RotTrErr = bit(buf[7], 4)
	p.EmReset = bit(buf[7], 5)
	p.Trailer1 = bit(buf[7], 6)
	p.Trailer2 = bit(buf[7], 7)
	p.USBPow = bit(buf[8], 0)
	p.Working = bit(buf[8], 7)
	p.Voltage = binary.LittleEndian.Uint16(buf[9:11])
	return p, nil
}

func (p statePacket) encode() []byte {
	buf := make([]byte, stateDataLen)
	binary.LittleEndian.PutUint32(buf[0:4], p.CurPos)
	binary.LittleEndian.PutUint16(buf[4:6], p.Temp)
	buf[6] = packBits(p.M1, p.M2, p.Loft, p.RefIn, p.CWCCW,
		p.Reset, p.FullSpeed, p.AftReset)
	buf[7] = packBits(p.Run, p.SyncIN, p.SyncOUT, p.RotTr, p.RotTrErr,
		p.EmReset, p.Trailer1, p.Trailer2)
	buf[8] = packBits(p.USBPow, false, false, false, false, false, false, p.Working)
	binary.LittleEndian.PutUint16(buf[9:11], p.Voltage)
	return buf
}

// stepDivisor derives the active step divisor from the M1/M2 state bits.
func (p statePacket) stepDivisor() uint8 {
	return divisorFromBits(p.M1, p.M2)
}

// encoderStatePacket is the raw 8-byte encoder report: motor position in
// encoder units, then the encoder counter itself.
type encoderStatePacket struct {
	ECurPos uint32
	EncPos  uint32
}

func decodeEncoderState(buf []byte) (encoderStatePacket, error) {
	if len(buf) != encoderStateDataLen {
		return encoderStatePacket{}, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("encoder report must be %d bytes", encoderStateDataLen)}
	}
	return encoderStatePacket{
		ECurPos: binary.LittleEndian.Uint32(buf[0:4]),
		EncPos:  binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

func (p encoderStatePacket) encode() []byte {
	buf := make([]byte, encoderStateDataLen)
	binary.LittleEndian.PutUint32(buf[0:4], p.ECurPos)
	binary.LittleEndian.PutUint32(buf[4:8], p.EncPos)
	return buf
}

// decodeVersion parses the firmware version report: a 2-byte descriptor
// header followed by the version as ASCII hex digits.
func decodeVersion(buf []byte) (uint32, error) {
	if len(buf) != versionDataLen {
		return 0, &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("version report must be %d bytes", versionDataLen)}
	}
	s := strings.TrimRight(string(buf[2:]), "\x00 ")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, &Error{Code: CodeUSBOther,
			Msg: fmt.Sprintf("unparsable version string %q", s), Cause: err}
	}
	return uint32(v), nil
}

func encodeVersion(version uint32) []byte {
	buf := make([]byte, versionDataLen)
	buf[0] = versionDataLen
	buf[1] = 0x03
	copy(buf[2:], fmt.Sprintf("%04X", version))
	return buf
}

// decodeSerial parses the 16-byte NUL-padded ASCII serial number report.
func decodeSerial(buf []byte) (string, error) {
	if len(buf) != serialDataLen {
		return "", &Error{Code: CodeInvalidParam,
			Msg: fmt.Sprintf("serial report must be %d bytes", serialDataLen)}
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

func encodeSerial(serial string) []byte {
	buf := make([]byte, serialDataLen)
	copy(buf, serial)
	return buf
}
