// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import "math"

// Conversions between physical units and the raw register values expected
// by the firmware. All functions are pure; the temperature and start
// position conversions branch on the firmware version reported by the
// device at open time.

// Firmware version thresholds.
const (
	// versionLinearTemp is the first firmware with a linear temperature
	// sensor; older firmware uses a thermistor curve.
	versionLinearTemp = 0x2400
	// versionStartPos is the first firmware supporting a start position.
	versionStartPos = 0x2407
)

const (
	adcReference = 3.3     // ADC reference voltage
	adcSpan      = 65536.0 // 16-bit ADC full scale
)

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// stepsToEighths converts a position in whole steps to the controller's
// internal eighth-step unit.
func stepsToEighths(steps int) uint32 {
	return uint32(int32(steps * 8))
}

// eighthsToSteps converts an eighth-step register value back to whole
// steps, rounding toward zero.
func eighthsToSteps(raw uint32) int {
	return int(int32(raw)) / 8
}

// speedToPeriod converts a speed in steps/second to the go-to timer
// period register. The period between steps is 12*(65536-raw)/24MHz.
func speedToPeriod(speed float64) uint16 {
	return uint16(65536.0 - 1000000.0/clampFloat(speed, 16.0, 5000.0) + 0.5)
}

// periodToSpeed is the inverse of speedToPeriod.
func periodToSpeed(raw uint16) float64 {
	return 1000000.0 / (65536.0 - float64(raw))
}

// timeToDelayMul converts an acceleration or deceleration time in
// milliseconds to the 4-bit delay multiplier. Lossy: the inverse is only
// exact on multiples of 98 ms.
func timeToDelayMul(ms float64) uint8 {
	return uint8(clampInt(int(ms/98.0+0.5), 1, 15))
}

// delayMulToTime is the approximate inverse of timeToDelayMul.
func delayMulToTime(mul uint8) float64 {
	return float64(mul) * 98.0
}

// timeoutToTicks converts a timeout in milliseconds to raw 0.152 ms ticks.
func timeoutToTicks(ms float64) uint16 {
	return uint16(clampFloat(ms, 1.0, 9961.0)/0.152 + 0.5)
}

// ticksToTimeout is the inverse of timeoutToTicks.
func ticksToTimeout(raw uint16) float64 {
	return float64(raw) * 0.152
}

// lowSpeedToPeriod converts a button/reset speed in steps/second to its
// period register. These run off a slower clock than the go-to period.
func lowSpeedToPeriod(speed float64) uint16 {
	return uint16(65536.0 - 125000.0/clampFloat(speed, 2.0, 625.0) + 0.5)
}

// periodToLowSpeed is the inverse of lowSpeedToPeriod.
func periodToLowSpeed(raw uint16) float64 {
	return 125000.0 / (65536.0 - float64(raw))
}

// loftSpeedToPeriod converts the backlash last-phase speed to its period
// register. Same clock as the button speeds but the full go-to range.
func loftSpeedToPeriod(speed float64) uint16 {
	return uint16(65536.0 - 125000.0/clampFloat(speed, 16.0, 5000.0) + 0.5)
}

// rawToTemp converts a raw ADC temperature reading to °C. Firmware older
// than versionLinearTemp reads a thermistor divider and needs the
// Steinhart curve; newer firmware reports a linear value.
func rawToTemp(version uint32, raw uint16) float64 {
	t := float64(raw)
	if version < versionLinearTemp {
		t = t * adcReference / adcSpan
		t = t * 10.0 / (5.0 - t)
		t = (1.0 / 298.0) + (1.0/3950.0)*math.Log(t/10.0)
		return 1.0/t - 273.0
	}
	return t*adcReference*100.0/adcSpan - 50.0
}

// tempToRaw converts a temperature limit in °C to the raw ADC count,
// mirroring the firmware branch of rawToTemp.
func tempToRaw(version uint32, celsius float64) uint16 {
	t := clampFloat(celsius, 0.0, 100.0)
	if version < versionLinearTemp {
		t = 10.0 * math.Exp(3950.0*(1.0/(t+273.0)-1.0/298.0))
		raw := (5.0*t/(10.0+t))*adcSpan/adcReference + 0.5
		// The divider output exceeds the ADC reference below ~11 C.
		if raw > 65535.0 {
			return 65535
		}
		return uint16(raw)
	}
	return uint16((t+50.0)/330.0*adcSpan + 0.5)
}

// rawToVolts converts the raw power input reading to volts. Anything
// below 5 V means the power input is not connected and reads as 0.
func rawToVolts(raw uint16) float64 {
	v := float64(raw) / adcSpan * adcReference * 20.0
	if v < 5.0 {
		return 0.0
	}
	return v
}

// voltsToRaw is the inverse of rawToVolts, without the 5 V floor.
func voltsToRaw(volts float64) uint16 {
	return uint16(volts/20.0/adcReference*adcSpan + 0.5)
}

// fullStepsToRaw converts a full-step count (backlash limit, revolution
// distance, minimum error) to its register value.
func fullStepsToRaw(steps, lo, hi int) uint16 {
	return uint16(clampInt(steps, lo, hi) * 64)
}

// rawToFullSteps is the inverse of fullStepsToRaw.
func rawToFullSteps(raw uint16) int {
	return int(raw) / 64
}

// encMultToRaw converts the encoder multiplier to quarter-step units.
func encMultToRaw(mult float64) uint8 {
	return uint8(mult*4.0 + 0.5)
}

// rawToEncMult is the inverse of encMultToRaw.
func rawToEncMult(raw uint8) float64 {
	return float64(raw) / 4.0
}

// startPosToRaw converts the start position in whole steps to its
// register value. Firmware older than versionStartPos ignores the field
// and always receives zero.
func startPosToRaw(version uint32, steps int) uint32 {
	if version < versionStartPos {
		return 0
	}
	return uint32(int32(steps*8)) & 0xFFFFFF00
}
