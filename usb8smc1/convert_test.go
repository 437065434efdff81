// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeedToPeriod(t *testing.T) {
	testCases := []struct {
		speed    float64
		expected uint16
	}{
		{200.0, 60536},
		{16.0, 3036},
		{5000.0, 65336},
		// Out-of-range speeds clamp to the formula bounds.
		{1.0, 3036},
		{100000.0, 65336},
		{1000.0, 64536},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("speed %v", tc.speed), func(t *testing.T) {
			assert.Equal(t, tc.expected, speedToPeriod(tc.speed))
		})
	}
}

func TestPeriodToSpeedInverse(t *testing.T) {
	for _, speed := range []float64{16.0, 200.0, 1000.0, 5000.0} {
		got := periodToSpeed(speedToPeriod(speed))
		assert.InDelta(t, speed, got, speed*0.001, "speed %v", speed)
	}
}

func TestTimeToDelayMul(t *testing.T) {
	testCases := []struct {
		ms       float64
		expected uint8
	}{
		{49.0, 1},
		{147.0, 2},
		{200.0, 2},
		{1518.0, 15},
		// The multiplier saturates at the 4-bit bounds.
		{0.0, 1},
		{10000.0, 15},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v ms", tc.ms), func(t *testing.T) {
			assert.Equal(t, tc.expected, timeToDelayMul(tc.ms))
		})
	}
}

func TestTimeoutToTicks(t *testing.T) {
	testCases := []struct {
		ms       float64
		expected uint16
	}{
		{1.0, 7},
		{100.0, 658},
		{9961.0, 65533},
		{0.0, 7},
		{50000.0, 65533},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v ms", tc.ms), func(t *testing.T) {
			assert.Equal(t, tc.expected, timeoutToTicks(tc.ms))
		})
	}
}

func TestLowSpeedToPeriod(t *testing.T) {
	testCases := []struct {
		speed    float64
		expected uint16
	}{
		{2.0, 3036},
		{625.0, 65336},
		{1.0, 3036},
		{5000.0, 65336},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("speed %v", tc.speed), func(t *testing.T) {
			assert.Equal(t, tc.expected, lowSpeedToPeriod(tc.speed))
		})
	}
	assert.InDelta(t, 300.0, periodToLowSpeed(lowSpeedToPeriod(300.0)), 0.5)
}

func TestTemperatureLinearFirmware(t *testing.T) {
	// Firmware >= 0x2400 reports a linear value.
	for _, celsius := range []float64{0.0, 25.0, 70.0, 100.0} {
		raw := tempToRaw(0x2400, celsius)
		got := rawToTemp(0x2400, raw)
		assert.InDelta(t, celsius, got, 0.01, "%v C", celsius)
	}
	assert.InDelta(t, 25.0, rawToTemp(0x2407, 14895), 0.05)
}

func TestTemperatureThermistorFirmware(t *testing.T) {
	// Firmware < 0x2400 reads a thermistor divider. Below ~11 C the
	// divider output pegs the ADC, so round-tripping starts there.
	for _, celsius := range []float64{15.0, 25.0, 70.0, 100.0} {
		raw := tempToRaw(0x23FF, celsius)
		got := rawToTemp(0x23FF, raw)
		assert.InDelta(t, celsius, got, 0.1, "%v C", celsius)
	}
	// 25 C is the thermistor's nominal point: 10k against 10k at 2.5 V.
	assert.Equal(t, uint16(49648), tempToRaw(0x23FF, 25.0))
}

func TestTemperatureBranchesDiffer(t *testing.T) {
	// The two firmware branches must never be mixed: the same raw count
	// means very different temperatures in each.
	raw := uint16(30000)
	thermistor := rawToTemp(0x23FF, raw)
	linear := rawToTemp(0x2400, raw)
	assert.Greater(t, linear-thermistor, 10.0)
}

func TestVoltageFloor(t *testing.T) {
	testCases := []struct {
		raw      uint16
		expected float64
	}{
		{0, 0.0},
		{1000, 0.0},
		// Anything computing below 5 V reads as unpowered.
		{4964, 0.0},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("raw %d", tc.raw), func(t *testing.T) {
			assert.Equal(t, tc.expected, rawToVolts(tc.raw))
		})
	}
	assert.InDelta(t, 5.0, rawToVolts(4966), 0.01)
	assert.InDelta(t, 36.0, rawToVolts(voltsToRaw(36.0)), 0.01)
}

func TestPositionUnits(t *testing.T) {
	assert.Equal(t, uint32(12800), stepsToEighths(1600))
	assert.Equal(t, 1600, eighthsToSteps(12800))
	// Reads round toward zero.
	assert.Equal(t, 0, eighthsToSteps(7))
	assert.Equal(t, uint32(0xFFFFFFF8), stepsToEighths(-1))
	assert.Equal(t, -1, eighthsToSteps(0xFFFFFFF8))
	assert.Equal(t, 0, eighthsToSteps(0xFFFFFFF9))
}

func TestFullStepsToRaw(t *testing.T) {
	assert.Equal(t, uint16(2048), fullStepsToRaw(32, minLoft, maxLoft))
	assert.Equal(t, uint16(64), fullStepsToRaw(0, minLoft, maxLoft))
	assert.Equal(t, uint16(65472), fullStepsToRaw(5000, minLoft, maxLoft))
	assert.Equal(t, 32, rawToFullSteps(2048))
}

func TestEncoderMultiplier(t *testing.T) {
	assert.Equal(t, uint8(10), encMultToRaw(2.5))
	assert.Equal(t, 2.5, rawToEncMult(10))
	assert.Equal(t, uint8(1), encMultToRaw(0.25))
}

func TestStartPosition(t *testing.T) {
	// Older firmware ignores the field and always gets zero.
	assert.Equal(t, uint32(0), startPosToRaw(0x2406, 100))
	assert.Equal(t, uint32(0x300), startPosToRaw(0x2407, 100))
	assert.Equal(t, uint32(0xFFFFFC00), startPosToRaw(0x2407, -100))
	assert.Equal(t, uint32(0), startPosToRaw(0x2407, 0))
}
