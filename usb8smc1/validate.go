// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

// Documented input ranges, checked before any conversion or transfer.
const (
	minAccelTime = 49.0
	maxAccelTime = 1518.0
	minTimeout   = 1.0
	maxTimeout   = 9961.0
	minLowSpeed  = 2.0
	maxLowSpeed  = 625.0
	minSpeed     = 16.0
	maxSpeed     = 5000.0
	minLoft      = 1
	maxLoft      = 1023
	minRTSteps   = 4
	maxRTSteps   = 1023
	minTemp      = 0.0
	maxTemp      = 100.0
)

// validateSpeed checks a per-move speed in steps/second.
func validateSpeed(speed float64) error {
	if speed < minSpeed || speed > maxSpeed {
		return invalidValue("speed")
	}
	return nil
}

// validateParameters checks every field of a parameter set against its
// documented range. The first violation is reported; nothing has been
// converted or transmitted at that point.
func validateParameters(p Parameters) error {
	if p.AccelT < minAccelTime || p.AccelT > maxAccelTime {
		return invalidValue("acceleration time")
	}
	if p.DecelT < minAccelTime || p.DecelT > maxAccelTime {
		return invalidValue("deceleration time")
	}

	timeouts := []struct {
		name string
		v    float64
	}{
		{"current reduction timeout", p.PTimeout},
		{"button timeout 1", p.BTimeout1},
		{"button timeout 2", p.BTimeout2},
		{"button timeout 3", p.BTimeout3},
		{"button timeout 4", p.BTimeout4},
		{"reset timeout", p.BTimeoutR},
		{"double click timeout", p.BTimeoutD},
	}
	for _, t := range timeouts {
		if t.v < minTimeout || t.v > maxTimeout {
			return invalidValue(t.name)
		}
	}

	if p.MaxLoft < minLoft || p.MaxLoft > maxLoft {
		return invalidValue("backlash limit")
	}
	if p.RTDelta < minRTSteps || p.RTDelta > maxRTSteps {
		return invalidValue("revolution distance")
	}
	if p.RTMinError < minRTSteps || p.RTMinError > maxRTSteps {
		return invalidValue("transducer error limit")
	}
	if p.MaxTemp < minTemp || p.MaxTemp > maxTemp {
		return invalidValue("temperature limit")
	}

	speeds := []struct {
		name string
		v    float64
	}{
		{"reset speed", p.MinP},
		{"button speed 1", p.BTO1P},
		{"button speed 2", p.BTO2P},
		{"button speed 3", p.BTO3P},
		{"button speed 4", p.BTO4P},
	}
	for _, s := range speeds {
		if s.v < minLowSpeed || s.v > maxLowSpeed {
			return invalidValue(s.name)
		}
	}

	// Zero disables the backlash last phase entirely.
	if p.LoftPeriod != 0 && (p.LoftPeriod < minSpeed || p.LoftPeriod > maxSpeed) {
		return invalidValue("backlash phase speed")
	}
	return nil
}
