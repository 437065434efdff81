// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"fmt"
	"testing"

	c "github.com/smartystreets/goconvey/convey"
)

func TestValidateSpeed(t *testing.T) {
	testCases := []struct {
		speed float64
		valid bool
	}{
		{15.9, false},
		{16.0, true},
		{200.0, true},
		{5000.0, true},
		{5000.1, false},
		{0.0, false},
		{-16.0, false},
	}
	c.Convey("Given the need to validate a per-move speed", t, func() {
		for _, testCase := range testCases {
			conveyance := fmt.Sprintf("When given %v steps/s", testCase.speed)
			c.Convey(conveyance, func() {
				validity := "rejected"
				if testCase.valid {
					validity = "accepted"
				}
				conveyance := fmt.Sprintf("Then the speed is %s", validity)
				c.Convey(conveyance, func() {
					err := validateSpeed(testCase.speed)
					if testCase.valid {
						c.So(err, c.ShouldBeNil)
					} else {
						c.So(ErrorCode(err), c.ShouldEqual, CodeInvalidValue)
					}
				})
			})
		}
	})
}

func TestValidateParameters(t *testing.T) {
	testCases := []struct {
		field  string
		mutate func(*Parameters)
		valid  bool
	}{
		{"defaults", func(p *Parameters) {}, true},
		{"AccelT at minimum", func(p *Parameters) { p.AccelT = 49.0 }, true},
		{"AccelT below minimum", func(p *Parameters) { p.AccelT = 48.9 }, false},
		{"AccelT at maximum", func(p *Parameters) { p.AccelT = 1518.0 }, true},
		{"AccelT above maximum", func(p *Parameters) { p.AccelT = 1518.1 }, false},
		{"DecelT at minimum", func(p *Parameters) { p.DecelT = 49.0 }, true},
		{"DecelT below minimum", func(p *Parameters) { p.DecelT = 48.9 }, false},
		{"DecelT above maximum", func(p *Parameters) { p.DecelT = 1518.1 }, false},
		{"PTimeout at minimum", func(p *Parameters) { p.PTimeout = 1.0 }, true},
		{"PTimeout below minimum", func(p *Parameters) { p.PTimeout = 0.9 }, false},
		{"PTimeout at maximum", func(p *Parameters) { p.PTimeout = 9961.0 }, true},
		{"PTimeout above maximum", func(p *Parameters) { p.PTimeout = 9961.1 }, false},
		{"BTimeout1 at zero", func(p *Parameters) { p.BTimeout1 = 0.0 }, false},
		{"BTimeout2 above maximum", func(p *Parameters) { p.BTimeout2 = 10000.0 }, false},
		{"BTimeout3 below minimum", func(p *Parameters) { p.BTimeout3 = 0.5 }, false},
		{"BTimeout4 above maximum", func(p *Parameters) { p.BTimeout4 = 9962.0 }, false},
		{"BTimeoutR below minimum", func(p *Parameters) { p.BTimeoutR = 0.0 }, false},
		{"BTimeoutD above maximum", func(p *Parameters) { p.BTimeoutD = 20000.0 }, false},
		{"MaxLoft at minimum", func(p *Parameters) { p.MaxLoft = 1 }, true},
		{"MaxLoft at zero", func(p *Parameters) { p.MaxLoft = 0 }, false},
		{"MaxLoft at maximum", func(p *Parameters) { p.MaxLoft = 1023 }, true},
		{"MaxLoft above maximum", func(p *Parameters) { p.MaxLoft = 1024 }, false},
		{"RTDelta at minimum", func(p *Parameters) { p.RTDelta = 4 }, true},
		{"RTDelta below minimum", func(p *Parameters) { p.RTDelta = 3 }, false},
		{"RTDelta at maximum", func(p *Parameters) { p.RTDelta = 1023 }, true},
		{"RTDelta above maximum", func(p *Parameters) { p.RTDelta = 1024 }, false},
		{"RTMinError below minimum", func(p *Parameters) { p.RTMinError = 3 }, false},
		{"RTMinError above maximum", func(p *Parameters) { p.RTMinError = 1024 }, false},
		{"MaxTemp at minimum", func(p *Parameters) { p.MaxTemp = 0.0 }, true},
		{"MaxTemp below minimum", func(p *Parameters) { p.MaxTemp = -0.1 }, false},
		{"MaxTemp at maximum", func(p *Parameters) { p.MaxTemp = 100.0 }, true},
		{"MaxTemp above maximum", func(p *Parameters) { p.MaxTemp = 100.1 }, false},
		{"MinP at minimum", func(p *Parameters) { p.MinP = 2.0 }, true},
		{"MinP below minimum", func(p *Parameters) { p.MinP = 1.9 }, false},
		{"MinP at maximum", func(p *Parameters) { p.MinP = 625.0 }, true},
		{"MinP above maximum", func(p *Parameters) { p.MinP = 625.1 }, false},
		{"BTO1P below minimum", func(p *Parameters) { p.BTO1P = 1.0 }, false},
		{"BTO2P above maximum", func(p *Parameters) { p.BTO2P = 626.0 }, false},
		{"BTO3P below minimum", func(p *Parameters) { p.BTO3P = 0.0 }, false},
		{"BTO4P above maximum", func(p *Parameters) { p.BTO4P = 700.0 }, false},
		{"LoftPeriod disabled", func(p *Parameters) { p.LoftPeriod = 0.0 }, true},
		{"LoftPeriod at minimum", func(p *Parameters) { p.LoftPeriod = 16.0 }, true},
		{"LoftPeriod below minimum", func(p *Parameters) { p.LoftPeriod = 15.9 }, false},
		{"LoftPeriod at maximum", func(p *Parameters) { p.LoftPeriod = 5000.0 }, true},
		{"LoftPeriod above maximum", func(p *Parameters) { p.LoftPeriod = 5000.1 }, false},
	}
	c.Convey("Given the need to validate a motor parameter set", t, func() {
		for _, testCase := range testCases {
			conveyance := fmt.Sprintf("When given %s", testCase.field)
			c.Convey(conveyance, func() {
				validity := "rejected"
				if testCase.valid {
					validity = "accepted"
				}
				conveyance := fmt.Sprintf("Then the parameter set is %s", validity)
				c.Convey(conveyance, func() {
					params := defaultParameters()
					testCase.mutate(&params)
					err := validateParameters(params)
					if testCase.valid {
						c.So(err, c.ShouldBeNil)
					} else {
						c.So(ErrorCode(err), c.ShouldEqual, CodeInvalidValue)
					}
				})
			})
		}
	})
}
