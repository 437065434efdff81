// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"log"

	"github.com/gotmc/libusb/v2"
	"github.com/udyni/libusmc/usb8smc1"
)

func main() {
	ctx, err := libusb.Init()
	if err != nil {
		log.Fatal("Couldn't create USB context. Ending now.")
	}
	defer ctx.Exit()

	motors := usb8smc1.NewRegistry()
	defer motors.Close()

	n, err := motors.Probe(ctx)
	if err != nil {
		log.Fatalf("Probing failed: %s", err)
	}
	log.Printf("Found %d controller(s)", n)

	for i := 0; i < motors.Count(); i++ {
		serial, _ := motors.Serial(i)
		version, _ := motors.Version(i)
		log.Printf("Device %d: serial %s, firmware %04X", i, serial, version)

		state, err := motors.State(i)
		if err != nil {
			log.Printf("Device %d: state read failed: %s", i, err)
			continue
		}
		log.Printf("Device %d: pos=%d steps, temp=%.1f C, voltage=%.1f V, power=%v, running=%v",
			i, state.CurPos, state.Temp, state.Voltage, state.Power, state.Run)
	}
}
