// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/gotmc/libusb/v2"
	"github.com/udyni/libusmc/usb8smc1"
)

const pollInterval = 100 * time.Millisecond

func main() {
	var (
		device   = flag.Int("device", 0, "device index")
		position = flag.Int("position", 0, "destination in steps")
		speed    = flag.Float64("speed", 200.0, "speed in steps/s")
		profile  = flag.String("profile", "", "optional YAML motor profile")
	)
	flag.Parse()

	ctx, err := libusb.Init()
	if err != nil {
		log.Fatal("Couldn't create USB context. Ending now.")
	}
	defer ctx.Exit()

	motors := usb8smc1.NewRegistry()
	defer motors.Close()

	if _, err := motors.Probe(ctx); err != nil {
		log.Fatalf("Probing failed: %s", err)
	}
	if motors.Count() == 0 {
		log.Fatal("No controllers found")
	}

	if *profile != "" {
		p, err := usb8smc1.LoadProfile(*profile)
		if err != nil {
			log.Fatalf("Couldn't load profile: %s", err)
		}
		if err := p.Apply(motors, *device); err != nil {
			log.Fatalf("Couldn't apply profile: %s", err)
		}
	}

	if err := motors.SetSpeed(*device, *speed); err != nil {
		log.Fatalf("Couldn't set speed: %s", err)
	}
	if err := motors.MoveTo(*device, *position); err != nil {
		log.Fatalf("Couldn't start move: %s", err)
	}
	log.Printf("Moving device %d to %d steps at %.0f steps/s", *device, *position, *speed)

	for {
		time.Sleep(pollInterval)
		state, err := motors.State(*device)
		if err != nil {
			log.Fatalf("State read failed: %s", err)
		}
		log.Printf("pos=%d steps, running=%v", state.CurPos, state.Run)
		if !state.Run {
			break
		}
	}
}
