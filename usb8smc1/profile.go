// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a complete motor configuration as kept in a YAML file, so a
// test bench can version per-motor settings next to its own config.
// Omitted sections keep the power-on defaults.
type Profile struct {
	Speed           *float64         `yaml:"speed,omitempty"`
	Mode            *Mode            `yaml:"mode,omitempty"`
	Parameters      *Parameters      `yaml:"parameters,omitempty"`
	StartParameters *StartParameters `yaml:"start_parameters,omitempty"`
}

// LoadProfile reads a Profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a Profile from YAML.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// Apply pushes the profile to one device. Sections are applied in
// dependency order (mode, parameters, start parameters, speed); the first
// rejected section aborts and leaves later sections untouched.
func (p *Profile) Apply(r *Registry, device int) error {
	if p.Mode != nil {
		if err := r.SetMode(device, *p.Mode); err != nil {
			return fmt.Errorf("applying mode: %w", err)
		}
	}
	if p.Parameters != nil {
		if err := r.SetParameters(device, *p.Parameters); err != nil {
			return fmt.Errorf("applying parameters: %w", err)
		}
	}
	if p.StartParameters != nil {
		if err := r.SetStartParameters(device, *p.StartParameters); err != nil {
			return fmt.Errorf("applying start parameters: %w", err)
		}
	}
	if p.Speed != nil {
		if err := r.SetSpeed(device, *p.Speed); err != nil {
			return fmt.Errorf("applying speed: %w", err)
		}
	}
	return nil
}
