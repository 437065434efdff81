// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchProfile = `
speed: 1200.0
mode:
  current_reduction: true
  trailer1_enabled: true
  trailer2_enabled: true
  sync_count: 16
start_parameters:
  step_divisor: 4
  backlash: true
  slow_start: true
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(benchProfile))
	require.NoError(t, err)

	require.NotNil(t, p.Speed)
	assert.Equal(t, 1200.0, *p.Speed)
	require.NotNil(t, p.Mode)
	assert.True(t, p.Mode.PReg)
	assert.True(t, p.Mode.Tr1En)
	assert.Equal(t, uint32(16), p.Mode.SyncCount)
	require.NotNil(t, p.StartParameters)
	assert.Equal(t, uint8(4), p.StartParameters.SDivisor)
	assert.True(t, p.StartParameters.LoftEn)

	// An omitted section keeps the power-on defaults.
	assert.Nil(t, p.Parameters)
}

func TestParseProfileMalformed(t *testing.T) {
	_, err := ParseProfile([]byte("speed: [not, a, number]"))
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(benchProfile), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.NotNil(t, p.Speed)
	assert.Equal(t, 1200.0, *p.Speed)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestProfileApply(t *testing.T) {
	f := newFake("0000006A")
	r := NewRegistry()
	require.Equal(t, 1, probeFakes(r, f))

	p, err := ParseProfile([]byte(benchProfile))
	require.NoError(t, err)
	require.NoError(t, p.Apply(r, 0))

	speed, err := r.Speed(0)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, speed)
	mode, err := r.Mode(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), mode.SyncCount)
	start, err := r.StartParameters(0)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), start.SDivisor)
}

func TestProfileApplyRejectsBadSection(t *testing.T) {
	f := newFake("0000006A")
	r := NewRegistry()
	require.Equal(t, 1, probeFakes(r, f))

	badSpeed := 6000.0
	mode := defaultMode()
	mode.EncoderEn = true
	p := &Profile{Speed: &badSpeed, Mode: &mode}

	err := p.Apply(r, 0)
	assert.Equal(t, CodeInvalidValue, ErrorCode(err))

	// Sections before the rejected one have already been applied.
	cached, err := r.Mode(0)
	require.NoError(t, err)
	assert.True(t, cached.EncoderEn)
	speed, err := r.Speed(0)
	require.NoError(t, err)
	assert.Equal(t, 200.0, speed)
}
