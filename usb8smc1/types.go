// Copyright (c) 2024 The libusmc developers. All rights reserved.
// Project site: https://github.com/udyni/libusmc
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package usb8smc1

// Mode holds the controller operating mode. All fields are cached on the
// host and pushed to the hardware as one packet by SetMode.
type Mode struct {
	PMode      bool   `yaml:"buttons_disabled"`       // Turn off buttons.
	PReg       bool   `yaml:"current_reduction"`      // Current reduction regime enabled.
	ResetD     bool   `yaml:"reset_d"`                // Turn power off and make a whole step.
	EMReset    bool   `yaml:"em_reset"`               // Quick power off.
	Tr1T       bool   `yaml:"trailer1_true"`          // Trailer 1 TRUE state.
	Tr2T       bool   `yaml:"trailer2_true"`          // Trailer 2 TRUE state.
	RotTrT     bool   `yaml:"transducer_true"`        // Rotary transducer TRUE state.
	TrSwap     bool   `yaml:"trailers_swapped"`       // Trailers are treated as swapped.
	Tr1En      bool   `yaml:"trailer1_enabled"`       // Trailer 1 operation enabled.
	Tr2En      bool   `yaml:"trailer2_enabled"`       // Trailer 2 operation enabled.
	RotTrEn    bool   `yaml:"transducer_enabled"`     // Rotary transducer operation enabled.
	RotTrOp    bool   `yaml:"transducer_stop"`        // Stop on transducer error.
	Butt1T     bool   `yaml:"button1_true"`           // Button 1 TRUE state.
	Butt2T     bool   `yaml:"button2_true"`           // Button 2 TRUE state.
	ResetRT    bool   `yaml:"reset_transducer"`       // Reset transducer check positions.
	SyncOUTEn  bool   `yaml:"sync_out_enabled"`       // Output synchronization enabled.
	SyncOUTR   bool   `yaml:"sync_out_reset"`         // Reset output synchronization counter.
	SyncINOp   bool   `yaml:"sync_in_single"`         // Input synchronization single-move mode.
	SyncCount  uint32 `yaml:"sync_count"`             // Steps between sync output pulses.
	SyncInvert bool   `yaml:"sync_out_invert"`        // Invert output synchronization polarity.
	EncoderEn  bool   `yaml:"encoder_enabled"`        // Encoder on {SYNCIN, ROTTR} pins.
	EncoderInv bool   `yaml:"encoder_invert"`         // Invert encoder counter direction.
	ResBEnc    bool   `yaml:"reset_both_encoders"`    // Reset both encoder counters to 0.
	ResEnc     bool   `yaml:"reset_encoder_position"` // Sync motor position to encoder.
}

// Parameters holds the motor configuration in physical units. Timing
// fields are milliseconds, speed fields steps/second, temperature °C.
type Parameters struct {
	AccelT     float64 `yaml:"accel_time_ms"`      // Acceleration time, 49-1518 ms.
	DecelT     float64 `yaml:"decel_time_ms"`      // Deceleration time, 49-1518 ms.
	PTimeout   float64 `yaml:"power_timeout_ms"`   // Time before current reduction, 1-9961 ms.
	BTimeout1  float64 `yaml:"button_timeout1_ms"` // Button speed stage 1 timeout, 1-9961 ms.
	BTimeout2  float64 `yaml:"button_timeout2_ms"` // Button speed stage 2 timeout, 1-9961 ms.
	BTimeout3  float64 `yaml:"button_timeout3_ms"` // Button speed stage 3 timeout, 1-9961 ms.
	BTimeout4  float64 `yaml:"button_timeout4_ms"` // Button speed stage 4 timeout, 1-9961 ms.
	BTimeoutR  float64 `yaml:"reset_timeout_ms"`   // Timeout before reset command, 1-9961 ms.
	BTimeoutD  float64 `yaml:"dclick_timeout_ms"`  // Double click timeout, 1-9961 ms.
	MinP       float64 `yaml:"reset_speed"`        // Speed during reset, 2-625 steps/s.
	BTO1P      float64 `yaml:"button_speed1"`      // Speed after BTimeout1, 2-625 steps/s.
	BTO2P      float64 `yaml:"button_speed2"`      // Speed after BTimeout2, 2-625 steps/s.
	BTO3P      float64 `yaml:"button_speed3"`      // Speed after BTimeout3, 2-625 steps/s.
	BTO4P      float64 `yaml:"button_speed4"`      // Speed after BTimeout4, 2-625 steps/s.
	MaxLoft    int     `yaml:"backlash_limit"`     // Backlash compensation, 1-1023 full steps.
	StartPos   int     `yaml:"start_position"`     // Start position (firmware >= 0x2407).
	RTDelta    int     `yaml:"revolution_steps"`   // Revolution distance, 4-1023 full steps.
	RTMinError int     `yaml:"transducer_error"`   // Steps missed before the error flag, 4-1023.
	MaxTemp    float64 `yaml:"max_temperature"`    // Temperature limit, 0-100 °C.
	SynOUTP    uint8   `yaml:"sync_pulse"`         // Output synchronization pulse duration.
	LoftPeriod float64 `yaml:"backlash_speed"`     // Backlash last phase, 0 or 16-5000 steps/s.
	EncMult    float64 `yaml:"encoder_multiplier"` // Encoder steps per motor step, multiple of 0.25.
}

// StartParameters holds the per-move options sent with every go-to command.
type StartParameters struct {
	SDivisor  uint8 `yaml:"step_divisor"`   // Step divisor: 1, 2, 4 or 8.
	DefDir    bool  `yaml:"backlash_dir"`   // Direction for backlash operation.
	LoftEn    bool  `yaml:"backlash"`       // Automatic backlash operation enabled.
	SlStart   bool  `yaml:"slow_start"`     // Slow start/stop mode.
	WSyncIN   bool  `yaml:"wait_sync_in"`   // Wait for input sync signal to start.
	SyncOUTR  bool  `yaml:"sync_out_reset"` // Reset output synchronization counter.
	ForceLoft bool  `yaml:"force_backlash"` // Force backlash when destination == current.
}

// State is the decoded controller status report.
type State struct {
	CurPos    int     // Current position in whole steps.
	Temp      float64 // Power driver temperature, °C.
	SDivisor  uint8   // Step divisor currently in effect.
	Loft      bool    // Backlash status.
	FullPower bool
	CWCCW     bool // Current rotation direction (relative).
	Power     bool // Motor power is on.
	FullSpeed bool // Full speed, valid in slow start mode.
	AReset    bool // TRUE after device reset, FALSE after set-position.
	Run       bool // Motor is rotating.
	SyncIN    bool // Input synchronization pin state.
	SyncOUT   bool // Output synchronization pin state.
	RotTr     bool // Rotary transducer press state.
	RotTrErr  bool // Rotary transducer error flag.
	EmReset   bool // Emergency disable button state.
	Trailer1  bool
	Trailer2  bool
	Voltage   float64 // Power input voltage; 0.0 when below 5 V.
}

// EncoderState is the decoded encoder status report.
type EncoderState struct {
	EncoderPos int // Current position measured by the encoder.
	ECurPos    int // Motor position in encoder units at request time.
}

const (
	defaultSpeed   = 200.0
	defaultTimeout = 10000 // control transfer timeout, ms
)

// Power-on defaults pushed to each device during the probe handshake,
// matching the values the vendor driver programs. The double click
// timeout additionally gets a valid value so the defaults pass their own
// validation when written back.
func defaultMode() Mode {
	return Mode{
		PReg:      true,
		Tr1En:     true,
		Tr2En:     true,
		RotTrOp:   true,
		SyncOUTEn: true,
		SyncINOp:  true,
		SyncCount: 4,
	}
}

func defaultParameters() Parameters {
	return Parameters{
		AccelT:     200.0,
		DecelT:     200.0,
		PTimeout:   100.0,
		BTimeout1:  500.0,
		BTimeout2:  500.0,
		BTimeout3:  500.0,
		BTimeout4:  500.0,
		BTimeoutR:  500.0,
		BTimeoutD:  500.0,
		MinP:       500.0,
		BTO1P:      200.0,
		BTO2P:      300.0,
		BTO3P:      400.0,
		BTO4P:      500.0,
		MaxLoft:    32,
		StartPos:   0,
		RTDelta:    200,
		RTMinError: 15,
		MaxTemp:    70.0,
		SynOUTP:    1,
		LoftPeriod: 32.0,
		EncMult:    2.5,
	}
}

func defaultStartParameters() StartParameters {
	return StartParameters{
		SDivisor: 8,
		LoftEn:   true,
		SlStart:  true,
	}
}
