// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Alarm thresholds. Both comparisons are strict.
const (
	TemperatureThreshold = 45.0
	GasThreshold         = 700
)

// ToneFrequency is the buzzer carrier.
const ToneFrequency = physic.KiloHertz

var (
	// AlarmDuty sounds the buzzer at half duty, 512/1024.
	AlarmDuty = duty1024(512)
	// SilentDuty keeps the buzzer quiet.
	SilentDuty gpio.Duty = 0
)

// Evaluate returns true if r indicates a fire.
//
// There is no hysteresis: a single sample over a threshold raises the alarm
// and a single sample under both clears it.
func Evaluate(r Reading) bool {
	return r.Temperature > TemperatureThreshold || r.Gas > GasThreshold
}

// Actuators are the outputs driven by the alarm decision.
type Actuators struct {
	Red    gpio.PinOut
	Green  gpio.PinOut
	Buzzer gpio.PinOut
}

// Apply lights red and sounds the buzzer when fire is true, and lights green
// with the buzzer silent otherwise.
//
// All three outputs are written even if one fails.
func (a *Actuators) Apply(fire bool) error {
	duty := SilentDuty
	if fire {
		duty = AlarmDuty
	}
	return multierr.Combine(
		a.Red.Out(gpio.Level(fire)),
		a.Green.Out(gpio.Level(!fire)),
		a.Buzzer.PWM(duty, ToneFrequency),
	)
}

// Off turns both indicators off and silences the buzzer.
func (a *Actuators) Off() error {
	return multierr.Combine(
		a.Red.Out(gpio.Low),
		a.Green.Out(gpio.Low),
		a.Buzzer.PWM(SilentDuty, ToneFrequency),
	)
}

// duty1024 converts a duty on a 10-bit scale to gpio.Duty.
func duty1024(n int32) gpio.Duty {
	return gpio.Duty(n) * (gpio.DutyMax / 1024)
}
