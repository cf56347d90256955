// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Servo settings. A hobby servo expects a 1-2ms pulse every 20ms.
const (
	ServoFrequency = 50 * physic.Hertz
	// ServoPeriod is the minimum time between two moves, in milliseconds.
	ServoPeriod = 1000
)

// Phase is a position of the servo.
type Phase int

// The two positions the servo sweeps between.
const (
	PositionA Phase = iota
	PositionB
)

var phaseDuty = [...]gpio.Duty{
	PositionA: duty1024(25),
	PositionB: duty1024(75),
}

// Duty returns the PWM duty cycle that holds the servo at p.
func (p Phase) Duty() gpio.Duty {
	return phaseDuty[p]
}

func (p Phase) String() string {
	if p == PositionA {
		return "A"
	}
	return "B"
}

func (p Phase) other() Phase {
	if p == PositionA {
		return PositionB
	}
	return PositionA
}

// Oscillator moves a servo to the other position each time at least
// ServoPeriod elapsed, however often it is ticked.
type Oscillator struct {
	p     gpio.PinOut
	phase Phase
	last  uint32
}

// NewOscillator returns an Oscillator on p. Call Start before Tick.
func NewOscillator(p gpio.PinOut) *Oscillator {
	return &Oscillator{p: p}
}

// Start moves the servo to PositionA and starts timing from now.
func (o *Oscillator) Start(now uint32) error {
	o.phase = PositionA
	o.last = now
	return o.p.PWM(o.phase.Duty(), ServoFrequency)
}

// Tick moves the servo if ServoPeriod elapsed since the last move, and
// reports whether it did. now is compared by difference so the counter may
// wrap around.
func (o *Oscillator) Tick(now uint32) (bool, error) {
	if now-o.last < ServoPeriod {
		return false, nil
	}
	o.phase = o.phase.other()
	o.last = now
	return true, o.p.PWM(o.phase.Duty(), ServoFrequency)
}

// Phase returns the current position.
func (o *Oscillator) Phase() Phase {
	return o.phase
}

// Halt stops the pulses. The servo goes limp where it is.
func (o *Oscillator) Halt() error {
	return o.p.PWM(0, ServoFrequency)
}
