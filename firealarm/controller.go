// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"context"
	"errors"
	"time"

	"github.com/GermanBionicSystems/firedetector/internal/logger"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// LoopInterval is the pause between two iterations.
const LoopInterval = 100 * time.Millisecond

// greetingDuration is how long the start up banner stays on the display.
const greetingDuration = 2 * time.Second

// Display is a character display that can also be addressed by zero based
// column and row and blank a single line. hd44780.Dev implements it.
type Display interface {
	display.TextDisplay
	SetCursor(col, row int) error
	Print(text string) error
	ClearLine(row int) error
}

// Hardware holds every peripheral of the detector. It is built once at start
// up and owned by a single Controller.
type Hardware struct {
	Thermometer physic.SenseEnv
	Gas         GasSensor
	Red         gpio.PinOut
	Green       gpio.PinOut
	Buzzer      gpio.PinOut
	Servo       gpio.PinOut
	Display     Display
}

func (h *Hardware) validate() error {
	switch {
	case h.Thermometer == nil:
		return errors.New("firealarm: missing thermometer")
	case h.Gas == nil:
		return errors.New("firealarm: missing gas sensor")
	case h.Red == nil || h.Green == nil:
		return errors.New("firealarm: missing indicator")
	case h.Buzzer == nil:
		return errors.New("firealarm: missing buzzer")
	case h.Servo == nil:
		return errors.New("firealarm: missing servo")
	case h.Display == nil:
		return errors.New("firealarm: missing display")
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithReporter adds r to the receivers of every iteration's status.
func WithReporter(r Reporter) Option {
	return func(c *Controller) { c.reporters = append(c.reporters, r) }
}

// WithClock replaces the monotonic clock used to time the servo.
func WithClock(clk Clock) Option {
	return func(c *Controller) { c.clock = clk }
}

// WithSleep replaces the pause between iterations.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) { c.sleep = sleep }
}

// Controller runs the detection loop.
type Controller struct {
	sensors   Sensors
	actuators Actuators
	servo     *Oscillator
	display   Display
	reporters []Reporter
	log       *logger.Logger
	clock     Clock
	sleep     func(ctx context.Context, d time.Duration) error
}

// New returns a Controller driving hw. The buzzer is silenced and the servo
// moved to PositionA.
func New(hw *Hardware, opts ...Option) (*Controller, error) {
	if err := hw.validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		sensors:   Sensors{Thermometer: hw.Thermometer, Gas: hw.Gas},
		actuators: Actuators{Red: hw.Red, Green: hw.Green, Buzzer: hw.Buzzer},
		servo:     NewOscillator(hw.Servo),
		display:   hw.Display,
		log:       logger.Nop(),
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = NewMonotonicClock()
	}
	if err := hw.Buzzer.PWM(SilentDuty, ToneFrequency); err != nil {
		return nil, err
	}
	if err := c.servo.Start(c.clock.Millis()); err != nil {
		return nil, err
	}
	return c, nil
}

// Greet shows the start up banner for 2 seconds, then clears the display.
func (c *Controller) Greet(ctx context.Context) error {
	err := multierr.Combine(
		c.display.SetCursor(0, 0),
		c.display.Print("Fire Detector"),
		c.display.SetCursor(0, 1),
		c.display.Print("Starting..."),
	)
	if err != nil {
		return err
	}
	if err := c.sleep(ctx, greetingDuration); err != nil {
		return err
	}
	return c.display.Clear()
}

// Step runs one iteration: read both sensors, decide, drive the outputs,
// report, refresh the display and move the servo if it is time to.
//
// Step never fails. Output errors are logged and the next iteration tries
// again.
func (c *Controller) Step() Status {
	st := c.sense()
	st.Fire = Evaluate(st.Reading)

	if err := c.actuators.Apply(st.Fire); err != nil {
		c.log.Warnw("driving outputs", "fire", st.Fire, "err", err)
	}
	for _, r := range c.reporters {
		if err := r.Report(st); err != nil {
			c.log.Warnw("reporting status", "err", err)
		}
	}
	if err := c.show(st); err != nil {
		c.log.Warnw("refreshing display", "err", err)
	}
	moved, err := c.servo.Tick(c.clock.Millis())
	if err != nil {
		c.log.Warnw("moving servo", "phase", c.servo.Phase(), "err", err)
	} else if moved {
		c.log.Debugw("servo moved", "phase", c.servo.Phase())
	}
	return st
}

// Run calls Step every LoopInterval until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Infow("fire detector running", "interval", LoopInterval)
	for {
		c.Step()
		if err := c.sleep(ctx, LoopInterval); err != nil {
			return err
		}
	}
}

// Halt turns off the outputs, the servo pulses and the display and stops the
// sensors.
func (c *Controller) Halt() error {
	return multierr.Combine(
		c.actuators.Off(),
		c.servo.Halt(),
		c.display.Halt(),
		c.sensors.Thermometer.Halt(),
	)
}

func (c *Controller) sense() Status {
	t := c.sensors.ReadTemperature()
	if !t.OK() {
		c.log.Debugw("temperature read failed", "err", t.Err)
	}
	g := c.sensors.ReadGas()
	if !g.OK() {
		c.log.Warnw("gas read failed", "err", g.Err)
	}
	return Status{
		Reading:       Reading{Temperature: t.Value(), Gas: g.Value()},
		TemperatureOK: t.OK(),
		GasOK:         g.OK(),
	}
}

// show rewrites both display lines. Each is blanked first since the display
// cannot erase what a shorter text does not cover.
func (c *Controller) show(st Status) error {
	for row, text := range st.DisplayLines() {
		if err := c.display.ClearLine(row); err != nil {
			return err
		}
		if err := c.display.Print(text); err != nil {
			return err
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
