// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"context"
	"errors"
	"strings"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// events is the ordered list of peripheral accesses of a test.
type events []string

func (e *events) add(s string) {
	*e = append(*e, s)
}

func (e events) index(s string) int {
	for i, v := range e {
		if v == s {
			return i
		}
	}
	return -1
}

func (e events) count(s string) int {
	n := 0
	for _, v := range e {
		if v == s {
			n++
		}
	}
	return n
}

type recPin struct {
	gpiotest.Pin
	ev  *events
	err error
}

func newRecPin(name string, ev *events) *recPin {
	return &recPin{Pin: gpiotest.Pin{N: name}, ev: ev}
}

func (p *recPin) Out(l gpio.Level) error {
	p.ev.add(p.N)
	if p.err != nil {
		return p.err
	}
	return p.Pin.Out(l)
}

func (p *recPin) PWM(d gpio.Duty, f physic.Frequency) error {
	p.ev.add(p.N)
	if p.err != nil {
		return p.err
	}
	return p.Pin.PWM(d, f)
}

type fakeThermometer struct {
	celsius float64
	err     error
	halted  bool
	ev      *events
}

func (f *fakeThermometer) Sense(env *physic.Env) error {
	f.ev.add("temperature")
	if f.err != nil {
		return f.err
	}
	env.Temperature = physic.ZeroCelsius + physic.Temperature(f.celsius*float64(physic.Celsius))
	return nil
}

func (f *fakeThermometer) SenseContinuous(time.Duration) (<-chan physic.Env, error) {
	return nil, errors.New("not supported")
}

func (f *fakeThermometer) Precision(env *physic.Env) {}

func (f *fakeThermometer) Halt() error {
	f.halted = true
	return nil
}

func (f *fakeThermometer) String() string {
	return "fakeThermometer"
}

type fakeGas struct {
	code int
	err  error
	ev   *events
}

func (f *fakeGas) Read() (int, error) {
	f.ev.add("gas")
	return f.code, f.err
}

// fakeDisplay keeps the glass contents of a 16x2 display.
type fakeDisplay struct {
	lines    [2][DisplayWidth]byte
	row, col int
	halted   bool
	err      error
	ev       *events
}

func newFakeDisplay(ev *events) *fakeDisplay {
	d := &fakeDisplay{ev: ev}
	for row := range d.lines {
		for col := range d.lines[row] {
			d.lines[row][col] = '#'
		}
	}
	return d
}

func (d *fakeDisplay) SetCursor(col, row int) error {
	d.ev.add("cursor")
	d.row, d.col = row, col
	return d.err
}

func (d *fakeDisplay) Print(text string) error {
	d.ev.add("print:" + text)
	for i := 0; i < len(text); i++ {
		if d.col < DisplayWidth {
			d.lines[d.row][d.col] = text[i]
		}
		d.col++
	}
	return d.err
}

func (d *fakeDisplay) ClearLine(row int) error {
	d.ev.add("clearline")
	for col := range d.lines[row] {
		d.lines[row][col] = ' '
	}
	d.row, d.col = row, 0
	return d.err
}

func (d *fakeDisplay) Clear() error {
	d.ev.add("clear")
	for row := range d.lines {
		_ = d.ClearLine(row)
	}
	d.row, d.col = 0, 0
	return d.err
}

func (d *fakeDisplay) Halt() error {
	d.halted = true
	return nil
}

func (d *fakeDisplay) Home() error {
	d.row, d.col = 0, 0
	return d.err
}

func (d *fakeDisplay) MoveTo(row, col int) error {
	return d.SetCursor(col-1, row-1)
}

func (d *fakeDisplay) Move(dir display.CursorDirection) error {
	return display.ErrNotImplemented
}

func (d *fakeDisplay) Cursor(modes ...display.CursorMode) error { return nil }
func (d *fakeDisplay) Display(on bool) error                    { return nil }
func (d *fakeDisplay) AutoScroll(enabled bool) error            { return display.ErrNotImplemented }
func (d *fakeDisplay) MinRow() int                              { return 1 }
func (d *fakeDisplay) MinCol() int                              { return 1 }
func (d *fakeDisplay) Rows() int                                { return len(d.lines) }
func (d *fakeDisplay) Cols() int                                { return DisplayWidth }
func (d *fakeDisplay) String() string                           { return "fakeDisplay" }

func (d *fakeDisplay) Write(p []byte) (int, error) {
	if err := d.Print(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *fakeDisplay) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

func (d *fakeDisplay) line(row int) string {
	return string(d.lines[row][:])
}

type fakeClock struct {
	ms uint32
}

func (c *fakeClock) Millis() uint32 {
	return c.ms
}

type recReporter struct {
	statuses []Status
	err      error
	ev       *events
}

func (r *recReporter) Report(s Status) error {
	r.ev.add("report")
	r.statuses = append(r.statuses, s)
	return r.err
}

// rig is a Controller wired to fakes.
type rig struct {
	ev       events
	thermo   *fakeThermometer
	gas      *fakeGas
	red      *recPin
	green    *recPin
	buzzer   *recPin
	servo    *recPin
	display  *fakeDisplay
	clock    *fakeClock
	reporter *recReporter
	sleeps   []time.Duration
}

func newRig() *rig {
	r := &rig{clock: &fakeClock{}}
	r.thermo = &fakeThermometer{ev: &r.ev}
	r.gas = &fakeGas{ev: &r.ev}
	r.red = newRecPin("red", &r.ev)
	r.green = newRecPin("green", &r.ev)
	r.buzzer = newRecPin("buzzer", &r.ev)
	r.servo = newRecPin("servo", &r.ev)
	r.display = newFakeDisplay(&r.ev)
	r.reporter = &recReporter{ev: &r.ev}
	return r
}

func (r *rig) hardware() *Hardware {
	return &Hardware{
		Thermometer: r.thermo,
		Gas:         r.gas,
		Red:         r.red,
		Green:       r.green,
		Buzzer:      r.buzzer,
		Servo:       r.servo,
		Display:     r.display,
	}
}

// sleep records the pause and lets the fake clock advance by it.
func (r *rig) sleep(ctx context.Context, d time.Duration) error {
	r.sleeps = append(r.sleeps, d)
	r.clock.ms += uint32(d.Milliseconds())
	return ctx.Err()
}

func pad(s string) string {
	return s + strings.Repeat(" ", DisplayWidth-len(s))
}

var _ Display = &fakeDisplay{}
