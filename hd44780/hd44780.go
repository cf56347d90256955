// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 wired in
// 4-bit parallel mode: a register select line, an enable strobe and the four
// upper data lines D4-D7.
//
// The R/W line is expected to be tied to ground, so the driver never reads
// the busy flag back. Every command is followed by a fixed settle delay and
// timing is the only thing that keeps the controller in sync.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3/cpu"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true
)

// Instruction set, see table 6 of the datasheet.
const (
	cmdClear       byte = 0x01
	cmdHome        byte = 0x02
	cmdEntryMode   byte = 0x04
	cmdDisplay     byte = 0x08
	cmdShift       byte = 0x10
	cmdFunctionSet byte = 0x20
	cmdSetDDRAM    byte = 0x80

	entryIncrement byte = 0x02

	displayOn    byte = 0x04
	displayCurs  byte = 0x02
	displayBlink byte = 0x01

	shiftRight byte = 0x04

	function2Lines byte = 0x08
)

const (
	// delayPowerOn is the wait after Vcc rises above 4.5V.
	delayPowerOn = 20 * time.Millisecond
	// delayWakeup1 and delayWakeup2 follow the first and second 0x3 nibble
	// of the initialization by instruction.
	delayWakeup1 = 5 * time.Millisecond
	delayWakeup2 = 150 * time.Microsecond
	// delayCommand follows every command and data byte. The slowest
	// instructions, clear and home, take 1.52ms.
	delayCommand = 2 * time.Millisecond
	// delayEnableHold is the minimum width of the enable pulse and the setup
	// time before it.
	delayEnableHold = time.Microsecond
	// delayEnableSettle follows the falling edge of enable, while the
	// controller latches the nibble.
	delayEnableSettle = 100 * time.Microsecond
)

// Opts holds the geometry of the display module.
type Opts struct {
	Rows int
	Cols int
}

// DefaultOpts is a 2 lines by 16 characters module.
var DefaultOpts = Opts{Rows: 2, Cols: 16}

// Dev is a 4-bit HD44780 connected through discrete GPIO lines.
//
// Implements periph.io/x/conn/v3/display.TextDisplay. SetCursor is zero
// based while MoveTo follows the TextDisplay convention of starting at
// MinRow() and MinCol().
//
// Dev is write only: there is no way to detect a display that is missing,
// miswired or out of sync.
type Dev struct {
	rs    gpio.PinOut
	e     gpio.PinOut
	data  [4]gpio.PinOut
	rows  int
	cols  int
	delay func(time.Duration)

	on     bool
	cursor bool
	blink  bool
}

// New returns an initialized HD44780.
//
// data holds the D4, D5, D6 and D7 lines in that order. opts may be nil, in
// which case DefaultOpts is used.
func New(rs, e gpio.PinOut, data [4]gpio.PinOut, opts *Opts) (*Dev, error) {
	return newDev(rs, e, data, opts, wait)
}

func newDev(rs, e gpio.PinOut, data [4]gpio.PinOut, opts *Opts, delay func(time.Duration)) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if rs == nil || e == nil {
		return nil, errors.New("hd44780: rs and e lines are required")
	}
	for i, p := range data {
		if p == nil {
			return nil, fmt.Errorf("hd44780: data line D%d is missing", i+4)
		}
	}
	if opts.Rows < 1 || opts.Rows > 4 || opts.Cols < 1 || opts.Cols > 40 {
		return nil, fmt.Errorf("hd44780: unsupported geometry %dx%d", opts.Rows, opts.Cols)
	}
	lcd := &Dev{
		rs:    rs,
		e:     e,
		data:  data,
		rows:  opts.Rows,
		cols:  opts.Cols,
		delay: delay,
		on:    true,
	}
	return lcd, lcd.Init()
}

// Init runs the initialization by instruction sequence of figure 24 of the
// datasheet, leaving the display on, cursor off, incrementing and empty.
//
// New already calls Init. Calling it again resynchronizes a display that was
// power cycled on its own.
func (lcd *Dev) Init() error {
	lcd.delay(delayPowerOn)
	if err := lcd.rs.Out(gpio.Level(modeCommand)); err != nil {
		return err
	}
	if err := lcd.e.Out(gpio.Low); err != nil {
		return err
	}
	// The controller may be in 8-bit mode or halfway through a 4-bit
	// transfer. Three 0x3 nibbles put it back in 8-bit mode whatever the
	// state, then 0x2 switches to 4-bit.
	if err := lcd.sendNibble(0x03); err != nil {
		return err
	}
	lcd.delay(delayWakeup1)
	if err := lcd.sendNibble(0x03); err != nil {
		return err
	}
	lcd.delay(delayWakeup2)
	if err := lcd.sendNibble(0x03); err != nil {
		return err
	}
	if err := lcd.sendNibble(0x02); err != nil {
		return err
	}

	function := cmdFunctionSet
	if lcd.rows > 1 {
		function |= function2Lines
	}
	lcd.on, lcd.cursor, lcd.blink = true, false, false
	for _, cmd := range []byte{function, lcd.displayControl(), cmdEntryMode | entryIncrement, cmdClear} {
		if err := lcd.SendCommand(cmd); err != nil {
			return err
		}
	}
	lcd.delay(delayCommand)
	return nil
}

// SendCommand writes an instruction byte, high nibble first, with RS low.
func (lcd *Dev) SendCommand(cmd byte) error {
	return lcd.send(modeCommand, cmd)
}

// SendData writes a byte to the current DDRAM address, with RS high. The
// address auto-increments.
func (lcd *Dev) SendData(b byte) error {
	return lcd.send(modeData, b)
}

// SetCursor moves the DDRAM address to column col of row row. Both are zero
// based.
func (lcd *Dev) SetCursor(col, row int) error {
	if row < 0 || row >= lcd.rows || col < 0 || col >= lcd.cols {
		return fmt.Errorf("hd44780: SetCursor(%d, %d) out of range", col, row)
	}
	return lcd.SendCommand(cmdSetDDRAM | (rowOffset(row, lcd.cols) + byte(col)))
}

// Print writes text starting at the current cursor position. Text past the
// end of the line is not wrapped; where it lands depends on the DDRAM layout
// of the module.
func (lcd *Dev) Print(text string) error {
	_, err := lcd.WriteString(text)
	return err
}

// ClearLine overwrites row row with spaces and leaves the cursor at its first
// column.
//
// The controller has no command to clear part of the screen, so this is how
// shorter text replaces longer text without leaving glyphs behind.
func (lcd *Dev) ClearLine(row int) error {
	if err := lcd.SetCursor(0, row); err != nil {
		return err
	}
	for range lcd.cols {
		if err := lcd.SendData(' '); err != nil {
			return err
		}
	}
	return lcd.SetCursor(0, row)
}

// Clear clears the screen and moves the cursor to the first position.
func (lcd *Dev) Clear() error {
	return lcd.SendCommand(cmdClear)
}

// Home moves the cursor to the first position.
func (lcd *Dev) Home() error {
	return lcd.SendCommand(cmdHome)
}

// Write writes p as character codes. It implements io.Writer.
func (lcd *Dev) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if err = lcd.SendData(b); err != nil {
			return
		}
		n++
	}
	return
}

// WriteString writes text as character codes.
func (lcd *Dev) WriteString(text string) (int, error) {
	return lcd.Write([]byte(text))
}

// Rows returns the number of rows of the module.
func (lcd *Dev) Rows() int {
	return lcd.rows
}

// Cols returns the number of columns of the module.
func (lcd *Dev) Cols() int {
	return lcd.cols
}

func (lcd *Dev) String() string {
	return fmt.Sprintf("HD44780{rs:%s, e:%s, d4:%s, d5:%s, d6:%s, d7:%s} - Rows: %d, Cols: %d",
		lcd.rs, lcd.e, lcd.data[0], lcd.data[1], lcd.data[2], lcd.data[3], lcd.rows, lcd.cols)
}

// MinRow returns the first row number accepted by MoveTo.
func (lcd *Dev) MinRow() int {
	return 1
}

// MinCol returns the first column number accepted by MoveTo.
func (lcd *Dev) MinCol() int {
	return 1
}

// MoveTo moves the cursor to row, col, both starting at 1.
func (lcd *Dev) MoveTo(row, col int) error {
	return lcd.SetCursor(col-lcd.MinCol(), row-lcd.MinRow())
}

// Move moves the cursor one position forward or backward. The controller
// cannot move it between rows.
func (lcd *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Forward:
		return lcd.SendCommand(cmdShift | shiftRight)
	case display.Backward:
		return lcd.SendCommand(cmdShift)
	default:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
}

// Cursor sets the cursor mode. Modes combine, e.g.
// Cursor(display.CursorUnderline, display.CursorBlink).
func (lcd *Dev) Cursor(modes ...display.CursorMode) error {
	cursor, blink := lcd.cursor, lcd.blink
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			cursor, blink = false, false
		case display.CursorUnderline:
			cursor = true
		case display.CursorBlink, display.CursorBlock:
			blink = true
		default:
			return fmt.Errorf("hd44780: unexpected cursor mode %d", mode)
		}
	}
	lcd.cursor, lcd.blink = cursor, blink
	return lcd.SendCommand(lcd.displayControl())
}

// Display turns the display on or off. DDRAM is kept while it is off.
func (lcd *Dev) Display(on bool) error {
	lcd.on = on
	return lcd.SendCommand(lcd.displayControl())
}

// AutoScroll is not supported. Returns display.ErrNotImplemented.
func (lcd *Dev) AutoScroll(enabled bool) error {
	return display.ErrNotImplemented
}

// Halt clears the display and turns it off.
func (lcd *Dev) Halt() error {
	if err := lcd.Clear(); err != nil {
		return err
	}
	return lcd.Display(false)
}

func (lcd *Dev) displayControl() byte {
	cmd := cmdDisplay
	if lcd.on {
		cmd |= displayOn
	}
	if lcd.cursor {
		cmd |= displayCurs
	}
	if lcd.blink {
		cmd |= displayBlink
	}
	return cmd
}

func (lcd *Dev) send(mode writeMode, b byte) error {
	if err := lcd.rs.Out(gpio.Level(mode)); err != nil {
		return err
	}
	if err := lcd.sendNibble(b >> 4); err != nil {
		return err
	}
	if err := lcd.sendNibble(b & 0x0f); err != nil {
		return err
	}
	lcd.delay(delayCommand)
	return nil
}

// sendNibble puts the low 4 bits of n on D4-D7, bit 0 on D4, and strobes
// enable so the controller latches them.
func (lcd *Dev) sendNibble(n byte) error {
	for i, p := range lcd.data {
		if err := p.Out(gpio.Level(n>>uint(i)&1 == 1)); err != nil {
			return err
		}
	}
	return lcd.pulseEnable()
}

func (lcd *Dev) pulseEnable() error {
	if err := lcd.e.Out(gpio.Low); err != nil {
		return err
	}
	lcd.delay(delayEnableHold)
	if err := lcd.e.Out(gpio.High); err != nil {
		return err
	}
	lcd.delay(delayEnableHold)
	if err := lcd.e.Out(gpio.Low); err != nil {
		return err
	}
	lcd.delay(delayEnableSettle)
	return nil
}

// rowOffset returns the DDRAM address of the first column of row.
//
// 4 line modules are two 2 line controllers' worth of DDRAM folded in half,
// so rows 2 and 3 continue rows 0 and 1.
func rowOffset(row, cols int) byte {
	offsets := [4]byte{0x00, 0x40, byte(cols), 0x40 + byte(cols)}
	return offsets[row]
}

// wait blocks for d. time.Sleep can overshoot by tens of microseconds, which
// is fine for the millisecond waits but would stretch every nibble, so short
// waits spin instead.
func wait(d time.Duration) {
	if d < time.Millisecond {
		cpu.Nanospin(d)
		return
	}
	time.Sleep(d)
}

var _ display.TextDisplay = &Dev{}
var _ conn.Resource = &Dev{}
