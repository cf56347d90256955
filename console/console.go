// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console prints the fire detector status block to a terminal.
//
// Every iteration produces:
//
//	====================
//	Temp : 21.3°C
//	Gas  : 412
//	Fire : NO
//	====================
//
// followed by an empty line. With color enabled, the Fire line ends with a
// red or green block mirroring the indicators.
package console

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/GermanBionicSystems/firedetector/firealarm"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const rule = "===================="

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
)

// Dev writes status blocks to a writer.
type Dev struct {
	w       io.Writer
	color   bool
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev writing to w. With color set, w must understand ANSI
// escape codes.
func New(w io.Writer, color bool) *Dev {
	return &Dev{w: w, color: color, palette: *ansi256.Default}
}

// NewStdout returns a Dev writing to stdout. mode is "always", "never" or
// "auto", which enables color when stdout is a terminal.
func NewStdout(mode string) *Dev {
	color := false
	switch mode {
	case "always":
		color = true
	case "auto":
		fd := os.Stdout.Fd()
		color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return New(colorable.NewColorableStdout(), color)
}

func (d *Dev) String() string {
	return "Console"
}

// Report writes the block for s. It implements firealarm.Reporter.
func (d *Dev) Report(s firealarm.Status) error {
	// This code is designed to write the whole block in a single call.
	d.buf.Reset()
	fmt.Fprintln(&d.buf, rule)
	fmt.Fprintf(&d.buf, "Temp : %.1f°C\n", s.Temperature)
	fmt.Fprintf(&d.buf, "Gas  : %d\n", s.Gas)
	fmt.Fprintf(&d.buf, "Fire : %s", s.FireText())
	if d.color {
		c := green
		if s.Fire {
			c = red
		}
		fmt.Fprintf(&d.buf, " %s\033[0m", d.palette.Block(c))
	}
	fmt.Fprintln(&d.buf)
	fmt.Fprintln(&d.buf, rule)
	fmt.Fprintln(&d.buf)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	if !d.color {
		return nil
	}
	_, err := io.WriteString(d.w, "\033[0m")
	return err
}

var _ firealarm.Reporter = &Dev{}
var _ fmt.Stringer = &Dev{}
