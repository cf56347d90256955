// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mq2 reads a Hanwei MQ-2 combustible gas and smoke sensor through
// any analog.PinADC.
//
// The sensor has no digital interface: its load resistor voltage rises with
// gas concentration. Readings are reported as uncalibrated converter codes,
// rescaled to a 12-bit span so that thresholds do not depend on which
// converter is fitted.
//
// # Datasheet
//
// https://www.pololu.com/file/0J309/MQ2.pdf
package mq2

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/analog"
)

// MaxCode is the code of a full scale reading.
const MaxCode = 1<<12 - 1

// Dev is an MQ-2 on one converter channel.
type Dev struct {
	p        analog.PinADC
	min, max int32
}

// New returns a Dev reading from p. p should be set up for the full output
// swing of the sensor module.
//
// The sensor output is never below ground, so the negative half of a
// differential converter's range is not part of the span.
func New(p analog.PinADC) (*Dev, error) {
	lo, hi := p.Range()
	if lo.Raw < 0 {
		lo.Raw = 0
	}
	if hi.Raw <= lo.Raw {
		return nil, fmt.Errorf("mq2: invalid converter range [%d, %d]", lo.Raw, hi.Raw)
	}
	return &Dev{p: p, min: lo.Raw, max: hi.Raw}, nil
}

// Read does a single conversion and returns it in [0, MaxCode].
func (d *Dev) Read() (int, error) {
	s, err := d.p.Read()
	if err != nil {
		return 0, fmt.Errorf("mq2: %w", err)
	}
	return d.scale(s.Raw), nil
}

func (d *Dev) scale(raw int32) int {
	if raw <= d.min {
		return 0
	}
	if raw >= d.max {
		return MaxCode
	}
	if d.max-d.min == MaxCode {
		return int(raw - d.min)
	}
	return int(int64(raw-d.min) * MaxCode / int64(d.max-d.min))
}

func (d *Dev) String() string {
	return fmt.Sprintf("mq2: %s", d.p)
}

// Halt implements conn.Resource. The converter is left as is.
func (d *Dev) Halt() error {
	return nil
}

var _ conn.Resource = &Dev{}
