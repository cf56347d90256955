// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadTemperature(t *testing.T) {
	var ev events
	s := Sensors{Thermometer: &fakeThermometer{celsius: 23.4, ev: &ev}}
	res := s.ReadTemperature()
	assert.True(t, res.OK())
	assert.InDelta(t, 23.4, res.Value(), 1e-9)
}

func TestReadTemperatureFailure(t *testing.T) {
	var ev events
	s := Sensors{Thermometer: &fakeThermometer{celsius: 99, err: errors.New("timeout"), ev: &ev}}
	res := s.ReadTemperature()
	assert.False(t, res.OK())
	assert.EqualError(t, res.Err, "timeout")
	assert.Equal(t, float64(UnknownTemperature), res.Value())
}

func TestReadGas(t *testing.T) {
	var ev events
	g := &fakeGas{code: 812, ev: &ev}
	s := Sensors{Gas: g}
	res := s.ReadGas()
	assert.True(t, res.OK())
	assert.Equal(t, 812, res.Value())

	g.err = errors.New("nack")
	res = s.ReadGas()
	assert.False(t, res.OK())
	assert.Equal(t, 0, res.Value())
}

func TestDisplayLines(t *testing.T) {
	tests := []struct {
		st   Status
		want [2]string
	}{
		{Status{Reading: Reading{Temperature: 50, Gas: 300}, Fire: true}, [2]string{"T:50.0 G:300", "FIRE!"}},
		{Status{Reading: Reading{Temperature: -1, Gas: 800}, Fire: true}, [2]string{"T:-1.0 G:800", "FIRE!"}},
		{Status{Reading: Reading{Temperature: 20, Gas: 100}}, [2]string{"T:20.0 G:100", "SAFE"}},
		{Status{Reading: Reading{Temperature: 23.45, Gas: 7}}, [2]string{"T:23.4 G:7", "SAFE"}},
		{Status{Reading: Reading{Temperature: -1234.5, Gas: 4095}}, [2]string{"T:-1234.5 G:4095", "SAFE"}},
		{Status{Reading: Reading{Temperature: -12345.5, Gas: 4095}}, [2]string{"T:-12345.5 G:409", "SAFE"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.st.DisplayLines())
	}
}

func TestFireText(t *testing.T) {
	assert.Equal(t, "YES", Status{Fire: true}.FireText())
	assert.Equal(t, "NO", Status{}.FireText())
}
