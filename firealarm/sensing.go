// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import (
	"periph.io/x/conn/v3/physic"
)

// UnknownTemperature is reported in place of a failed temperature read. It
// is below TemperatureThreshold so a failed read alone never raises the
// alarm.
const UnknownTemperature = -1

// Reading is one sample of both sensors.
type Reading struct {
	// Temperature in °C, or UnknownTemperature.
	Temperature float64
	// Gas is the raw 12-bit converter code of the gas sensor.
	Gas int
}

// TemperatureResult is the outcome of one temperature transaction.
type TemperatureResult struct {
	Celsius float64
	Err     error
}

// OK reports whether the transaction succeeded.
func (r TemperatureResult) OK() bool {
	return r.Err == nil
}

// Value returns the temperature, or UnknownTemperature if the transaction
// failed.
func (r TemperatureResult) Value() float64 {
	if r.Err != nil {
		return UnknownTemperature
	}
	return r.Celsius
}

// GasResult is the outcome of one gas conversion.
type GasResult struct {
	Code int
	Err  error
}

// OK reports whether the conversion succeeded.
func (r GasResult) OK() bool {
	return r.Err == nil
}

// Value returns the code, or 0 if the conversion failed. A failed conversion
// is indistinguishable from clean air to the alarm decision.
func (r GasResult) Value() int {
	if r.Err != nil {
		return 0
	}
	return r.Code
}

// GasSensor does one analog conversion. mq2.Dev implements it.
type GasSensor interface {
	Read() (int, error)
}

// Sensors groups the two inputs of the alarm decision.
type Sensors struct {
	Thermometer physic.SenseEnv
	Gas         GasSensor
}

// ReadTemperature runs one transaction with the thermometer. It blocks for
// as long as the sensor protocol does.
func (s *Sensors) ReadTemperature() TemperatureResult {
	env := physic.Env{}
	if err := s.Thermometer.Sense(&env); err != nil {
		return TemperatureResult{Err: err}
	}
	return TemperatureResult{Celsius: toCelsius(env.Temperature)}
}

// ReadGas does one conversion on the gas sensor.
func (s *Sensors) ReadGas() GasResult {
	code, err := s.Gas.Read()
	if err != nil {
		return GasResult{Err: err}
	}
	return GasResult{Code: code}
}

func toCelsius(t physic.Temperature) float64 {
	return float64(t-physic.ZeroCelsius) / float64(physic.Celsius)
}
