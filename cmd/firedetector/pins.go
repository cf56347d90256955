// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

// Pin map, Raspberry Pi BCM names. The buzzer and the servo need the two
// hardware PWM channels, GPIO12 (PWM0) and GPIO13 (PWM1).
const (
	pinDHT22  = "GPIO21"
	pinRed    = "GPIO27"
	pinGreen  = "GPIO26"
	pinBuzzer = "GPIO12"
	pinServo  = "GPIO13"

	pinLCDRS = "GPIO19"
	pinLCDE  = "GPIO18"
	pinLCDD4 = "GPIO5"
	pinLCDD5 = "GPIO17"
	pinLCDD6 = "GPIO16"
	pinLCDD7 = "GPIO23"
)

// The gas sensor is on channel 0 of an ADS1115 at its default address,
// with the 4.096V range covering the whole 0-3.3V output of the module.
const (
	adcSampleRate = 16 // Hz
)
