// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht22 reads an AOSONG DHT22 (AM2302) temperature and humidity
// sensor over its single-wire bus.
//
// The host pulls the line low to request a sample, then the sensor answers
// with 40 bits encoded as the width of high pulses. The whole transaction is
// timed on the host side by timestamping GPIO edges, so the pin must support
// edge detection.
//
// The sensor takes a new sample at most every two seconds; Sense calls made
// in between return the previous sample.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/Sensors/Temperature/DHT22.pdf
package dht22
