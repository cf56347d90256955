// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firealarm is the control loop of a fire detector.
//
// Every 100ms the Controller samples a temperature sensor and a gas sensor,
// decides whether there is a fire, drives a red and a green indicator and a
// buzzer accordingly, reports the status on the console and on a 16x2
// character display, and sweeps a servo between two positions once a second.
//
// The loop is single threaded. A failed sensor read never stops it and never
// raises the alarm on its own: a failed temperature read is reported as -1°C,
// below the threshold.
package firealarm
