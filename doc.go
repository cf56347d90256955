// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package firedetector is a fire detector built on periph.io.
//
// The device drivers live in hd44780, dht22 and mq2. The detection loop is
// in firealarm and the binary in cmd/firedetector.
package firedetector
