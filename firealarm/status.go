// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import "fmt"

// DisplayWidth is the number of columns of the character display.
const DisplayWidth = 16

// Status is the outcome of one loop iteration.
type Status struct {
	Reading
	Fire bool
	// TemperatureOK and GasOK are false when the corresponding read failed
	// and Reading holds a substitute value.
	TemperatureOK bool
	GasOK         bool
}

// FireText returns "YES" or "NO".
func (s Status) FireText() string {
	if s.Fire {
		return "YES"
	}
	return "NO"
}

// DisplayLines returns the text of both display lines, each at most
// DisplayWidth characters.
func (s Status) DisplayLines() [2]string {
	state := "SAFE"
	if s.Fire {
		state = "FIRE!"
	}
	return [2]string{
		clip(fmt.Sprintf("T:%.1f G:%d", s.Temperature, s.Gas)),
		state,
	}
}

func clip(text string) string {
	if len(text) > DisplayWidth {
		return text[:DisplayWidth]
	}
	return text
}

// Reporter receives the status of every iteration.
type Reporter interface {
	Report(s Status) error
}
