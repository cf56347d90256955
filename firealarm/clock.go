// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package firealarm

import "time"

// Clock is a monotonic millisecond counter. It wraps around after about 49
// days; users must only compare values by difference.
type Clock interface {
	Millis() uint32
}

type monotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock that counts from now. It is not affected
// by changes to the wall clock.
func NewMonotonicClock() Clock {
	return monotonicClock{start: time.Now()}
}

func (c monotonicClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
