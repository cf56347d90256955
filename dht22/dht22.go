// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht22

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrTimeout is returned when the sensor did not answer or stopped
	// answering before all 40 bits were received.
	ErrTimeout = errors.New("dht22: timeout waiting for sensor")
	// ErrChecksum is returned when the received bytes do not add up to the
	// checksum byte.
	ErrChecksum = errors.New("dht22: checksum mismatch")
)

const (
	// startSignal is how long the host holds the line low to wake the
	// sensor. The datasheet asks for at least 1ms.
	startSignal = 2 * time.Millisecond
	// edgeTimeout bounds the wait for any single edge. The longest gap in a
	// valid answer is 80µs.
	edgeTimeout = 5 * time.Millisecond
	// bitThreshold separates a 0 (26-28µs high) from a 1 (70µs high).
	bitThreshold = 50 * time.Microsecond
	// minInterval is the sampling period of the sensor.
	minInterval = 2 * time.Second

	// Release, response low, response high, then two edges per bit.
	maxEdges = 4 + 2*40
)

// Dev is a DHT22 on a single GPIO line.
type Dev struct {
	p gpio.PinIO

	mu       sync.Mutex
	last     time.Time
	cached   physic.Env
	shutdown chan struct{}

	now   func() time.Time
	sleep func(time.Duration)
}

type edge struct {
	at    time.Time
	level gpio.Level
}

// New returns a DHT22 on p. The line is left as an input with pull-up,
// which is the idle state of the bus.
func New(p gpio.PinIO) (*Dev, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("dht22: %w", err)
	}
	return &Dev{p: p, now: time.Now, sleep: time.Sleep}, nil
}

// Sense reads the temperature and humidity. Pressure is not measured and is
// set to 0.
func (d *Dev) Sense(env *physic.Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.last.IsZero() && d.now().Sub(d.last) < minInterval {
		*env = d.cached
		return nil
	}
	b, err := d.transact()
	if err != nil {
		return err
	}
	toEnv(b, env)
	d.cached = *env
	d.last = d.now()
	return nil
}

// SenseContinuous returns a channel that receives a sample every interval.
// The minimum interval is 2 seconds. Failed samples are skipped. To end the
// read, call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minInterval {
		return nil, errors.New("dht22: invalid duration. minimum 2 seconds")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("dht22: sense continuous already running")
	}
	shutdown := make(chan struct{})
	d.shutdown = shutdown
	ch := make(chan physic.Env, 16)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}()
	return ch, nil
}

// Precision returns the resolution of the device for its measured
// parameters.
func (d *Dev) Precision(env *physic.Env) {
	env.Temperature = physic.Celsius / 10
	env.Pressure = 0
	env.Humidity = physic.MilliRH
}

// Halt interrupts a running SenseContinuous() operation.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht22: %s", d.p)
}

// transact runs one start signal and answer. It must be called with mu held.
func (d *Dev) transact() ([5]byte, error) {
	if err := d.p.Out(gpio.Low); err != nil {
		return [5]byte{}, fmt.Errorf("dht22: start signal: %w", err)
	}
	d.sleep(startSignal)
	if err := d.p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return [5]byte{}, fmt.Errorf("dht22: release line: %w", err)
	}
	edges := make([]edge, 0, maxEdges)
	for len(edges) < maxEdges && d.p.WaitForEdge(edgeTimeout) {
		edges = append(edges, edge{at: d.now(), level: d.p.Read()})
	}
	return decode(highPulses(edges))
}

// highPulses returns the width of every complete high pulse in edges.
func highPulses(edges []edge) []time.Duration {
	var out []time.Duration
	for i := 1; i < len(edges); i++ {
		if edges[i-1].level == gpio.High && edges[i].level == gpio.Low {
			out = append(out, edges[i].at.Sub(edges[i-1].at))
		}
	}
	return out
}

// decode turns the last 40 high pulses into the 5 answer bytes, MSB first.
// Any earlier pulse is the 80µs response preamble.
func decode(highs []time.Duration) ([5]byte, error) {
	var b [5]byte
	if len(highs) < 40 {
		return b, fmt.Errorf("%w: got %d of 40 bits", ErrTimeout, len(highs))
	}
	for i, w := range highs[len(highs)-40:] {
		b[i/8] <<= 1
		if w > bitThreshold {
			b[i/8] |= 1
		}
	}
	if b[0]+b[1]+b[2]+b[3] != b[4] {
		return b, fmt.Errorf("%w: % x", ErrChecksum, b)
	}
	return b, nil
}

// toEnv converts the answer bytes. Both values are tenths of their unit;
// temperature is sign and magnitude.
func toEnv(b [5]byte, env *physic.Env) {
	h := uint16(b[0])<<8 | uint16(b[1])
	env.Humidity = physic.RelativeHumidity(h) * physic.MilliRH
	t := int32(b[2]&0x7f)<<8 | int32(b[3])
	if b[2]&0x80 != 0 {
		t = -t
	}
	env.Temperature = physic.ZeroCelsius + (physic.Celsius/10)*physic.Temperature(t)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
