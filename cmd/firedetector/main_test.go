// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

type haltRecorder struct {
	name   string
	err    error
	halted *[]string
}

func (h *haltRecorder) String() string {
	return h.name
}

func (h *haltRecorder) Halt() error {
	*h.halted = append(*h.halted, h.name)
	return h.err
}

func TestResourcesHaltReverseOrder(t *testing.T) {
	var halted []string
	r := resources{
		&haltRecorder{name: "dht22", halted: &halted},
		&haltRecorder{name: "adc", halted: &halted},
	}
	assert.NoError(t, r.halt())
	assert.Equal(t, []string{"adc", "dht22"}, halted)
}

func TestResourcesHaltCombinesErrors(t *testing.T) {
	var halted []string
	errA, errB := errors.New("a"), errors.New("b")
	r := resources{
		&haltRecorder{name: "dht22", err: errA, halted: &halted},
		&haltRecorder{name: "adc", err: errB, halted: &halted},
	}
	err := r.halt()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Len(t, halted, 2)
}

func TestResourcesHaltEmpty(t *testing.T) {
	assert.NoError(t, resources(nil).halt())
}
