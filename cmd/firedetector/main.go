// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// firedetector watches a DHT22 and an MQ-2 and sounds the alarm on fire.
//
// It runs until interrupted. Settings are described in
// github.com/GermanBionicSystems/firedetector/internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GermanBionicSystems/firedetector/console"
	"github.com/GermanBionicSystems/firedetector/dht22"
	"github.com/GermanBionicSystems/firedetector/firealarm"
	"github.com/GermanBionicSystems/firedetector/hd44780"
	"github.com/GermanBionicSystems/firedetector/internal/config"
	"github.com/GermanBionicSystems/firedetector/internal/logger"
	"github.com/GermanBionicSystems/firedetector/mq2"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "firedetector: %s.\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mainImpl(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalw("fire detector stopped", "err", err)
	}
	log.Infow("fire detector stopped")
}

func mainImpl(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	state, err := host.Init()
	if err != nil {
		return err
	}
	log.Debugw("host initialized", "loaded", len(state.Loaded), "failed", len(state.Failed))

	bus, err := i2creg.Open(cfg.I2C.Bus)
	if err != nil {
		return fmt.Errorf("opening I²C bus %q: %w", cfg.I2C.Bus, err)
	}
	defer bus.Close()

	hw, err := openHardware(bus)
	if err != nil {
		return err
	}
	log.Infow("hardware ready", "display", hw.Display, "thermometer", hw.Thermometer, "gas", hw.Gas)

	opts := []firealarm.Option{firealarm.WithLogger(log)}
	var out *console.Dev
	if cfg.Console.Enabled {
		out = console.NewStdout(cfg.Console.Color)
		opts = append(opts, firealarm.WithReporter(out))
	}
	ctl, err := firealarm.New(hw, opts...)
	if err != nil {
		return err
	}
	defer func() {
		herr := ctl.Halt()
		if out != nil {
			herr = multierr.Append(herr, out.Halt())
		}
		if herr != nil {
			log.Warnw("halting", "err", herr)
		}
	}()

	if err := ctl.Greet(ctx); err != nil {
		return err
	}
	return ctl.Run(ctx)
}

// openHardware acquires every peripheral of the pin map. On failure the
// devices already acquired are halted.
func openHardware(bus i2c.Bus) (hw *firealarm.Hardware, err error) {
	var acquired resources
	defer func() {
		if err != nil {
			err = multierr.Append(err, acquired.halt())
		}
	}()

	var errs error
	pin := func(name string) gpio.PinIO {
		p := gpioreg.ByName(name)
		if p == nil {
			errs = multierr.Append(errs, fmt.Errorf("no pin %s", name))
		}
		return p
	}
	dht, rs, e := pin(pinDHT22), pin(pinLCDRS), pin(pinLCDE)
	d4, d5, d6, d7 := pin(pinLCDD4), pin(pinLCDD5), pin(pinLCDD6), pin(pinLCDD7)
	hw = &firealarm.Hardware{
		Red:    pin(pinRed),
		Green:  pin(pinGreen),
		Buzzer: pin(pinBuzzer),
		Servo:  pin(pinServo),
	}
	if errs != nil {
		return nil, errs
	}

	thermometer, err := dht22.New(dht)
	if err != nil {
		return nil, err
	}
	acquired = append(acquired, thermometer)
	hw.Thermometer = thermometer

	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		return nil, err
	}
	ch, err := adc.PinForChannel(ads1x15.Channel0, 4096*physic.MilliVolt, adcSampleRate*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		return nil, err
	}
	acquired = append(acquired, ch)
	if hw.Gas, err = mq2.New(ch); err != nil {
		return nil, err
	}

	lcd, err := hd44780.New(rs, e, [4]gpio.PinOut{d4, d5, d6, d7}, &hd44780.DefaultOpts)
	if err != nil {
		return nil, err
	}
	hw.Display = lcd
	return hw, nil
}

// resources are devices in the order they were acquired.
type resources []conn.Resource

// halt halts every resource, last acquired first, and combines their errors.
func (r resources) halt() error {
	var err error
	for i := len(r) - 1; i >= 0; i-- {
		err = multierr.Append(err, r[i].Halt())
	}
	return err
}
