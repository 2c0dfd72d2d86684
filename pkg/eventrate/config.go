// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package eventrate

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/antimetal/eventguard/pkg/clock"
	"github.com/antimetal/eventguard/pkg/errors"
)

const (
	// MaxWindow keeps stored timestamps inside the half range where modular
	// subtraction still orders them correctly.
	MaxWindow = 1<<31 - 1

	DefaultCapacity = 3
	DefaultWindow   = 5
	DefaultEpsilon  = 10
)

// Config specifies the configuration of a Tracker.
type Config struct {
	Capacity int          // number of events that must fall inside Window
	Window   uint32       // ticks a timestamp stays fresh
	Epsilon  uint32       // extra ticks subtracted when seeding slots, must be > 0
	Clock    clock.Source // tick source, may be replaced by a mock when testing
	Logger   logr.Logger
}

// DefaultConfig returns a three event, five second tracker configuration on the wall clock.
func DefaultConfig() *Config {
	return &Config{
		Capacity: DefaultCapacity,
		Window:   DefaultWindow,
		Epsilon:  DefaultEpsilon,
		Clock:    clock.Default(),
		Logger:   logr.Discard(),
	}
}

// Validate checks the configuration options and returns an error if any have invalid values.
func (cfg *Config) Validate() error {
	if cfg.Capacity <= 0 {
		return errors.NewConfigurationError("Tracker", errors.ErrInvalidCapacity)
	}
	if cfg.Window > MaxWindow {
		return errors.NewConfigurationError("Tracker",
			fmt.Errorf("window must be at most %d, got %d", MaxWindow, cfg.Window))
	}
	// seeded slots must sit strictly outside the window
	if cfg.Epsilon == 0 {
		return errors.NewConfigurationError("Tracker", errors.New("epsilon must be greater than zero"))
	}
	if cfg.Epsilon > math.MaxUint32-cfg.Window {
		return errors.NewConfigurationError("Tracker",
			fmt.Errorf("window plus epsilon must not exceed %d", uint32(math.MaxUint32)))
	}
	if cfg.Clock == nil {
		return errors.NewConfigurationError("Tracker", errors.New("clock must not be nil"))
	}
	return nil
}
