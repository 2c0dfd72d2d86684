// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package eventrate detects bursts of discrete events.
//
// A Tracker remembers the timestamps of the last Capacity events and reports
// when all of them fall inside a time window, i.e. when at least Capacity
// events arrived within Window ticks of now.
package eventrate

import (
	"github.com/go-logr/logr"

	"github.com/antimetal/eventguard/pkg/clock"
	"github.com/antimetal/eventguard/pkg/ringbuffer"
)

// Tracker is a fixed-size ring of event timestamps.
//
// Timestamps are compared with uint32 modular subtraction, so a tracker keeps
// working across a clock rollover as long as the real elapsed time between a
// stored timestamp and now stays below 2^31 ticks.
//
// Note: Tracker is NOT thread-safe.
type Tracker struct {
	slots   *ringbuffer.RingBuffer[uint32]
	window  uint32
	epsilon uint32
	clock   clock.Source
	logger  logr.Logger
}

// New creates a Tracker with cfg.Capacity slots and the cursor at 0. The slots
// are seeded as by Initialize, so a new tracker is below threshold.
// A nil cfg uses DefaultConfig.
func New(cfg *Config) (*Tracker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slots, err := ringbuffer.New[uint32](cfg.Capacity)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}

	t := &Tracker{
		slots:   slots,
		window:  cfg.Window,
		epsilon: cfg.Epsilon,
		clock:   cfg.Clock,
		logger:  logger.WithName("eventrate"),
	}
	t.seed()
	return t, nil
}

// Initialize stamps every slot with now - Window - Epsilon so the tracker
// starts out below threshold. The cursor is left where it is.
func (t *Tracker) Initialize() {
	stale := t.seed()
	t.logger.V(1).Info("initialized", "capacity", t.slots.Cap(), "seed", stale)
}

func (t *Tracker) seed() uint32 {
	stale := t.clock.Now() - t.window - t.epsilon
	t.slots.Fill(stale)
	return stale
}

// Append records ts in the slot under the cursor and advances the cursor.
func (t *Tracker) Append(ts uint32) {
	t.slots.Push(ts)
}

// AppendNow records the current clock reading.
func (t *Tracker) AppendNow() {
	t.Append(t.clock.Now())
}

// ThresholdMet reports whether every slot is within Window ticks of now.
func (t *Tracker) ThresholdMet() bool {
	now := t.clock.Now()
	met := true
	t.slots.Each(func(ts uint32) bool {
		// modular: ts a few ticks before a rollover is still "just now"
		if now-ts > t.window {
			met = false
		}
		return met
	})
	return met
}

// Timestamps returns the stored timestamps, oldest first.
func (t *Tracker) Timestamps() []uint32 {
	return t.slots.GetAll()
}

// Cursor returns the index of the next slot Append will overwrite.
func (t *Tracker) Cursor() int {
	return t.slots.Head()
}

// Capacity returns the number of slots.
func (t *Tracker) Capacity() int {
	return t.slots.Cap()
}

// Window returns the number of ticks a timestamp stays fresh.
func (t *Tracker) Window() uint32 {
	return t.window
}
