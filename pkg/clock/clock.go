// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package clock provides the monotonic tick sources consumed by event trackers.
//
// Ticks are unsigned 32-bit values that are allowed to roll over. Consumers
// compare ticks with modular subtraction only.
package clock

import (
	"github.com/benbjohnson/clock"
)

// Source returns the current time in ticks.
type Source interface {
	Now() uint32
}

// Func adapts a plain function to a Source.
type Func func() uint32

func (f Func) Now() uint32 {
	return f()
}

type seconds struct {
	clk clock.Clock
}

// Seconds returns a Source ticking once per second, reading Unix time from clk
// and truncating it to 32 bits.
func Seconds(clk clock.Clock) Source {
	return &seconds{clk: clk}
}

func (s *seconds) Now() uint32 {
	return uint32(s.clk.Now().Unix())
}

// Default returns a one-second Source backed by the wall clock.
func Default() Source {
	return Seconds(clock.New())
}
