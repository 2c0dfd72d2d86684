// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package trigger

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/antimetal/eventguard/pkg/eventrate"
)

// Action is invoked each time a burst of events trips the tracker.
type Action func(ctx context.Context, stamps []uint32) error

type monitor struct {
	tracker *eventrate.Tracker
	logger  logr.Logger
	action  Action
	metrics *metrics
	reg     prometheus.Registerer
}

type MonitorOpts func(*monitor)

func WithLogger(logger logr.Logger) MonitorOpts {
	return func(m *monitor) {
		m.logger = logger
	}
}

func WithAction(action Action) MonitorOpts {
	return func(m *monitor) {
		m.action = action
	}
}

// WithMetrics registers the monitor's counters with reg.
func WithMetrics(reg prometheus.Registerer) MonitorOpts {
	return func(m *monitor) {
		m.reg = reg
	}
}

// NewMonitor returns a control loop around tracker. The tracker must not be
// used by anything else once the monitor is running.
func NewMonitor(tracker *eventrate.Tracker, opts ...MonitorOpts) (*monitor, error) {
	if tracker == nil {
		return nil, fmt.Errorf("tracker can't be nil")
	}
	m := &monitor{
		tracker: tracker,
		logger:  logr.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.reg != nil {
		metrics, err := newMetrics(m.reg)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		m.metrics = metrics
	}
	return m, nil
}

// Run feeds every timestamp received on events to the tracker. When the
// tracker reaches its threshold the action fires once and the tracker is
// re-initialized, so the next trip needs a whole new burst.
//
// Run returns nil when events is closed and ctx.Err() when ctx is done.
func (m *monitor) Run(ctx context.Context, events <-chan uint32) error {
	m.tracker.Initialize()
	m.logger.Info("monitor started",
		"capacity", m.tracker.Capacity(), "window", m.tracker.Window())

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return ctx.Err()
		case ts, ok := <-events:
			if !ok {
				m.logger.Info("event source closed")
				return nil
			}
			m.observe(ctx, ts)
		}
	}
}

func (m *monitor) observe(ctx context.Context, ts uint32) {
	m.metrics.event()
	m.tracker.Append(ts)
	if !m.tracker.ThresholdMet() {
		m.logger.V(1).Info("event recorded", "timestamp", ts)
		return
	}

	stamps := m.tracker.Timestamps()
	m.metrics.trip()
	m.logger.Info("event threshold met", "timestamps", stamps)
	if m.action != nil {
		if err := m.action(ctx, stamps); err != nil {
			m.logger.Error(err, "trigger action failed")
		}
	}
	m.tracker.Initialize()
}
