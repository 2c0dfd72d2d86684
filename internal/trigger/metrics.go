// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "eventguard"

type metrics struct {
	events prometheus.Counter
	trips  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Number of trigger events fed to the tracker.",
		}),
		trips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "trips_total",
			Help:      "Number of times the event threshold was met.",
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.trips} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// nil receivers are no-ops so the monitor can run without metrics.

func (m *metrics) event() {
	if m != nil {
		m.events.Inc()
	}
}

func (m *metrics) trip() {
	if m != nil {
		m.trips.Inc()
	}
}
