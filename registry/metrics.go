// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marlinprotocol/oyster-selection/utils/wrappers"
)

type metrics struct {
	inserts    prometheus.Counter
	updates    prometheus.Counter
	deletes    prometheus.Counter
	selections prometheus.Counter
	selected   prometheus.Counter

	population  prometheus.Gauge
	totalWeight prometheus.Gauge
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts",
			Help:      "Number of participant registrations",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates",
			Help:      "Number of participant weight updates",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes",
			Help:      "Number of participant removals",
		}),
		selections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections",
			Help:      "Number of selection calls",
		}),
		selected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selected_participants",
			Help:      "Total participants returned across selection calls",
		}),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population",
			Help:      "Number of currently registered participants",
		}),
		totalWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_weight",
			Help:      "Cumulative weight of all registered participants",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.inserts),
		registerer.Register(m.updates),
		registerer.Register(m.deletes),
		registerer.Register(m.selections),
		registerer.Register(m.selected),
		registerer.Register(m.population),
		registerer.Register(m.totalWeight),
	)
	return m, errs.Err
}
