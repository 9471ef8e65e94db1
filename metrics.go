// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for a cache. A nil *Metrics records nothing.
type Metrics struct {
	Hits            prometheus.Counter
	Misses          prometheus.Counter
	Loads           prometheus.Counter
	LoadFailures    prometheus.Counter
	Evictions       prometheus.Counter
	AllocatedBytes  prometheus.Gauge
	ResidentHandles prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	hits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescache_hits_total",
		Help: "Total Get calls served from resident handles",
	})

	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescache_misses_total",
		Help: "Total Get calls that required a load",
	})

	loads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescache_loads_total",
		Help: "Total resources loaded from resource files",
	})

	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescache_load_failures_total",
		Help: "Total resource loads that failed",
	})

	evictions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescache_evictions_total",
		Help: "Total handles released from the cache",
	})

	allocated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rescache_allocated_bytes",
		Help: "Budget bytes currently held by cached handles",
	})

	resident := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rescache_resident_handles",
		Help: "Number of cached handles",
	})

	reg.MustRegister(hits, misses, loads, loadFailures, evictions, allocated, resident)

	return &Metrics{
		Hits:            hits,
		Misses:          misses,
		Loads:           loads,
		LoadFailures:    loadFailures,
		Evictions:       evictions,
		AllocatedBytes:  allocated,
		ResidentHandles: resident,
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) load(ok bool) {
	if m == nil {
		return
	}

	if ok {
		m.Loads.Inc()
	} else {
		m.LoadFailures.Inc()
	}
}

func (m *Metrics) evict() {
	if m != nil {
		m.Evictions.Inc()
	}
}

func (m *Metrics) setAllocated(n int64) {
	if m != nil {
		m.AllocatedBytes.Set(float64(n))
	}
}

func (m *Metrics) setResident(n int) {
	if m != nil {
		m.ResidentHandles.Set(float64(n))
	}
}
