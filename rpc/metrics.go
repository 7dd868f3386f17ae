// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package rpc

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for the RPC layer. NewMetrics(nil)
// creates collectors that are never registered anywhere, and ObserveCall
// also accepts a nil *Metrics, so it is always safe to call.
type Metrics struct {
	calls *prometheus.CounterVec
}

// NewMetrics creates the RPC call counter and, if reg is non-nil, registers
// it. Re-registration is tolerated (AlreadyRegisteredError is swallowed) so
// that multiple Channels sharing one registry don't panic.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shardkv_client_rpc_calls_total",
		Help: "Total number of RPC calls made by the client, by method and result.",
	}, []string{"method", "result"})

	if reg != nil {
		if err := reg.Register(calls); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					calls = existing
				}
			}
		}
	}
	return &Metrics{calls: calls}
}

// ObserveCall records the outcome of one RPC call.
func (m *Metrics) ObserveCall(method, result string) {
	if m == nil || m.calls == nil {
		return
	}
	m.calls.WithLabelValues(method, result).Inc()
}
