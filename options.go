// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Config holds every recognized option from §6's configuration table, plus
// a handful of ambient-stack knobs (logger, metrics registerer) this
// expansion adds.
type Config struct {
	EffectiveUser     string
	CoordinatorPath   string
	MetaRegionPath    string
	ThreadPoolSize    int
	FailTaskRetry     int
	NumThreadsPerConn int
	NumTasksPerConn   int
	SessionTimeout    time.Duration

	// MaxRegionRetries bounds the shared retry skeleton's loop on
	// RegionError for single-key operations. 0 means unbounded, matching
	// the original source; Client's default is bounded (§9 decision).
	MaxRegionRetries int

	Log        logrus.FieldLogger
	Registerer prometheus.Registerer
}

func defaultConfig() Config {
	return Config{
		EffectiveUser:     "hbase-python",
		CoordinatorPath:   "/hbase/master",
		MetaRegionPath:    "/hbase/meta-region-server",
		ThreadPoolSize:    10,
		FailTaskRetry:     3,
		NumThreadsPerConn: 5,
		NumTasksPerConn:   100,
		SessionTimeout:    10 * time.Second,
		MaxRegionRetries:  10,
	}
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Config)

// WithEffectiveUser sets the identity string sent in the connection
// preamble.
func WithEffectiveUser(user string) ClientOption {
	return func(c *Config) { c.EffectiveUser = user }
}

// WithCoordinatorPath overrides the discovery node path for the
// coordinator.
func WithCoordinatorPath(path string) ClientOption {
	return func(c *Config) { c.CoordinatorPath = path }
}

// WithMetaRegionPath overrides the discovery node path for the meta shard.
func WithMetaRegionPath(path string) ClientOption {
	return func(c *Config) { c.MetaRegionPath = path }
}

// WithThreadPoolSize sets the C8 worker pool size.
func WithThreadPoolSize(n int) ClientOption {
	return func(c *Config) { c.ThreadPoolSize = n }
}

// WithFailTaskRetry sets how many retry rounds MGet performs over failed
// keys.
func WithFailTaskRetry(n int) ClientOption {
	return func(c *Config) { c.FailTaskRetry = n }
}

// WithConnTasks sets the optional alternate per-connection pool sizing.
func WithConnTasks(numThreads, numTasks int) ClientOption {
	return func(c *Config) {
		c.NumThreadsPerConn = numThreads
		c.NumTasksPerConn = numTasks
	}
}

// WithSessionTimeout sets the distributed lock service session timeout.
func WithSessionTimeout(d time.Duration) ClientOption {
	return func(c *Config) { c.SessionTimeout = d }
}

// WithMaxRegionRetries bounds the single-key RegionError retry loop. 0
// means unbounded.
func WithMaxRegionRetries(n int) ClientOption {
	return func(c *Config) { c.MaxRegionRetries = n }
}

// WithLogger injects a structured logger used throughout the client.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Config) { c.Log = log }
}

// WithRegisterer plugs the client's Prometheus collectors into reg instead
// of leaving them unregistered.
func WithRegisterer(reg prometheus.Registerer) ClientOption {
	return func(c *Config) { c.Registerer = reg }
}
