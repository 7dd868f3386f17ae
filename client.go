// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package shardkv is a native client for a distributed, sharded,
// wide-column store: it discovers which data-shard server currently hosts
// a key range, routes requests to it, multiplexes concurrent calls over
// shared connections, and recovers from shard relocations.
package shardkv

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shardkv/goshardkv/discovery"
	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/manager"
	"github.com/shardkv/goshardkv/pool"
	"github.com/shardkv/goshardkv/region"
	"github.com/shardkv/goshardkv/rpc"
)

// regionRetryBackoff is the fixed pause on RegionError before re-routing
// (§5 backoff table).
const regionRetryBackoff = 3 * time.Second

// Client is the top-level handle: many goroutines may call its methods
// concurrently, sharing one region cache, one handle pool, and one worker
// pool.
type Client struct {
	cfg         Config
	resolver    *discovery.Resolver
	coordinator handle.Handle
	manager     *manager.Manager
	pool        *pool.Pool
	metrics     *rpc.Metrics
	log         logrus.FieldLogger
}

// New connects to the distributed lock service quorum and constructs a
// Client. The coordinator and meta-shard handles are built lazily (on
// first request) by the handle package's self-rebuild logic; New itself
// only opens the lock-service session.
func New(quorum []string, opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	resolver, err := discovery.New(quorum, cfg.SessionTimeout, cfg.Log)
	if err != nil {
		return nil, err
	}

	metrics := rpc.NewMetrics(cfg.Registerer)
	hcfg := handle.Config{EffectiveUser: cfg.EffectiveUser, Log: cfg.Log, Metrics: metrics}

	coordinator := handle.NewCoordinator(resolver, cfg.CoordinatorPath, hcfg)
	meta := handle.NewMeta(resolver, cfg.MetaRegionPath, hcfg)

	return &Client{
		cfg:         cfg,
		resolver:    resolver,
		coordinator: coordinator,
		manager:     manager.New(meta, hcfg),
		pool:        pool.New(cfg.ThreadPoolSize),
		metrics:     metrics,
		log:         cfg.Log,
	}, nil
}

// Close tears down the worker pool, every service handle, and the
// distributed lock service session.
func (c *Client) Close() error {
	c.pool.Close()
	err1 := c.manager.Close()
	err2 := c.coordinator.Close()
	c.resolver.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// withRegion implements the shared retry skeleton of §4.7: resolve
// table/key's region, invoke fn, and on RegionError evict the cache and
// re-resolve before retrying. maxRetries bounds the loop; 0 means
// unbounded.
func (c *Client) withRegion(ctx context.Context, table string, key []byte, maxRetries int, fn func(reg *region.Info, svc handle.Handle) error) error {
	reg, err := c.manager.GetRegion(ctx, table, key, true)
	if err != nil {
		return err
	}
	svc := c.manager.GetService(reg)

	for attempt := 0; ; attempt++ {
		err := fn(reg, svc)
		if err == nil || !errs.IsRegionError(err) {
			return err
		}
		if maxRetries > 0 && attempt >= maxRetries {
			return err
		}
		select {
		case <-time.After(regionRetryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		reg, err = c.manager.GetRegion(ctx, table, key, false)
		if err != nil {
			return err
		}
		svc = c.manager.GetService(reg)
	}
}
