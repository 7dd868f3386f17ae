// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package handle implements the self-rebuilding service handle (C5): three
// variants (coordinator, meta-shard, data-shard) sharing one contract,
// rebuilding their underlying rpc.Channel up to three times (fixed 3-second
// spacing) before surfacing a transport/protocol error.
package handle

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shardkv/goshardkv/discovery"
	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/rpc"
)

// maxRebuilds and rebuildSpacing implement the retry policy of §4.5.
const (
	maxRebuilds    = 3
	rebuildSpacing = 3 * time.Second
)

// Handle is the shared contract for coordinator, meta-shard, and data-shard
// handles.
type Handle interface {
	Request(ctx context.Context, methodName string, body []byte) ([]byte, error)
	Close() error
}

// buildFunc dials a fresh channel for the handle's target.
type buildFunc func(ctx context.Context) (*rpc.Channel, error)

type base struct {
	mu      sync.Mutex
	channel *rpc.Channel
	build   buildFunc
	log     logrus.FieldLogger
}

func newBase(build buildFunc, log logrus.FieldLogger) *base {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &base{build: build, log: log}
}

// Request sends one RPC, rebuilding the channel on transport/protocol error
// up to maxRebuilds times with rebuildSpacing between attempts (§4.5). A
// RegionError or RequestError is returned unchanged: only the channel
// itself gets rebuilt, never the caller's retry policy.
func (b *base) Request(ctx context.Context, methodName string, body []byte) ([]byte, error) {
	ch, err := b.current(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := ch.Call(ctx, methodName, body)
	if err == nil || !isRebuildable(err) {
		return resp, err
	}

	var lastErr = err
	for attempt := 0; attempt < maxRebuilds; attempt++ {
		b.log.WithError(lastErr).WithField("attempt", attempt+1).Warn("handle: rebuilding channel after transport/protocol error")
		time.Sleep(rebuildSpacing)

		b.mu.Lock()
		ch, err = b.build(ctx)
		if err == nil {
			b.channel = ch
		}
		b.mu.Unlock()
		if err != nil {
			lastErr = err
			continue
		}

		resp, err = ch.Call(ctx, methodName, body)
		if err == nil || !isRebuildable(err) {
			return resp, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func isRebuildable(err error) bool {
	switch err.(type) {
	case *errs.TransportError, *errs.ProtocolError:
		return true
	default:
		return false
	}
}

func (b *base) current(ctx context.Context) (*rpc.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.channel != nil {
		return b.channel, nil
	}
	ch, err := b.build(ctx)
	if err != nil {
		return nil, err
	}
	b.channel = ch
	return ch, nil
}

// Close closes the handle's current channel, if any. Idempotent.
func (b *base) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.channel == nil {
		return nil
	}
	err := b.channel.Close()
	b.channel = nil
	return err
}

// Config bundles what every handle variant needs to dial a channel.
type Config struct {
	EffectiveUser string
	Log           logrus.FieldLogger
	Metrics       *rpc.Metrics
}

// NewCoordinator builds a handle that resolves the coordinator path on
// every rebuild and connects with the MasterService name.
func NewCoordinator(resolver *discovery.Resolver, path string, cfg Config) Handle {
	build := func(ctx context.Context) (*rpc.Channel, error) {
		ep, err := resolver.Resolve(path)
		if err != nil {
			return nil, err
		}
		return rpc.Dial(ctx, ep.Host, ep.Port, rpc.MasterService, cfg.EffectiveUser, cfg.Log, cfg.Metrics)
	}
	return newBase(build, cfg.Log)
}

// NewMeta builds a handle that resolves the meta-shard path on every
// rebuild and connects with the ClientService name.
func NewMeta(resolver *discovery.Resolver, path string, cfg Config) Handle {
	build := func(ctx context.Context) (*rpc.Channel, error) {
		ep, err := resolver.Resolve(path)
		if err != nil {
			return nil, err
		}
		return rpc.Dial(ctx, ep.Host, ep.Port, rpc.ClientService, cfg.EffectiveUser, cfg.Log, cfg.Metrics)
	}
	return newBase(build, cfg.Log)
}

// NewDataShard builds a handle for a fixed (host, port) data-shard server;
// it never involves the discovery/lock service.
func NewDataShard(host string, port uint16, cfg Config) Handle {
	build := func(ctx context.Context) (*rpc.Channel, error) {
		return rpc.Dial(ctx, host, port, rpc.ClientService, cfg.EffectiveUser, cfg.Log, cfg.Metrics)
	}
	return newBase(build, cfg.Log)
}
