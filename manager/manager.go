// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package manager implements the region manager (C6): the single owner of
// the region interval cache and the pool of data-shard service handles,
// resolving cache misses through a reverse scan against the meta-shard.
package manager

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/hrpc"
	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/region"
)

// metaRegionName is the well-known region name of the meta-shard itself,
// used as the RegionSpecifier value of every meta-scan request (§4.6).
const metaRegionName = "hbase:meta,,1"

const infoFamily = "info"

// Manager owns the region cache and the (host, port) -> data-shard handle
// pool. A single mutex serializes handle-map inserts; the region tree has
// its own internal lock (region.Tree) covering find/insert/evict.
type Manager struct {
	tree *region.Tree

	mu      sync.Mutex
	handles map[string]handle.Handle

	meta handle.Handle
	cfg  handle.Config
	log  logrus.FieldLogger
}

// New constructs a Manager that resolves meta-shard misses through meta.
func New(meta handle.Handle, cfg handle.Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		tree:    region.NewTree(),
		handles: make(map[string]handle.Handle),
		meta:    meta,
		cfg:     cfg,
		log:     log,
	}
}

// GetRegion resolves the region owning (table, key), per §4.6. When
// useCache is true and the tree holds a matching entry, it is returned
// without a round trip; otherwise every overlapping cached entry is evicted
// and a fresh reverse scan against the meta-shard is issued.
func (m *Manager) GetRegion(ctx context.Context, table string, key []byte, useCache bool) (*region.Info, error) {
	probeFull := []byte(table + "," + string(key) + ",:")
	probeCache := probeFull[:len(probeFull)-2]

	if useCache {
		if r := m.tree.Find(probeCache); r != nil {
			return r, nil
		}
	}
	m.tree.DeleteOverlapping(probeCache)
	return m.lookupViaMeta(ctx, table, probeFull)
}

func (m *Manager) lookupViaMeta(ctx context.Context, table string, startRow []byte) (*region.Info, error) {
	req := &pb.ScanRequest{
		Region: &pb.RegionSpecifier{Type: pb.RegionNameType, Value: []byte(metaRegionName)},
		Scan: &pb.Scan{
			Column:   []pb.Column{{Family: []byte(infoFamily)}},
			StartRow: startRow,
			Reversed: true,
		},
		NumberOfRows: 1,
	}
	var resp pb.ScanResponse
	if err := hrpc.Send(ctx, m.meta, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 || len(resp.Results[0].Cell) == 0 {
		return nil, &errs.RequestError{Kind: errs.RequestGeneric, ClassName: "Failed to get region."}
	}

	var regionName, serverVal, regionInfoVal []byte
	for _, c := range resp.Results[0].Cell {
		switch string(c.Qualifier) {
		case "server":
			serverVal = c.Value
		case "regioninfo":
			regionInfoVal = c.Value
		}
		regionName = c.Row
	}
	if serverVal == nil || regionInfoVal == nil {
		return nil, &errs.RequestError{Kind: errs.RequestGeneric, ClassName: "Failed to get region."}
	}

	host, port, err := splitHostPort(string(serverVal))
	if err != nil {
		return nil, &errs.ProtocolError{Msg: "decode meta server cell: " + err.Error()}
	}

	if len(regionInfoVal) < 8 || string(regionInfoVal[:4]) != "PBUF" {
		return nil, &errs.ProtocolError{Msg: "regioninfo cell missing PBUF magic"}
	}
	var ri pb.RegionInfo
	if err := ri.Unmarshal(regionInfoVal[4 : len(regionInfoVal)-4]); err != nil {
		return nil, &errs.ProtocolError{Msg: "decode regioninfo cell: " + err.Error()}
	}

	r := region.New(regionName, table, ri.StartKey, ri.EndKey, host, port)
	m.tree.Insert(r)
	return r, nil
}

func splitHostPort(s string) (string, uint16, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return "", 0, malformedAddr(s)
	}
	p, err := strconv.ParseUint(s[idx+1:], 10, 16)
	if err != nil {
		return "", 0, malformedAddr(s)
	}
	return s[:idx], uint16(p), nil
}

func malformedAddr(s string) error {
	return &errs.ProtocolError{Msg: "malformed server address " + s}
}

// GetService returns (lazily constructing if needed) the data-shard handle
// for r.Host:r.Port.
func (m *Manager) GetService(r *region.Info) handle.Handle {
	addr := r.ServerAddr()

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[addr]; ok {
		return h
	}
	h := handle.NewDataShard(r.Host, r.Port, m.cfg)
	m.handles[addr] = h
	return h
}

// InvalidateRegion evicts every cached region overlapping key in table,
// forcing the next GetRegion(useCache=true) to miss (§4.6/§7, RegionError
// handling).
func (m *Manager) InvalidateRegion(table string, key []byte) {
	probe := []byte(table + "," + string(key))
	m.tree.DeleteOverlapping(probe)
}

// Close closes every data-shard handle and the meta handle, and drops the
// handle map.
func (m *Manager) Close() error {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[string]handle.Handle)
	m.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := m.meta.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
