// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package discovery implements the endpoint resolver (C4): it wraps a
// distributed-lock-service client (github.com/go-zookeeper/zk) and knows how
// to parse the coordinator/meta-shard node payload format described in §6.
package discovery

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/sirupsen/logrus"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/pb"
)

// Well-known node paths (§6 configuration table defaults).
const (
	DefaultCoordinatorPath = "/hbase/master"
	DefaultMetaRegionPath  = "/hbase/meta-region-server"
)

// Endpoint is a resolved host/port pair.
type Endpoint struct {
	Host string
	Port uint16
}

// Resolver fetches and parses coordinator/meta-shard node payloads from the
// distributed lock service.
type Resolver struct {
	conn    *zk.Conn
	log     logrus.FieldLogger
	retries int
	backoff time.Duration
}

// New connects to the given ZooKeeper quorum and returns a Resolver.
func New(quorum []string, sessionTimeout time.Duration, log logrus.FieldLogger) (*Resolver, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	conn, _, err := zk.Connect(quorum, sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("discovery: connect to zookeeper: %w", err)
	}
	return &Resolver{conn: conn, log: log, retries: 3, backoff: 3 * time.Second}, nil
}

// Close releases the underlying ZooKeeper session.
func (r *Resolver) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
}

// Resolve fetches the node at path and parses it into an Endpoint, per the
// discovery-service node format in §6: a leading 0xFF tag, a big-endian
// uint32 header length m (0 < m <= 65000), m bytes of discarded header,
// a four-byte "PBUF" magic, and a serialized MetaRegionServer message.
func (r *Resolver) Resolve(path string) (Endpoint, error) {
	var data []byte
	var err error
	for attempt := 0; attempt <= r.retries; attempt++ {
		data, _, err = r.conn.Get(path)
		if err == nil {
			break
		}
		if !errors.Is(err, zk.ErrNoNode) {
			return Endpoint{}, fmt.Errorf("discovery: get %s: %w", path, err)
		}
		r.log.WithField("path", path).Warn("discovery: node not present, retrying")
		time.Sleep(r.backoff)
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("discovery: node %s not found after %d retries: %w", path, r.retries, err)
	}
	return parseNodePayload(data)
}

func parseNodePayload(data []byte) (Endpoint, error) {
	if len(data) < 5 {
		return Endpoint{}, &errs.ProtocolError{Msg: fmt.Sprintf("discovery: payload too short (%d bytes)", len(data))}
	}
	if data[0] != 0xff {
		return Endpoint{}, &errs.ProtocolError{Msg: fmt.Sprintf("discovery: invalid tag byte %#x, expected 0xff", data[0])}
	}
	m := binary.BigEndian.Uint32(data[1:5])
	if m == 0 || m > 65000 {
		return Endpoint{}, &errs.ProtocolError{Msg: fmt.Sprintf("discovery: invalid header length %d", m)}
	}
	magicStart := int(5 + m)
	magicEnd := magicStart + 4
	if magicEnd > len(data) {
		return Endpoint{}, &errs.ProtocolError{Msg: fmt.Sprintf("discovery: payload too short for header length %d", m)}
	}
	if string(data[magicStart:magicEnd]) != "PBUF" {
		return Endpoint{}, &errs.ProtocolError{Msg: fmt.Sprintf("discovery: invalid magic %q, expected \"PBUF\"", data[magicStart:magicEnd])}
	}
	var meta pb.MetaRegionServer
	if err := meta.Unmarshal(data[magicEnd:]); err != nil {
		return Endpoint{}, &errs.ProtocolError{Msg: "discovery: parse MetaRegionServer: " + err.Error()}
	}
	return Endpoint{Host: meta.Server.HostName, Port: uint16(meta.Server.Port)}, nil
}
