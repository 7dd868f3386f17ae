// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// RegionSpecifier identifies the target region of a request, by name
// (type == RegionName).
type RegionSpecifier struct {
	Type  int32
	Value []byte
}

const RegionNameType int32 = 1

func (r *RegionSpecifier) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarintField(b, 1, uint64(r.Type))
	b = appendBytesField(b, 2, r.Value)
	return b, nil
}

// TableName is the namespace-qualified table identifier used inside
// RegionInfo.
type TableName struct {
	Namespace []byte
	Qualifier []byte
}

func (t *TableName) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			t.Namespace = v
			return n
		case 2:
			v, n := consumeBytes(typ, b)
			t.Qualifier = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// RegionInfo is the decoded form of a meta row's "regioninfo" cell value
// (after stripping the magic header and trailer, per §6).
type RegionInfo struct {
	TableName TableName
	StartKey  []byte
	EndKey    []byte
}

func (r *RegionInfo) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 2:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				_ = r.TableName.Unmarshal(v)
			}
			return n
		case 3:
			v, n := consumeBytes(typ, b)
			r.StartKey = v
			return n
		case 4:
			v, n := consumeBytes(typ, b)
			r.EndKey = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// ServerName names the host:port serving a region or the coordinator.
type ServerName struct {
	HostName string
	Port     int32
}

func (s *ServerName) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			s.HostName = string(v)
			return n
		case 2:
			v, n := consumeVarint(typ, b)
			s.Port = int32(v)
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// MetaRegionServer is parsed out of a ZooKeeper node payload (§6).
type MetaRegionServer struct {
	Server ServerName
}

func (m *MetaRegionServer) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				_ = m.Server.Unmarshal(v)
			}
			return n
		default:
			return skipField(typ, b)
		}
	})
}
