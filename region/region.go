// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package region implements the region descriptor and the ordered interval
// cache that maps (table, row key) to the region currently serving it (C2).
package region

import "bytes"

// endSentinel is substituted for an empty (i.e. +infinity) end key so that
// every region's interval has a concrete upper bound to compare against.
var endSentinel = []byte{0xff}

// Info is an immutable region descriptor. Two derived byte strings,
// StartValue and EndValue, are materialized on construction and used for
// every ordering comparison against other regions or against a probe key.
type Info struct {
	Name     []byte
	Table    string
	StartKey []byte
	EndKey   []byte
	Host     string
	Port     uint16

	StartValue []byte
	EndValue   []byte
}

// New builds a region descriptor, computing StartValue/EndValue per §3.
func New(name []byte, table string, startKey, endKey []byte, host string, port uint16) *Info {
	r := &Info{
		Name:     name,
		Table:    table,
		StartKey: startKey,
		EndKey:   endKey,
		Host:     host,
		Port:     port,
	}
	r.StartValue = makeValue(table, startKey)
	if len(endKey) == 0 {
		r.EndValue = makeValue(table, nil)
		r.EndValue = append(r.EndValue, endSentinel...)
	} else {
		r.EndValue = makeValue(table, endKey)
	}
	return r
}

func makeValue(table string, key []byte) []byte {
	v := make([]byte, 0, len(table)+1+len(key))
	v = append(v, table...)
	v = append(v, ',')
	v = append(v, key...)
	return v
}

// ServerAddr formats the region's host:port.
func (r *Info) ServerAddr() string {
	return r.Host + ":" + formatPort(r.Port)
}

func formatPort(p uint16) string {
	if p == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for p > 0 {
		i--
		buf[i] = byte('0' + p%10)
		p /= 10
	}
	return string(buf[i:])
}

// Contains reports whether probe (a "table,row" byte string) falls inside
// this region's [StartValue, EndValue) interval.
func (r *Info) Contains(probe []byte) bool {
	return bytes.Compare(r.StartValue, probe) <= 0 && bytes.Compare(probe, r.EndValue) < 0
}

// Overlaps reports whether two regions' intervals intersect.
func (r *Info) Overlaps(other *Info) bool {
	return bytes.Compare(r.StartValue, other.EndValue) < 0 && bytes.Compare(other.StartValue, r.EndValue) < 0
}

func (r *Info) String() string {
	return r.Table + " [" + string(r.StartKey) + " ~ " + string(r.EndKey) + ") @ " + r.ServerAddr()
}
