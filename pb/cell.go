// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// Cell is a single (row, family, qualifier, value) tuple as returned in a
// Result.
type Cell struct {
	Row       []byte
	Family    []byte
	Qualifier []byte
	Value     []byte
}

func (c *Cell) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			c.Row = v
			return n
		case 2:
			v, n := consumeBytes(typ, b)
			c.Family = v
			return n
		case 3:
			v, n := consumeBytes(typ, b)
			c.Qualifier = v
			return n
		case 7:
			v, n := consumeBytes(typ, b)
			c.Value = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// Result is a row's cells, as returned by Get/Scan.
type Result struct {
	Cell []Cell
}

func (r *Result) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				var c Cell
				if err := c.Unmarshal(v); err == nil {
					r.Cell = append(r.Cell, c)
				}
			}
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// Column projects a family down to a set of qualifiers (nil == whole family).
type Column struct {
	Family    []byte
	Qualifier [][]byte
}

func (c *Column) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, c.Family)
	for _, q := range c.Qualifier {
		b = appendBytesField(b, 2, q)
	}
	return b, nil
}

// Filter names a server-side filter class and its serialized arguments.
type Filter struct {
	Name             string
	SerializedFilter []byte
}

func (f *Filter) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, f.Name)
	b = appendBytesField(b, 2, f.SerializedFilter)
	return b, nil
}

// Comparator names a server-side comparator class and its serialized form,
// used inside Condition for check-and-put.
type Comparator struct {
	Name                 string
	SerializedComparator []byte
}

func (c *Comparator) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, c.Name)
	b = appendBytesField(b, 2, c.SerializedComparator)
	return b, nil
}
