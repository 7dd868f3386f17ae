// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// Mutation types (MutationProto.MutationType), per the comment block in
// client/client.py's put().
const (
	MutationAppend    int32 = 0
	MutationIncrement int32 = 1
	MutationPut       int32 = 2
	MutationDelete    int32 = 3
)

// QualifierValue is one qualifier/value pair within a column family mutation.
type QualifierValue struct {
	Qualifier []byte
	Value     []byte
}

func (q *QualifierValue) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, q.Qualifier)
	b = appendBytesField(b, 2, q.Value)
	return b, nil
}

// ColumnValue groups qualifier/value pairs under one family.
type ColumnValue struct {
	Family         []byte
	QualifierValue []QualifierValue
}

func (c *ColumnValue) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, c.Family)
	for i := range c.QualifierValue {
		b = appendMessageField(b, 2, &c.QualifierValue[i])
	}
	return b, nil
}

// MutationProto is the body of a put/delete mutation.
type MutationProto struct {
	Row         []byte
	MutateType  int32
	ColumnValue []ColumnValue
}

func (m *MutationProto) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, m.Row)
	b = appendVarintField(b, 2, uint64(m.MutateType))
	for i := range m.ColumnValue {
		b = appendMessageField(b, 3, &m.ColumnValue[i])
	}
	return b, nil
}

// Condition is the check-and-put predicate.
type Condition struct {
	Row         []byte
	Family      []byte
	Qualifier   []byte
	CompareType int32
	Comparator  Comparator
}

func (c *Condition) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, c.Row)
	b = appendBytesField(b, 2, c.Family)
	b = appendBytesField(b, 3, c.Qualifier)
	b = appendVarintField(b, 4, uint64(c.CompareType))
	b = appendMessageField(b, 5, &c.Comparator)
	return b, nil
}

// MutateRequest wraps a mutation, optionally conditioned on Condition
// (check-and-put).
type MutateRequest struct {
	Region    RegionSpecifier
	Mutation  MutationProto
	Condition *Condition
}

func (r *MutateRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &r.Region)
	b = appendMessageField(b, 2, &r.Mutation)
	if r.Condition != nil {
		b = appendMessageField(b, 3, r.Condition)
	}
	return b, nil
}

// MutateResponse reports whether the mutation was applied.
type MutateResponse struct {
	Result    *Result
	Processed bool
}

func (r *MutateResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				res := &Result{}
				if err := res.Unmarshal(v); err == nil {
					r.Result = res
				}
			}
			return n
		case 2:
			v, n := consumeVarint(typ, b)
			r.Processed = v != 0
			return n
		default:
			return skipField(typ, b)
		}
	})
}
