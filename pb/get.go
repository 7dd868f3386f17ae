// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// Get is the body of a GetRequest (§4.7).
type Get struct {
	Row    []byte
	Column []Column
	Filter *Filter
}

func (g *Get) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, g.Row)
	for i := range g.Column {
		b = appendMessageField(b, 2, &g.Column[i])
	}
	if g.Filter != nil {
		b = appendMessageField(b, 4, g.Filter)
	}
	return b, nil
}

// GetRequest targets a single row in a region.
type GetRequest struct {
	Region RegionSpecifier
	Get    Get
}

func (r *GetRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &r.Region)
	b = appendMessageField(b, 2, &r.Get)
	return b, nil
}

// GetResponse carries the (possibly empty) result of a GetRequest.
type GetResponse struct {
	Result *Result
}

func (r *GetResponse) Unmarshal(b []byte) error {
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
		default:
			return skipField(typ, b)
		}
	})
}
