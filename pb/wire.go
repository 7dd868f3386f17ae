// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package pb holds the request/response message types exchanged with the
// cluster. These are hand-maintained stand-ins for what would normally be
// protoc-generated code: the wire format is real protobuf (tag/varint/
// length-delimited, via google.golang.org/protobuf/encoding/protowire), but
// only the handful of fields the client layer actually touches are modeled.
package pb

import "google.golang.org/protobuf/encoding/protowire"

// forEachField walks the tag-prefixed fields of a serialized message,
// calling fn for each one. fn must return the number of bytes the field's
// value occupies (however it chooses to consume it) or a negative
// protowire.ParseError code.
func forEachField(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return protowire.ParseError(tagLen)
		}
		b = b[tagLen:]
		n := fn(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func skipField(typ protowire.Type, b []byte) int {
	return protowire.ConsumeFieldValue(0, typ, b)
}

func appendBytesField(dst []byte, num protowire.Number, v []byte) []byte {
	if v == nil {
		return dst
	}
	dst = protowire.AppendTag(dst, num, protowire.BytesType)
	return protowire.AppendBytes(dst, v)
}

func appendStringField(dst []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return dst
	}
	return appendBytesField(dst, num, []byte(v))
}

func appendVarintField(dst []byte, num protowire.Number, v uint64) []byte {
	dst = protowire.AppendTag(dst, num, protowire.VarintType)
	return protowire.AppendVarint(dst, v)
}

func appendBoolField(dst []byte, num protowire.Number, v bool) []byte {
	if !v {
		return dst
	}
	var i uint64
	if v {
		i = 1
	}
	return appendVarintField(dst, num, i)
}

func appendMessageField(dst []byte, num protowire.Number, msg interface{ Marshal() ([]byte, error) }) []byte {
	body, err := msg.Marshal()
	if err != nil {
		return dst
	}
	dst = protowire.AppendTag(dst, num, protowire.BytesType)
	return protowire.AppendBytes(dst, body)
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int) {
	if typ != protowire.BytesType {
		n := protowire.ConsumeFieldValue(0, typ, b)
		return nil, n
	}
	return protowire.ConsumeBytes(b)
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int) {
	if typ != protowire.VarintType {
		n := protowire.ConsumeFieldValue(0, typ, b)
		return 0, n
	}
	return protowire.ConsumeVarint(b)
}
