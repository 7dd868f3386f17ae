// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package wire implements the frame-level codec shared by the RPC channel:
// unsigned varints and the length-prefixed request/response frame layout.
package wire

import "errors"

// ErrVarintOverflow is returned when a varint would require more than ten
// bytes to encode the standard 7-bit-payload scheme.
var ErrVarintOverflow = errors.New("wire: varint overflows 64 bits")

// ErrShortBuffer is returned when decoding a varint runs out of input bytes
// before the continuation bit is cleared.
var ErrShortBuffer = errors.New("wire: buffer too short to decode varint")

const maxVarintBytes = 10

// AppendVarint appends the varint encoding of v to dst and returns the
// extended slice.
func AppendVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// EncodeVarint returns the varint encoding of v as a freshly allocated slice.
func EncodeVarint(v uint64) []byte {
	return AppendVarint(make([]byte, 0, maxVarintBytes), v)
}

// DecodeVarint decodes a varint starting at buf[pos] and returns the decoded
// value along with the position immediately following it.
func DecodeVarint(buf []byte, pos int) (uint64, int, error) {
	var result uint64
	var shift uint
	start := pos
	for {
		if pos >= len(buf) {
			return 0, 0, ErrShortBuffer
		}
		if pos-start >= maxVarintBytes {
			return 0, 0, ErrVarintOverflow
		}
		b := buf[pos]
		result |= uint64(b&0x7f) << shift
		pos++
		if b&0x80 == 0 {
			return result, pos, nil
		}
		shift += 7
	}
}
