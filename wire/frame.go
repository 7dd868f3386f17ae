// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single inbound frame to guard against a corrupted
// length prefix turning into an unbounded allocation.
const MaxFrameSize = 64 << 20 // 64 MiB

// WriteRequestFrame writes one request frame to w:
//
//	uint32 BE total_size | uint8 header_size | header | varint(len(body)) | body
//
// total_size counts every byte emitted after itself.
func WriteRequestFrame(w io.Writer, header, body []byte) error {
	if len(header) > 0xff {
		return fmt.Errorf("wire: header too large (%d bytes)", len(header))
	}
	bodyLenPrefix := EncodeVarint(uint64(len(body)))
	totalSize := 1 + len(header) + len(bodyLenPrefix) + len(body)

	buf := make([]byte, 0, 4+totalSize)
	buf = binary.BigEndian.AppendUint32(buf, uint32(totalSize))
	buf = append(buf, byte(len(header)))
	buf = append(buf, header...)
	buf = append(buf, bodyLenPrefix...)
	buf = append(buf, body...)

	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one frame's total_size prefix and the total_size bytes
// that follow it, returning just the payload (the bytes after the length
// prefix). Used for both request and response framing on the read side.
func ReadFrame(r io.Reader) ([]byte, error) {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	totalSize := binary.BigEndian.Uint32(sizeBuf[:])
	if totalSize > MaxFrameSize {
		return nil, fmt.Errorf("wire: frame size %d exceeds maximum %d", totalSize, MaxFrameSize)
	}
	data := make([]byte, totalSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// SplitResponseFrame splits a response frame's payload (as returned by
// ReadFrame) into the header bytes and the remaining bytes, per §4.1/§4.3:
// a leading varint gives the header size, then that many header bytes,
// then whatever is left (payload, or nothing if the header carried an
// exception).
func SplitResponseFrame(data []byte) (header, rest []byte, err error) {
	headerSize, headerStart, err := DecodeVarint(data, 0)
	if err != nil {
		return nil, nil, err
	}
	headerEnd := headerStart + int(headerSize)
	if headerEnd > len(data) {
		return nil, nil, ErrShortBuffer
	}
	return data[headerStart:headerEnd], data[headerEnd:], nil
}
