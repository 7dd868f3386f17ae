// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 32, 1<<64 - 1}
	for _, v := range values {
		encoded := EncodeVarint(v)
		decoded, pos, err := DecodeVarint(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), pos)
	}
}

func TestAppendVarintExtendsExistingSlice(t *testing.T) {
	dst := []byte{0xaa, 0xbb}
	out := AppendVarint(dst, 300)
	assert.Equal(t, []byte{0xaa, 0xbb}, dst[:2])
	assert.True(t, len(out) > len(dst))

	decoded, pos, err := DecodeVarint(out, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), decoded)
	assert.Equal(t, len(out), pos)
}

func TestDecodeVarintShortBuffer(t *testing.T) {
	_, _, err := DecodeVarint([]byte{0x80, 0x80}, 0)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeVarintOverflow(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	buf[len(buf)-1] = 0x01
	_, _, err := DecodeVarint(buf, 0)
	assert.ErrorIs(t, err, ErrVarintOverflow)
}

func TestDecodeVarintAtNonZeroPosition(t *testing.T) {
	buf := append([]byte{0xff, 0xff}, EncodeVarint(42)...)
	decoded, pos, err := DecodeVarint(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), decoded)
	assert.Equal(t, 3, pos)
}
