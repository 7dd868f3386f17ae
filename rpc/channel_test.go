// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package rpc_test

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/rpc"
	"github.com/shardkv/goshardkv/wire"
)

func tag(num protowire.Number, typ protowire.Type) byte { return byte(int(num)<<3 | int(typ)) }

// readRequestFrame reads one request frame off conn and returns its call id
// and body, per wire.WriteRequestFrame's layout.
func readRequestFrame(t *testing.T, conn net.Conn) (uint32, []byte) {
	t.Helper()
	data, err := wire.ReadFrame(conn)
	require.NoError(t, err)

	headerSize := int(data[0])
	header := data[1 : 1+headerSize]
	rest := data[1+headerSize:]

	var callID uint32
	off := 0
	for off < len(header) {
		num, typ, n := protowire.ConsumeTag(header[off:])
		require.Greater(t, n, 0)
		off += n
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(header[off:])
			require.GreaterOrEqual(t, n, 0)
			callID = uint32(v)
			off += n
		default:
			n := skipAny(header[off:], typ)
			off += n
		}
	}

	bodyLen, start, err := wire.DecodeVarint(rest, 0)
	require.NoError(t, err)
	body := rest[start : start+int(bodyLen)]
	return callID, body
}

func skipAny(b []byte, typ protowire.Type) int {
	switch typ {
	case protowire.VarintType:
		_, n := protowire.ConsumeVarint(b)
		return n
	case protowire.BytesType:
		_, n := protowire.ConsumeBytes(b)
		return n
	default:
		n := protowire.ConsumeFieldValue(0, typ, b)
		return n
	}
}

// writeSuccessResponse writes a response frame carrying respBody as the
// successful payload for callID.
func writeSuccessResponse(t *testing.T, conn net.Conn, callID uint32, respBody []byte) {
	t.Helper()
	var headerBytes []byte
	headerBytes = append(headerBytes, tag(1, protowire.VarintType))
	headerBytes = wire.AppendVarint(headerBytes, uint64(callID))

	var rest []byte
	rest = wire.AppendVarint(rest, uint64(len(respBody)))
	rest = append(rest, respBody...)

	writeResponseFrame(t, conn, headerBytes, rest)
}

// writeExceptionResponse writes a response frame carrying an exception
// naming className for callID.
func writeExceptionResponse(t *testing.T, conn net.Conn, callID uint32, className string) {
	t.Helper()
	var excBytes []byte
	excBytes = append(excBytes, tag(1, protowire.BytesType))
	excBytes = wire.AppendVarint(excBytes, uint64(len(className)))
	excBytes = append(excBytes, className...)

	var headerBytes []byte
	headerBytes = append(headerBytes, tag(1, protowire.VarintType))
	headerBytes = wire.AppendVarint(headerBytes, uint64(callID))
	headerBytes = append(headerBytes, tag(2, protowire.BytesType))
	headerBytes = wire.AppendVarint(headerBytes, uint64(len(excBytes)))
	headerBytes = append(headerBytes, excBytes...)

	writeResponseFrame(t, conn, headerBytes, nil)
}

func writeResponseFrame(t *testing.T, conn net.Conn, headerBytes, rest []byte) {
	t.Helper()
	var payload []byte
	payload = wire.AppendVarint(payload, uint64(len(headerBytes)))
	payload = append(payload, headerBytes...)
	payload = append(payload, rest...)

	var frame []byte
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)
	_, err := conn.Write(frame)
	require.NoError(t, err)
}

// acceptAndHandshake reads the fixed six-byte preamble and the connection
// header that rpc.Dial's handshake sends, discarding both.
func acceptAndHandshake(t *testing.T, conn net.Conn) {
	t.Helper()
	preamble := make([]byte, 6)
	_, err := io.ReadFull(conn, preamble)
	require.NoError(t, err)

	var lenBuf [4]byte
	_, err = io.ReadFull(conn, lenBuf[:])
	require.NoError(t, err)
	headerLen := binary.BigEndian.Uint32(lenBuf[:])
	header := make([]byte, headerLen)
	_, err = io.ReadFull(conn, header)
	require.NoError(t, err)
}

func startFakeServer(t *testing.T, handle func(conn net.Conn)) (string, uint16) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		acceptAndHandshake(t, conn)
		handle(conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", uint16(addr.Port)
}

func TestChannelCallRoundTripsSuccessResponse(t *testing.T) {
	host, port := startFakeServer(t, func(conn net.Conn) {
		defer conn.Close()
		callID, body := readRequestFrame(t, conn)
		assert.Equal(t, []byte("request-body"), body)
		writeSuccessResponse(t, conn, callID, []byte("response-body"))
	})

	ch, err := rpc.Dial(context.Background(), host, port, rpc.ClientService, "test-user", nil, nil)
	require.NoError(t, err)
	defer ch.Close()

	resp, err := ch.Call(context.Background(), "Get", []byte("request-body"))
	require.NoError(t, err)
	assert.Equal(t, []byte("response-body"), resp)
}

func TestChannelCallClassifiesExceptionAsRegionError(t *testing.T) {
	host, port := startFakeServer(t, func(conn net.Conn) {
		defer conn.Close()
		callID, _ := readRequestFrame(t, conn)
		writeExceptionResponse(t, conn, callID, errs.ClassRegionMoved)
	})

	ch, err := rpc.Dial(context.Background(), host, port, rpc.ClientService, "test-user", nil, nil)
	require.NoError(t, err)
	defer ch.Close()

	_, err = ch.Call(context.Background(), "Get", []byte("request-body"))
	var re *errs.RegionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, errs.RegionMoved, re.Kind)
}

func TestChannelCallMultiplexesConcurrentCalls(t *testing.T) {
	host, port := startFakeServer(t, func(conn net.Conn) {
		defer conn.Close()
		for i := 0; i < 2; i++ {
			callID, body := readRequestFrame(t, conn)
			writeSuccessResponse(t, conn, callID, []byte("echo:"+string(body)))
		}
	})

	ch, err := rpc.Dial(context.Background(), host, port, rpc.ClientService, "test-user", nil, nil)
	require.NoError(t, err)
	defer ch.Close()

	type result struct {
		resp []byte
		err  error
	}
	results := make(chan result, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			resp, err := ch.Call(context.Background(), "Get", []byte(strconv.Itoa(i)))
			results <- result{resp, err}
		}()
	}
	for i := 0; i < 2; i++ {
		r := <-results
		require.NoError(t, r.err)
		assert.Contains(t, string(r.resp), "echo:")
	}
}

func TestChannelDialFailsFastOnRefusedConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	_, err = rpc.Dial(context.Background(), "127.0.0.1", uint16(addr.Port), rpc.ClientService, "test-user", nil, nil)
	var te *errs.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	host, port := startFakeServer(t, func(conn net.Conn) { conn.Close() })

	ch, err := rpc.Dial(context.Background(), host, port, rpc.ClientService, "test-user", nil, nil)
	require.NoError(t, err)
	assert.NoError(t, ch.Close())
	assert.NoError(t, ch.Close())
}
