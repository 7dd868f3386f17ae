// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package rpc implements the multiplexed RPC channel (C3): the connection
// handshake, request/response framing, call-id correlation across
// concurrently calling goroutines, and mapping of server exception class
// names onto the client's error taxonomy.
package rpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/wire"
)

// connectionPreamble is the literal six-byte handshake prefix (§4.3/§6).
var connectionPreamble = []byte("HBas\x00\x50")

// callTimeout bounds a single RPC round trip (§5).
const callTimeout = 60 * time.Second

// Service names recognized by the cluster (§4.3).
const (
	MasterService = "MasterService"
	ClientService = "ClientService"
)

type pendingCall struct {
	result chan frameResult
}

type frameResult struct {
	payload []byte
	err     error
}

// Channel is a single socket shared by arbitrarily many concurrent callers.
// A dedicated receive loop reads one frame at a time and hands it to the
// caller that matches its call-id; a frame whose call-id has no waiting
// caller is logged and dropped (§4.3 multiplexing contract).
type Channel struct {
	conn        net.Conn
	host        string
	port        uint16
	serviceName string

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint32
	pending map[uint32]*pendingCall

	closed    chan struct{}
	closeOnce sync.Once
	closeErr  error

	log     logrus.FieldLogger
	tracer  trace.Tracer
	metrics *Metrics
}

// Dial opens a TCP connection to host:port, performs the connection
// handshake naming effectiveUser and serviceName, and starts the receive
// loop.
func Dial(ctx context.Context, host string, port uint16, serviceName, effectiveUser string,
	log logrus.FieldLogger, metrics *Metrics) (*Channel, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &errs.TransportError{Err: err}
	}

	c := &Channel{
		conn:        conn,
		host:        host,
		port:        port,
		serviceName: serviceName,
		pending:     make(map[uint32]*pendingCall),
		closed:      make(chan struct{}),
		log:         log.WithFields(logrus.Fields{"host": host, "port": port, "service": serviceName}),
		tracer:      otel.Tracer("github.com/shardkv/goshardkv/rpc"),
		metrics:     metrics,
	}

	if err := c.handshake(effectiveUser); err != nil {
		conn.Close()
		return nil, err
	}

	go c.recvLoop()
	return c, nil
}

func (c *Channel) handshake(effectiveUser string) error {
	header := &pb.ConnectionHeader{
		UserInfo:    pb.UserInformation{EffectiveUser: effectiveUser},
		ServiceName: c.serviceName,
	}
	headerBytes, err := header.Marshal()
	if err != nil {
		return &errs.ProtocolError{Msg: "encode connection header: " + err.Error()}
	}

	buf := make([]byte, 0, len(connectionPreamble)+4+len(headerBytes))
	buf = append(buf, connectionPreamble...)
	buf = append(buf, byte(len(headerBytes)>>24), byte(len(headerBytes)>>16),
		byte(len(headerBytes)>>8), byte(len(headerBytes)))
	buf = append(buf, headerBytes...)

	if _, err := c.conn.Write(buf); err != nil {
		return &errs.TransportError{Err: err}
	}
	return nil
}

func (c *Channel) nextCallID() uint32 {
	return atomic.AddUint32(&c.nextID, 1) - 1
}

// Call sends methodName/reqBody as one framed request and returns the
// response's payload bytes (the caller decodes them into the expected
// response type), or a typed error per §4.3/§7.
func (c *Channel) Call(ctx context.Context, methodName string, reqBody []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, methodName, trace.WithAttributes(
		attribute.String("rpc.host", c.host),
		attribute.Int("rpc.port", int(c.port)),
	))
	defer span.End()

	callID := c.nextCallID()
	span.SetAttributes(attribute.Int64("rpc.call_id", int64(callID)))

	header := &pb.RequestHeader{CallID: callID, MethodName: methodName, RequestParam: true}
	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, &errs.ProtocolError{Msg: "encode request header: " + err.Error()}
	}

	call := &pendingCall{result: make(chan frameResult, 1)}
	c.mu.Lock()
	c.pending[callID] = call
	c.mu.Unlock()

	c.writeMu.Lock()
	writeErr := wire.WriteRequestFrame(c.conn, headerBytes, reqBody)
	c.writeMu.Unlock()
	if writeErr != nil {
		c.mu.Lock()
		delete(c.pending, callID)
		c.mu.Unlock()
		c.metrics.ObserveCall(methodName, "transport_error")
		return nil, &errs.TransportError{Err: writeErr}
	}

	select {
	case res := <-call.result:
		if res.err != nil {
			c.metrics.ObserveCall(methodName, resultLabel(res.err))
			return nil, res.err
		}
		c.metrics.ObserveCall(methodName, "ok")
		return res.payload, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, callID)
		c.mu.Unlock()
		c.metrics.ObserveCall(methodName, "deadline_exceeded")
		return nil, ctx.Err()
	case <-c.closed:
		c.metrics.ObserveCall(methodName, "channel_closed")
		return nil, c.closeErrOrDefault()
	}
}

func resultLabel(err error) string {
	switch err.(type) {
	case *errs.RegionError:
		return "region_error"
	case *errs.RequestError:
		return "request_error"
	default:
		return "error"
	}
}

func (c *Channel) closeErrOrDefault() error {
	if c.closeErr != nil {
		return c.closeErr
	}
	return &errs.TransportError{Err: fmt.Errorf("channel closed")}
}

// recvLoop reads one frame at a time and dispatches it to the pending call
// matching its call-id. Property 4 of §8 (exactly-once consumption, map
// entry removed) holds because the pending map delete happens under the
// same lock as the lookup, with no intervening unlock.
func (c *Channel) recvLoop() {
	for {
		data, err := wire.ReadFrame(c.conn)
		if err != nil {
			c.shutdown(&errs.TransportError{Err: err})
			return
		}

		headerBytes, rest, err := wire.SplitResponseFrame(data)
		if err != nil {
			c.shutdown(&errs.ProtocolError{Msg: err.Error()})
			return
		}

		var header pb.ResponseHeader
		if err := header.Unmarshal(headerBytes); err != nil {
			c.shutdown(&errs.ProtocolError{Msg: "decode response header: " + err.Error()})
			return
		}

		var result frameResult
		if header.Exception != nil {
			result.err = errs.ClassifyException(header.Exception.ExceptionClassName)
		} else {
			msgLen, start, err := wire.DecodeVarint(rest, 0)
			if err != nil {
				c.shutdown(&errs.ProtocolError{Msg: "decode response length: " + err.Error()})
				return
			}
			end := start + int(msgLen)
			if end > len(rest) {
				c.shutdown(&errs.ProtocolError{Msg: "response payload shorter than declared length"})
				return
			}
			result.payload = rest[start:end]
		}

		c.mu.Lock()
		call, ok := c.pending[header.CallID]
		if ok {
			delete(c.pending, header.CallID)
		}
		c.mu.Unlock()

		if !ok {
			c.log.WithField("call_id", header.CallID).Warn("rpc: response for unknown or already-consumed call id")
			continue
		}
		call.result <- result
	}
}

func (c *Channel) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.closed)
		c.conn.Close()
	})
}

// Close tears down the channel. Idempotent.
func (c *Channel) Close() error {
	c.shutdown(nil)
	return nil
}

// Addr reports the channel's remote address, for logging.
func (c *Channel) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}
