// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// RequestHeader precedes every outbound RPC body (§4.3).
type RequestHeader struct {
	CallID       uint32
	MethodName   string
	RequestParam bool
}

func (h *RequestHeader) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarintField(b, 1, uint64(h.CallID))
	b = appendStringField(b, 2, h.MethodName)
	b = appendBoolField(b, 3, h.RequestParam)
	return b, nil
}

// ExceptionResponse carries the server-side exception class name used for
// the error taxonomy mapping in §4.3/§7.
type ExceptionResponse struct {
	ExceptionClassName string
	StackTrace         string
}

func (e *ExceptionResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			e.ExceptionClassName = string(v)
			return n
		case 2:
			v, n := consumeBytes(typ, b)
			e.StackTrace = string(v)
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// ResponseHeader precedes every inbound RPC payload (§4.3).
type ResponseHeader struct {
	CallID    uint32
	Exception *ExceptionResponse
}

func (h *ResponseHeader) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			h.CallID = uint32(v)
			return n
		case 2:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				exc := &ExceptionResponse{}
				if err := exc.Unmarshal(v); err == nil {
					h.Exception = exc
				}
			}
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// UserInformation names the effective user sent in the connection preamble.
type UserInformation struct {
	EffectiveUser string
}

func (u *UserInformation) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, u.EffectiveUser)
	return b, nil
}

// ConnectionHeader is serialized once per connection, after the six-byte
// literal preamble (§4.3/§6).
type ConnectionHeader struct {
	UserInfo    UserInformation
	ServiceName string
}

func (c *ConnectionHeader) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &c.UserInfo)
	b = appendStringField(b, 2, c.ServiceName)
	return b, nil
}
