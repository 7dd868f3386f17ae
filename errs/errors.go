// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package errs defines the client's error taxonomy (§7): transport,
// protocol, discovery, region (always retried), request (typed server
// exceptions), and validation errors.
package errs

import (
	"errors"
	"fmt"
)

// TransportError wraps a socket open/read/write failure or a truncated
// frame.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError wraps a malformed frame, bad magic, or varint overflow.
type ProtocolError struct{ Msg string }

func (e *ProtocolError) Error() string { return "protocol error: " + e.Msg }

// DiscoveryError signals a missing discovery node. Malformed discovery node
// payloads are reported as ProtocolError instead.
type DiscoveryError struct{ Msg string }

func (e *DiscoveryError) Error() string { return "discovery error: " + e.Msg }

// RequestKind enumerates the typed server-side exceptions (§4.3/§7).
type RequestKind int

const (
	RequestGeneric RequestKind = iota
	NamespaceNotFound
	NamespaceExists
	TableNotFound
	TableExists
	ServerIO
)

// RequestError is a generic server-side exception, carrying the raw
// exception class name and a typed Kind when one is recognized.
type RequestError struct {
	Kind      RequestKind
	ClassName string
}

func (e *RequestError) Error() string {
	return "request error: " + e.ClassName
}

// RegionKind enumerates the retryable region-related exceptions (§4.3/§7).
type RegionKind int

const (
	RegionMoved RegionKind = iota
	NotServingRegion
	RegionServerStopped
	RegionOpening
	RegionTooBusy
)

// RegionError is always retried by the client operations in the root
// package, with cache invalidation and a fresh meta lookup.
type RegionError struct {
	Kind      RegionKind
	ClassName string
}

func (e *RegionError) Error() string {
	return "region error: " + e.ClassName
}

// ValidationError signals a malformed column name, a non-positive batch
// size, or a scanner used by the wrong client.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return "validation error: " + e.Msg }

// Server exception class names recognized by ClassifyException (§4.3).
const (
	ClassRegionMoved          = "org.apache.hadoop.hbase.exceptions.RegionMovedException"
	ClassNotServingRegion     = "org.apache.hadoop.hbase.NotServingRegionException"
	ClassRegionServerStopped  = "org.apache.hadoop.hbase.regionserver.RegionServerStoppedException"
	ClassRegionOpening        = "org.apache.hadoop.hbase.exceptions.RegionOpeningException"
	ClassRegionTooBusy        = "org.apache.hadoop.hbase.RegionTooBusyException"
	ClassNamespaceNotFound    = "org.apache.hadoop.hbase.NamespaceNotFoundException"
	ClassNamespaceExists      = "org.apache.hadoop.hbase.NamespaceExistException"
	ClassTableNotFound        = "org.apache.hadoop.hbase.TableNotFoundException"
	ClassTableExists          = "org.apache.hadoop.hbase.TableExistsException"
	ClassServerIO             = "java.io.IOException"
)

// ClassifyException maps a server exception class name to a client error,
// per the taxonomy in §4.3/§7.
func ClassifyException(className string) error {
	switch className {
	case ClassRegionMoved:
		return &RegionError{Kind: RegionMoved, ClassName: className}
	case ClassNotServingRegion:
		return &RegionError{Kind: NotServingRegion, ClassName: className}
	case ClassRegionServerStopped:
		return &RegionError{Kind: RegionServerStopped, ClassName: className}
	case ClassRegionOpening:
		return &RegionError{Kind: RegionOpening, ClassName: className}
	case ClassRegionTooBusy:
		return &RegionError{Kind: RegionTooBusy, ClassName: className}
	case ClassNamespaceNotFound:
		return &RequestError{Kind: NamespaceNotFound, ClassName: className}
	case ClassNamespaceExists:
		return &RequestError{Kind: NamespaceExists, ClassName: className}
	case ClassTableNotFound:
		return &RequestError{Kind: TableNotFound, ClassName: className}
	case ClassTableExists:
		return &RequestError{Kind: TableExists, ClassName: className}
	case ClassServerIO:
		return &RequestError{Kind: ServerIO, ClassName: className}
	default:
		return &RequestError{Kind: RequestGeneric, ClassName: className}
	}
}

// IsRegionError reports whether err (or something it wraps) is a
// RegionError, the trigger for cache invalidation and re-routing.
func IsRegionError(err error) bool {
	var re *RegionError
	return errors.As(err, &re)
}
