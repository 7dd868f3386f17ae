// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import "github.com/shardkv/goshardkv/errs"

// Error types are aliased from errs so that callers of this package never
// need to import it directly (§7).
type (
	TransportError  = errs.TransportError
	ProtocolError   = errs.ProtocolError
	DiscoveryError  = errs.DiscoveryError
	RequestError    = errs.RequestError
	RegionError     = errs.RegionError
	ValidationError = errs.ValidationError
)

// IsRegionError reports whether err is a RegionError: moved, not-serving,
// stopped, opening, or too-busy (§7, always retried by this package's own
// operations; exposed for callers driving their own retry logic on top of
// lower-level calls).
func IsRegionError(err error) bool { return errs.IsRegionError(err) }

// IsNamespaceNotFound reports whether err is the typed
// NamespaceNotFoundException sub-kind.
func IsNamespaceNotFound(err error) bool { return hasRequestKind(err, errs.NamespaceNotFound) }

// IsNamespaceExists reports whether err is the typed NamespaceExistException
// sub-kind.
func IsNamespaceExists(err error) bool { return hasRequestKind(err, errs.NamespaceExists) }

// IsTableNotFound reports whether err is the typed TableNotFoundException
// sub-kind.
func IsTableNotFound(err error) bool { return hasRequestKind(err, errs.TableNotFound) }

// IsTableExists reports whether err is the typed TableExistsException
// sub-kind.
func IsTableExists(err error) bool { return hasRequestKind(err, errs.TableExists) }

// IsServerIO reports whether err is the typed java.io.IOException sub-kind.
func IsServerIO(err error) bool { return hasRequestKind(err, errs.ServerIO) }

func hasRequestKind(err error, kind errs.RequestKind) bool {
	re, ok := err.(*errs.RequestError)
	return ok && re.Kind == kind
}
