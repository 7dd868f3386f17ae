// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardkv/goshardkv/errs"
)

func TestTypedRequestErrorPredicates(t *testing.T) {
	assert.True(t, IsNamespaceNotFound(&RequestError{Kind: errs.NamespaceNotFound}))
	assert.True(t, IsNamespaceExists(&RequestError{Kind: errs.NamespaceExists}))
	assert.True(t, IsTableNotFound(&RequestError{Kind: errs.TableNotFound}))
	assert.True(t, IsTableExists(&RequestError{Kind: errs.TableExists}))
	assert.True(t, IsServerIO(&RequestError{Kind: errs.ServerIO}))

	assert.False(t, IsNamespaceNotFound(&RequestError{Kind: errs.TableNotFound}))
	assert.False(t, IsTableNotFound(&RegionError{Kind: errs.RegionMoved}))
}

func TestIsRegionErrorPredicate(t *testing.T) {
	assert.True(t, IsRegionError(&RegionError{Kind: errs.RegionMoved}))
	assert.False(t, IsRegionError(&RequestError{Kind: errs.RequestGeneric}))
}
