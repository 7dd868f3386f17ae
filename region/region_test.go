// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoContains(t *testing.T) {
	r := New([]byte("t,a,1"), "t", []byte("a"), []byte("m"), "host1", 60020)
	assert.True(t, r.Contains([]byte("t,a")))
	assert.True(t, r.Contains([]byte("t,f")))
	assert.False(t, r.Contains([]byte("t,m")))
	assert.False(t, r.Contains([]byte("t,z")))
}

func TestInfoContainsOpenEndedRegion(t *testing.T) {
	r := New([]byte("t,m,1"), "t", []byte("m"), nil, "host1", 60020)
	assert.True(t, r.Contains([]byte("t,z")))
	assert.True(t, r.Contains([]byte("t,\xfe")))
}

func TestInfoOverlaps(t *testing.T) {
	a := New([]byte("t,a,1"), "t", []byte("a"), []byte("m"), "host1", 1)
	b := New([]byte("t,g,1"), "t", []byte("g"), []byte("z"), "host1", 1)
	c := New([]byte("t,m,1"), "t", []byte("m"), []byte("z"), "host1", 1)
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
}

func TestServerAddr(t *testing.T) {
	r := New([]byte("t,,1"), "t", nil, nil, "myhost", 16020)
	assert.Equal(t, "myhost:16020", r.ServerAddr())
}

func TestServerAddrZeroPort(t *testing.T) {
	r := New([]byte("t,,1"), "t", nil, nil, "myhost", 0)
	assert.Equal(t, "myhost:0", r.ServerAddr())
}
