// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package region

import (
	"io"
	"strings"
	"sync"

	"modernc.org/b/v2"
)

// Tree is the ordered region cache described in §3/§4.2: a balanced map from
// a region's StartValue to its descriptor, supporting point lookup and
// eviction of every region overlapping a probe. It is backed by
// modernc.org/b/v2, a generics B-tree, rather than a hand-rolled red-black
// tree, per DESIGN.md.
type Tree struct {
	mu sync.Mutex
	t  *b.Tree[string, *Info]
}

// NewTree constructs an empty region cache.
func NewTree() *Tree {
	return &Tree{t: b.TreeNew[string, *Info](strings.Compare)}
}

// Find returns the region whose [StartValue, EndValue) interval contains
// probe, or nil if the cache has no such entry (§4.2, invariant 2 of §8).
func (c *Tree) Find(probe []byte) *Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(string(probe))
}

func (c *Tree) findLocked(probe string) *Info {
	// Seek positions the enumerator just past probe; Prev() both moves it
	// back and returns the floor entry in one call, so its return value is
	// already the candidate region regardless of whether Seek hit exactly.
	enum, _ := c.t.Seek(probe)
	if enum == nil {
		return nil
	}
	_, v, err := enum.Prev()
	if err == io.EOF {
		if c.t.Len() == 0 {
			return nil
		}
		_, v, _ = c.t.Last()
	}
	if v == nil || !v.Contains([]byte(probe)) {
		return nil
	}
	return v
}

// Insert adds a region to the cache, first evicting any cached region whose
// interval overlaps it (invariant 1 of §8).
func (c *Tree) Insert(r *Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteOverlappingLocked(r)
	c.t.Set(string(r.StartValue), r)
}

// DeleteOverlapping removes every cached region whose interval overlaps
// probe (a raw "table,row" byte string), repeating the delete-then-find
// cycle described in §4.2/§4.6 until no match remains.
func (c *Tree) DeleteOverlapping(probe []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		r := c.findLocked(string(probe))
		if r == nil {
			return
		}
		c.t.Delete(string(r.StartValue))
	}
}

func (c *Tree) deleteOverlappingLocked(r *Info) {
	for {
		if existing := c.findLocked(string(r.StartValue)); existing != nil && existing.Overlaps(r) {
			c.t.Delete(string(existing.StartValue))
			continue
		}
		// Regions that start inside r's interval do not contain its
		// StartValue; the first entry at or after it is the next candidate.
		enum, _ := c.t.Seek(string(r.StartValue))
		if enum == nil {
			return
		}
		_, next, err := enum.Next()
		if err != nil || next == nil || !next.Overlaps(r) {
			return
		}
		c.t.Delete(string(next.StartValue))
	}
}

// Len reports the number of cached regions, mostly for tests/metrics.
func (c *Tree) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.Len()
}
