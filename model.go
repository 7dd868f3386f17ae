// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import "strconv"

// Row is a decoded or to-be-written row: a key plus its cells, keyed by
// "family:qualifier". Duplicate qualifiers merge to the last value written
// into Cells, matching _cells_to_row in the original source.
type Row struct {
	Key   []byte
	Cells map[string][]byte
}

// ColumnFamilyAttributes configures one column family at table-creation
// time, grounded on ColumnFamilyAttributes in client/client.py.
type ColumnFamilyAttributes struct {
	Name             string
	MaxVersions      int
	Compression      string
	BlockSize        int
	InMemory         bool
	KeepDeletedCells bool
}

func (a ColumnFamilyAttributes) attributes() map[string][]byte {
	m := map[string][]byte{
		"IN_MEMORY":          []byte(strconv.FormatBool(a.InMemory)),
		"KEEP_DELETED_CELLS": []byte(strconv.FormatBool(a.KeepDeletedCells)),
	}
	if a.MaxVersions > 0 {
		m["VERSIONS"] = []byte(strconv.Itoa(a.MaxVersions))
	}
	if a.Compression != "" {
		m["COMPRESSION"] = []byte(a.Compression)
	}
	if a.BlockSize > 0 {
		m["BLOCKSIZE"] = []byte(strconv.Itoa(a.BlockSize))
	}
	return m
}
