// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestMarshal(t *testing.T) {
	req := &GetRequest{
		Region: RegionSpecifier{Type: RegionNameType, Value: []byte("t,,1")},
		Get: Get{
			Row:    []byte("row1"),
			Column: []Column{{Family: []byte("cf"), Qualifier: [][]byte{[]byte("q1")}}},
			Filter: &Filter{Name: "org.apache.hadoop.hbase.filter.KeyOnlyFilter"},
		},
	}
	b, err := req.Marshal()
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestGetResponseUnmarshalRoundTrip(t *testing.T) {
	var cellBytes []byte
	cellBytes = appendBytesField(cellBytes, 1, []byte("row1"))
	cellBytes = appendBytesField(cellBytes, 2, []byte("cf"))
	cellBytes = appendBytesField(cellBytes, 3, []byte("q1"))
	cellBytes = appendBytesField(cellBytes, 7, []byte("v1"))

	var resultBytes []byte
	resultBytes = appendBytesField(resultBytes, 1, cellBytes)

	var body []byte
	body = appendBytesField(body, 1, resultBytes)

	var resp GetResponse
	require.NoError(t, resp.Unmarshal(body))
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Cell, 1)
	assert.Equal(t, []byte("row1"), resp.Result.Cell[0].Row)
	assert.Equal(t, []byte("v1"), resp.Result.Cell[0].Value)
}

func TestGetResponseUnmarshalEmptyResult(t *testing.T) {
	var resp GetResponse
	require.NoError(t, resp.Unmarshal(nil))
	assert.Nil(t, resp.Result)
}
