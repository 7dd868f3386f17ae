// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"
	"strconv"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/region"
	handleMock "github.com/shardkv/goshardkv/test/mock/handle"
)

func TestCreateScannerDefaultsBatchSize(t *testing.T) {
	c := &Client{}
	sc, err := c.CreateScanner("t1", []byte("a"), nil, nil, nil, 0, false)
	require.NoError(t, err)
	assert.Equal(t, defaultScanBatch, sc.batch)
	assert.Equal(t, scannerIdle, sc.state)
}

func TestCreateScannerPropagatesColumnParseError(t *testing.T) {
	c := &Client{}
	_, err := c.CreateScanner("t1", nil, nil, []string{":bad"}, nil, 0, false)
	assert.Error(t, err)
}

func TestIterScannerOnDoneReturnsNilImmediately(t *testing.T) {
	sc := &Scanner{state: scannerDone}
	rows, err := sc.IterScanner(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, rows)
}

func TestAdvancePastRegionMarksDoneOnInfiniteEndKey(t *testing.T) {
	sc := &Scanner{region: region.New([]byte("t1,,1"), "t1", []byte("a"), nil, "h", 1)}
	sc.advancePastRegion()
	assert.Equal(t, scannerDone, sc.state)
}

func TestAdvancePastRegionMarksDoneWhenReachingRequestedEndKey(t *testing.T) {
	sc := &Scanner{
		region: region.New([]byte("t1,,1"), "t1", []byte("a"), []byte("m"), "h", 1),
		endKey: []byte("m"),
	}
	sc.advancePastRegion()
	assert.Equal(t, scannerDone, sc.state)
}

func TestAdvancePastRegionContinuesToNextRegion(t *testing.T) {
	sc := &Scanner{
		region: region.New([]byte("t1,,1"), "t1", []byte("a"), []byte("m"), "h", 1),
		endKey: []byte("z"),
	}
	sc.advancePastRegion()
	assert.Equal(t, scannerIdle, sc.state)
	assert.Equal(t, []byte("m"), sc.currentStartKey)
}

func TestDeleteScannerNoOpWhenNotOpen(t *testing.T) {
	sc := &Scanner{state: scannerIdle}
	assert.NoError(t, sc.DeleteScanner(context.Background()))
	assert.Equal(t, scannerIdle, sc.state)

	sc2 := &Scanner{state: scannerDone}
	assert.NoError(t, sc2.DeleteScanner(context.Background()))
}

func TestGetOneSurfacesTransportErrorFromDataShard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	host, port := unreachableAddr(t)
	meta := handleMock.NewMockHandle(ctrl)
	body := buildMetaScanResponse(t, host+":"+strconv.Itoa(int(port)), []byte("a"), []byte("z"))
	meta.EXPECT().Request(gomock.Any(), "Scan", gomock.Any()).Return(body, nil)

	c := newTestClient(t, meta, 3)
	row, err := c.GetOne(context.Background(), "t1", []byte("c"))
	assert.Nil(t, row)
	var te *errs.TransportError
	assert.ErrorAs(t, err, &te)
}
