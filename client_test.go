// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardkv/goshardkv/discovery"
	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/manager"
	"github.com/shardkv/goshardkv/pool"
	"github.com/shardkv/goshardkv/region"
	handleMock "github.com/shardkv/goshardkv/test/mock/handle"
)

func tagField(num int, wireType int) byte { return byte(num<<3 | wireType) }

// buildMetaScanResponse builds a minimal ScanResponse wire body for one
// meta row naming host:port and a [startKey, endKey) range, mirroring the
// manager package's own test helper without depending on it.
func buildMetaScanResponse(t *testing.T, server string, startKey, endKey []byte) []byte {
	t.Helper()

	var tableNameBytes []byte
	tableNameBytes = append(tableNameBytes, tagField(1, 2), 7)
	tableNameBytes = append(tableNameBytes, "default"...)
	tableNameBytes = append(tableNameBytes, tagField(2, 2), 2)
	tableNameBytes = append(tableNameBytes, "t1"...)

	var regionInfoBytes []byte
	regionInfoBytes = append(regionInfoBytes, tagField(2, 2), byte(len(tableNameBytes)))
	regionInfoBytes = append(regionInfoBytes, tableNameBytes...)
	regionInfoBytes = append(regionInfoBytes, tagField(3, 2), byte(len(startKey)))
	regionInfoBytes = append(regionInfoBytes, startKey...)
	regionInfoBytes = append(regionInfoBytes, tagField(4, 2), byte(len(endKey)))
	regionInfoBytes = append(regionInfoBytes, endKey...)

	regionInfoCellValue := append([]byte("PBUF"), regionInfoBytes...)
	regionInfoCellValue = append(regionInfoCellValue, "trlr"...)

	serverCell := buildCellBytes(t, "t1,,1", "server", []byte(server))
	regionInfoCell := buildCellBytes(t, "t1,,1", "regioninfo", regionInfoCellValue)

	var result []byte
	result = append(result, tagField(1, 2), byte(len(serverCell)))
	result = append(result, serverCell...)
	result = append(result, tagField(1, 2), byte(len(regionInfoCell)))
	result = append(result, regionInfoCell...)

	var body []byte
	body = append(body, tagField(5, 2), byte(len(result)))
	body = append(body, result...)
	body = append(body, tagField(6, 0), 1)
	return body
}

func buildCellBytes(t *testing.T, row, qualifier string, value []byte) []byte {
	t.Helper()
	var b []byte
	b = append(b, tagField(1, 2), byte(len(row)))
	b = append(b, row...)
	b = append(b, tagField(2, 2), 4)
	b = append(b, "info"...)
	b = append(b, tagField(3, 2), byte(len(qualifier)))
	b = append(b, qualifier...)
	b = append(b, tagField(7, 2), byte(len(value)))
	b = append(b, value...)
	return b
}

func newTestClient(t *testing.T, meta handle.Handle, maxRegionRetries int) *Client {
	t.Helper()
	return newTestClientWithCoordinator(t, meta, meta, maxRegionRetries)
}

func newTestClientWithCoordinator(t *testing.T, coordinator, meta handle.Handle, maxRegionRetries int) *Client {
	t.Helper()
	return &Client{
		cfg:         Config{MaxRegionRetries: maxRegionRetries},
		resolver:    &discovery.Resolver{},
		coordinator: coordinator,
		manager:     manager.New(meta, handle.Config{}),
		pool:        pool.New(1),
	}
}

func TestWithRegionSucceedsFirstTry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	meta := handleMock.NewMockHandle(ctrl)
	body := buildMetaScanResponse(t, "host1:60020", []byte("a"), []byte("m"))
	meta.EXPECT().Request(gomock.Any(), "Scan", gomock.Any()).Return(body, nil).Times(1)

	c := newTestClient(t, meta, 3)
	var calls int
	err := c.withRegion(context.Background(), "t1", []byte("c"), 3, func(reg *region.Info, svc handle.Handle) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRegionRetriesOnRegionErrorThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	meta := handleMock.NewMockHandle(ctrl)
	body := buildMetaScanResponse(t, "host1:60020", []byte("a"), []byte("m"))
	meta.EXPECT().Request(gomock.Any(), "Scan", gomock.Any()).Return(body, nil).Times(2)

	c := newTestClient(t, meta, 3)
	var calls int
	err := c.withRegion(context.Background(), "t1", []byte("c"), 3, func(reg *region.Info, svc handle.Handle) error {
		calls++
		if calls == 1 {
			return &errs.RegionError{Kind: errs.RegionMoved}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRegionStopsAfterMaxRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	meta := handleMock.NewMockHandle(ctrl)
	body := buildMetaScanResponse(t, "host1:60020", []byte("a"), []byte("m"))
	meta.EXPECT().Request(gomock.Any(), "Scan", gomock.Any()).Return(body, nil).Times(2)

	c := newTestClient(t, meta, 1)
	var calls int
	err := c.withRegion(context.Background(), "t1", []byte("c"), 1, func(reg *region.Info, svc handle.Handle) error {
		calls++
		return &errs.RegionError{Kind: errs.RegionMoved}
	})
	var re *errs.RegionError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, 2, calls)
}

func TestWithRegionNonRegionErrorStopsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	meta := handleMock.NewMockHandle(ctrl)
	body := buildMetaScanResponse(t, "host1:60020", []byte("a"), []byte("m"))
	meta.EXPECT().Request(gomock.Any(), "Scan", gomock.Any()).Return(body, nil).Times(1)

	c := newTestClient(t, meta, 5)
	var calls int
	err := c.withRegion(context.Background(), "t1", []byte("c"), 5, func(reg *region.Info, svc handle.Handle) error {
		calls++
		return &errs.ValidationError{Msg: "bad input"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClientCloseTearsDownEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	meta := handleMock.NewMockHandle(ctrl)
	meta.EXPECT().Close().Return(nil)
	coordinator := handleMock.NewMockHandle(ctrl)
	coordinator.EXPECT().Close().Return(nil)

	c := newTestClientWithCoordinator(t, coordinator, meta, 0)
	assert.NoError(t, c.Close())
}
