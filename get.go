// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"

	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/hrpc"
	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/region"
)

// Get fetches one row, projecting columns (each a "family" or
// "family:qualifier" string) if any are given, per §4.7.
func (c *Client) Get(ctx context.Context, table string, key []byte, columns []string, filter *pb.Filter) (*Row, error) {
	cols, err := parseColumns(columns)
	if err != nil {
		return nil, err
	}

	var row *Row
	err = c.withRegion(ctx, table, key, c.cfg.MaxRegionRetries, func(reg *region.Info, svc handle.Handle) error {
		req := &pb.GetRequest{
			Region: pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
			Get:    pb.Get{Row: key, Column: cols, Filter: filter},
		}
		var resp pb.GetResponse
		if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
			return err
		}
		if resp.Result != nil {
			row = cellsToRow(key, resp.Result.Cell)
		}
		return nil
	})
	return row, err
}

// getOnce is MGet's single-attempt primitive: one region resolution (cache
// allowed), one GetRequest, no internal retry. A RegionError invalidates
// the cached region so the next MGet round re-resolves it.
func (c *Client) getOnce(ctx context.Context, table string, key []byte, cols []pb.Column, filter *pb.Filter) (*Row, error) {
	reg, err := c.manager.GetRegion(ctx, table, key, true)
	if err != nil {
		return nil, err
	}
	svc := c.manager.GetService(reg)

	req := &pb.GetRequest{
		Region: pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
		Get:    pb.Get{Row: key, Column: cols, Filter: filter},
	}
	var resp pb.GetResponse
	if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
		if IsRegionError(err) {
			c.manager.InvalidateRegion(table, key)
		}
		return nil, err
	}
	if resp.Result == nil {
		return nil, nil
	}
	return cellsToRow(key, resp.Result.Cell), nil
}
