// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"

	"github.com/golang/snappy"

	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/hrpc"
	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/region"
)

// Compare types for CheckAndPut's Condition, mirroring the server's
// CompareType enum.
const (
	CompareLess           int32 = 0
	CompareLessOrEqual    int32 = 1
	CompareEqual          int32 = 2
	CompareNotEqual       int32 = 3
	CompareGreaterOrEqual int32 = 4
	CompareGreater        int32 = 5
)

// Put writes row, grouping its cells by family, and applies the shared
// retry skeleton. It returns the server's "processed" boolean.
func (c *Client) Put(ctx context.Context, table string, row *Row) (bool, error) {
	mutation, err := rowToMutation(row, pb.MutationPut)
	if err != nil {
		return false, err
	}

	var processed bool
	err = c.withRegion(ctx, table, row.Key, c.cfg.MaxRegionRetries, func(reg *region.Info, svc handle.Handle) error {
		req := &pb.MutateRequest{
			Region:   pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
			Mutation: *mutation,
		}
		var resp pb.MutateResponse
		if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
			return err
		}
		processed = resp.Processed
		return nil
	})
	return processed, err
}

// PutCompressed snappy-compresses every cell value before writing, for
// tables whose column families declare compression: snappy.
func (c *Client) PutCompressed(ctx context.Context, table string, row *Row) (bool, error) {
	compressed := &Row{Key: row.Key, Cells: make(map[string][]byte, len(row.Cells))}
	for name, value := range row.Cells {
		compressed.Cells[name] = snappy.Encode(nil, value)
	}
	return c.Put(ctx, table, compressed)
}

// CheckAndPut writes row only if the cell named by checkColumn currently
// equals (or otherwise compares per compareType to) checkValue; a nil
// checkValue means "absent". Returns whether the mutation was applied.
func (c *Client) CheckAndPut(ctx context.Context, table string, row *Row, checkColumn string, checkValue []byte, compareType int32) (bool, error) {
	family, qualifier, err := splitColumn(checkColumn)
	if err != nil {
		return false, err
	}
	mutation, err := rowToMutation(row, pb.MutationPut)
	if err != nil {
		return false, err
	}
	condition := &pb.Condition{
		Row:         row.Key,
		Family:      []byte(family),
		Qualifier:   []byte(qualifier),
		CompareType: compareType,
		Comparator:  pb.Comparator{Name: "org.apache.hadoop.hbase.filter.BinaryComparator", SerializedComparator: checkValue},
	}

	var processed bool
	err = c.withRegion(ctx, table, row.Key, c.cfg.MaxRegionRetries, func(reg *region.Info, svc handle.Handle) error {
		req := &pb.MutateRequest{
			Region:    pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
			Mutation:  *mutation,
			Condition: condition,
		}
		var resp pb.MutateResponse
		if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
			return err
		}
		processed = resp.Processed
		return nil
	})
	return processed, err
}

// deleteRetries bounds Delete's RegionError retry to exactly one extra
// attempt (§4.7: "single retry on RegionError, not indefinite"), unlike the
// configurable default used by Get/Put/CheckAndPut.
const deleteRetries = 1

// Delete removes an entire row.
func (c *Client) Delete(ctx context.Context, table string, key []byte) (bool, error) {
	mutation := &pb.MutationProto{Row: key, MutateType: pb.MutationDelete}

	var processed bool
	err := c.withRegion(ctx, table, key, deleteRetries, func(reg *region.Info, svc handle.Handle) error {
		req := &pb.MutateRequest{
			Region:   pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
			Mutation: *mutation,
		}
		var resp pb.MutateResponse
		if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
			return err
		}
		processed = resp.Processed
		return nil
	})
	return processed, err
}
