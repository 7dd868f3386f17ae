// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"bytes"
	"context"

	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/hrpc"
	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/region"
)

// defaultScanBatch is the number of rows requested per scan RPC when the
// caller doesn't specify one.
const defaultScanBatch uint32 = 100

type scannerState int

const (
	scannerIdle scannerState = iota
	scannerOpen
	scannerDone
)

// Scanner is the cursor state machine of §4.7: IDLE -> OPEN(region,
// scanner_id) -> OPEN | IDLE/DONE -> DONE. It never owns a region or a
// channel beyond a back-reference to its client.
type Scanner struct {
	client   *Client
	table    string
	endKey   []byte
	columns  []pb.Column
	filter   *pb.Filter
	batch    uint32
	reversed bool

	state           scannerState
	region          *region.Info
	service         handle.Handle
	scannerID       uint64
	currentStartKey []byte
}

// CreateScanner opens a cursor over [startKey, endKey) (endKey empty means
// +infinity), projecting columns if given. batchSize of 0 uses
// defaultScanBatch.
func (c *Client) CreateScanner(table string, startKey, endKey []byte, columns []string, filter *pb.Filter, batchSize uint32, reversed bool) (*Scanner, error) {
	cols, err := parseColumns(columns)
	if err != nil {
		return nil, err
	}
	if batchSize == 0 {
		batchSize = defaultScanBatch
	}
	return &Scanner{
		client:          c,
		table:           table,
		endKey:          endKey,
		columns:         cols,
		filter:          filter,
		batch:           batchSize,
		reversed:        reversed,
		state:           scannerIdle,
		currentStartKey: startKey,
	}, nil
}

// IterScanner advances the cursor one step, returning the batch of rows
// fetched (possibly empty) or nil once the scan is DONE. A batch from an
// OPEN region that turns out empty still advances to the next region at
// close time.
func (s *Scanner) IterScanner(ctx context.Context) ([]*Row, error) {
	if s.state == scannerDone {
		return nil, nil
	}

	var resp pb.ScanResponse
	if s.state == scannerIdle {
		reg, err := s.client.manager.GetRegion(ctx, s.table, s.currentStartKey, true)
		if err != nil {
			return nil, err
		}
		svc := s.client.manager.GetService(reg)
		req := &pb.ScanRequest{
			Region: &pb.RegionSpecifier{Type: pb.RegionNameType, Value: reg.Name},
			Scan: &pb.Scan{
				Column:   s.columns,
				StartRow: s.currentStartKey,
				StopRow:  s.endKey,
				Filter:   s.filter,
				Reversed: s.reversed,
			},
			NumberOfRows: s.batch,
		}
		if err := hrpc.Send(ctx, svc, req, &resp); err != nil {
			return nil, err
		}
		s.region, s.service = reg, svc
		s.scannerID = resp.ScannerID
		s.state = scannerOpen
	} else {
		req := &pb.ScanRequest{
			Region:       &pb.RegionSpecifier{Type: pb.RegionNameType, Value: s.region.Name},
			ScannerID:    s.scannerID,
			HasScannerID: true,
			NumberOfRows: s.batch,
		}
		if err := hrpc.Send(ctx, s.service, req, &resp); err != nil {
			return nil, err
		}
	}

	rows := make([]*Row, 0, len(resp.Results))
	for i := range resp.Results {
		if row := cellsToRow(nil, resp.Results[i].Cell); row != nil {
			rows = append(rows, row)
		}
	}

	if resp.MoreResultsInRegion {
		return rows, nil
	}

	closeErr := s.closeServerScanner(ctx)
	s.advancePastRegion()
	if closeErr != nil {
		return rows, closeErr
	}
	return rows, nil
}

func (s *Scanner) closeServerScanner(ctx context.Context) error {
	req := &pb.ScanRequest{
		Region:       &pb.RegionSpecifier{Type: pb.RegionNameType, Value: s.region.Name},
		ScannerID:    s.scannerID,
		HasScannerID: true,
		CloseScanner: true,
	}
	return hrpc.Send(ctx, s.service, req, nil)
}

// advancePastRegion moves current_start_key to the just-closed region's
// end_key, or marks the scan DONE when that end_key is +infinity or has
// reached the user's requested end_key.
func (s *Scanner) advancePastRegion() {
	end := s.region.EndKey
	if len(end) == 0 || (len(s.endKey) > 0 && bytes.Compare(end, s.endKey) >= 0) {
		s.state = scannerDone
		return
	}
	s.currentStartKey = end
	s.state = scannerIdle
}

// DeleteScanner closes the server-side scanner early, if one is open. Safe
// to call on an already-DONE or never-opened Scanner.
func (s *Scanner) DeleteScanner(ctx context.Context) error {
	if s.state != scannerOpen {
		return nil
	}
	err := s.closeServerScanner(ctx)
	s.state = scannerDone
	return err
}

// GetOne is the "first row sample" primitive of §4.7: a one-row reverse
// scan at the region containing key (or the first region, if key is
// empty), closed immediately.
func (c *Client) GetOne(ctx context.Context, table string, key []byte) (*Row, error) {
	sc, err := c.CreateScanner(table, key, nil, nil, nil, 1, true)
	if err != nil {
		return nil, err
	}
	rows, err := sc.IterScanner(ctx)
	closeErr := sc.DeleteScanner(ctx)
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
