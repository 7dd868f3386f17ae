// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// Scan is the scan-specific part of a ScanRequest used to open a scanner.
type Scan struct {
	Column   []Column
	StartRow []byte
	StopRow  []byte
	Filter   *Filter
	Reversed bool
}

func (s *Scan) Marshal() ([]byte, error) {
	var b []byte
	for i := range s.Column {
		b = appendMessageField(b, 1, &s.Column[i])
	}
	b = appendBytesField(b, 3, s.StartRow)
	b = appendBytesField(b, 4, s.StopRow)
	if s.Filter != nil {
		b = appendMessageField(b, 5, s.Filter)
	}
	b = appendBoolField(b, 15, s.Reversed)
	return b, nil
}

// ScanRequest either opens a scanner (Scan set), continues one
// (ScannerID set), or closes one (CloseScanner), per §4.7.
type ScanRequest struct {
	Region       *RegionSpecifier
	Scan         *Scan
	ScannerID    uint64
	HasScannerID bool
	NumberOfRows uint32
	CloseScanner bool
}

func (r *ScanRequest) Marshal() ([]byte, error) {
	var b []byte
	if r.Region != nil {
		b = appendMessageField(b, 1, r.Region)
	}
	if r.Scan != nil {
		b = appendMessageField(b, 2, r.Scan)
	}
	if r.HasScannerID {
		b = appendVarintField(b, 3, r.ScannerID)
	}
	b = appendVarintField(b, 4, uint64(r.NumberOfRows))
	b = appendBoolField(b, 5, r.CloseScanner)
	return b, nil
}

// ScanResponse reports the rows fetched by one open/continue call.
type ScanResponse struct {
	ScannerID           uint64
	Results             []Result
	MoreResultsInRegion bool
}

func (r *ScanResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			r.ScannerID = v
			return n
		case 5:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				var res Result
				if err := res.Unmarshal(v); err == nil {
					r.Results = append(r.Results, res)
				}
			}
			return n
		case 6:
			v, n := consumeVarint(typ, b)
			r.MoreResultsInRegion = v != 0
			return n
		default:
			return skipField(typ, b)
		}
	})
}
