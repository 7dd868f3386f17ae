// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"strings"

	"github.com/shardkv/goshardkv/errs"
	"github.com/shardkv/goshardkv/pb"
)

// splitColumn splits a "family:qualifier" or bare "family" column name.
// An empty family is always a ValidationError (§7).
func splitColumn(name string) (family, qualifier string, err error) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		family = name
	} else {
		family, qualifier = name[:idx], name[idx+1:]
	}
	if family == "" {
		return "", "", &errs.ValidationError{Msg: "malformed column name " + name}
	}
	return family, qualifier, nil
}

// parseColumns groups qualifiers under their family, per §4.7's "project
// columns by grouping qualifiers under their family". A bare family name
// (no qualifier) projects the whole family.
func parseColumns(columns []string) ([]pb.Column, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	byFamily := map[string]*pb.Column{}
	order := make([]string, 0, len(columns))
	for _, name := range columns {
		family, qualifier, err := splitColumn(name)
		if err != nil {
			return nil, err
		}
		col, ok := byFamily[family]
		if !ok {
			col = &pb.Column{Family: []byte(family)}
			byFamily[family] = col
			order = append(order, family)
		}
		if qualifier != "" {
			col.Qualifier = append(col.Qualifier, []byte(qualifier))
		}
	}
	result := make([]pb.Column, 0, len(order))
	for _, family := range order {
		result = append(result, *byFamily[family])
	}
	return result, nil
}

// cellsToRow decodes a result's cells into a Row, or nil if there are none.
// key, when non-nil, overrides the row key taken from the cells (used by
// Get/MGet, which already know the key; scans instead take it from the
// cell itself).
func cellsToRow(key []byte, cells []pb.Cell) *Row {
	if len(cells) == 0 {
		return nil
	}
	rowKey := key
	if rowKey == nil {
		rowKey = cells[0].Row
	}
	row := &Row{Key: rowKey, Cells: make(map[string][]byte, len(cells))}
	for _, c := range cells {
		row.Cells[string(c.Family)+":"+string(c.Qualifier)] = c.Value
	}
	return row
}

// rowToMutation groups a Row's cells by family into a MutationProto of the
// given type.
func rowToMutation(row *Row, mutateType int32) (*pb.MutationProto, error) {
	byFamily := map[string][]pb.QualifierValue{}
	order := make([]string, 0, len(row.Cells))
	for name, value := range row.Cells {
		family, qualifier, err := splitColumn(name)
		if err != nil {
			return nil, err
		}
		if qualifier == "" {
			return nil, &errs.ValidationError{Msg: "column " + name + " is missing a qualifier"}
		}
		if _, ok := byFamily[family]; !ok {
			order = append(order, family)
		}
		byFamily[family] = append(byFamily[family], pb.QualifierValue{Qualifier: []byte(qualifier), Value: value})
	}
	columnValues := make([]pb.ColumnValue, 0, len(order))
	for _, family := range order {
		columnValues = append(columnValues, pb.ColumnValue{Family: []byte(family), QualifierValue: byFamily[family]})
	}
	return &pb.MutationProto{Row: row.Key, MutateType: mutateType, ColumnValue: columnValues}, nil
}
