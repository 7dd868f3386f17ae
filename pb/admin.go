// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package pb

import "google.golang.org/protobuf/encoding/protowire"

// NamespaceDescriptor names a namespace and its configuration properties.
type NamespaceDescriptor struct {
	Name          string
	Configuration map[string]string
}

func (n *NamespaceDescriptor) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, n.Name)
	for k, v := range n.Configuration {
		pair := nameStringPair{Name: k, Value: v}
		b = appendMessageField(b, 2, &pair)
	}
	return b, nil
}

func (n *NamespaceDescriptor) Unmarshal(b []byte) error {
	n.Configuration = map[string]string{}
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n2 := consumeBytes(typ, b)
			n.Name = string(v)
			return n2
		case 2:
			v, n2 := consumeBytes(typ, b)
			if n2 >= 0 {
				var pair nameStringPair
				if err := pair.Unmarshal(v); err == nil {
					n.Configuration[pair.Name] = pair.Value
				}
			}
			return n2
		default:
			return skipField(typ, b)
		}
	})
}

type nameStringPair struct {
	Name  string
	Value string
}

func (p *nameStringPair) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, p.Name)
	b = appendStringField(b, 2, p.Value)
	return b, nil
}

func (p *nameStringPair) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			p.Name = string(v)
			return n
		case 2:
			v, n := consumeBytes(typ, b)
			p.Value = string(v)
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// CreateNamespaceRequest/Response, DeleteNamespaceRequest/Response and
// ListNamespacesRequest/Response are the coordinator-handle admin RPCs
// supplemented from original_source/hbase/namespace.py.
type CreateNamespaceRequest struct{ NamespaceDescriptor NamespaceDescriptor }

func (r *CreateNamespaceRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &r.NamespaceDescriptor)
	return b, nil
}

type CreateNamespaceResponse struct{ ProcID uint64 }

func (r *CreateNamespaceResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			r.ProcID = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

type DeleteNamespaceRequest struct{ NamespaceName string }

func (r *DeleteNamespaceRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, r.NamespaceName)
	return b, nil
}

type DeleteNamespaceResponse struct{ ProcID uint64 }

func (r *DeleteNamespaceResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			r.ProcID = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

type ListNamespacesRequest struct{}

func (r *ListNamespacesRequest) Marshal() ([]byte, error) { return nil, nil }

type ListNamespacesResponse struct{ NamespaceName []string }

func (r *ListNamespacesResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			r.NamespaceName = append(r.NamespaceName, string(v))
			return n
		default:
			return skipField(typ, b)
		}
	})
}

type ListTableNamesByNamespaceRequest struct{ NamespaceName string }

func (r *ListTableNamesByNamespaceRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendStringField(b, 1, r.NamespaceName)
	return b, nil
}

type ListTableNamesByNamespaceResponse struct{ TableName []TableName }

func (r *ListTableNamesByNamespaceResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeBytes(typ, b)
			if n >= 0 {
				var t TableName
				if err := t.Unmarshal(v); err == nil {
					r.TableName = append(r.TableName, t)
				}
			}
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// ColumnFamilySchema names a family and its attribute bag (versions,
// compression, block size, ...).
type ColumnFamilySchema struct {
	Name       []byte
	Attributes map[string][]byte
}

func (c *ColumnFamilySchema) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, c.Name)
	for k, v := range c.Attributes {
		pair := bytesBytesPair{Name: []byte(k), Value: v}
		b = appendMessageField(b, 2, &pair)
	}
	return b, nil
}

type bytesBytesPair struct {
	Name  []byte
	Value []byte
}

func (p *bytesBytesPair) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, p.Name)
	b = appendBytesField(b, 2, p.Value)
	return b, nil
}

// TableSchema names a table and its column families, used by CreateTable.
type TableSchema struct {
	TableName      TableName
	ColumnFamilies []ColumnFamilySchema
}

func (t *TableSchema) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &tableNameMarshaler{t.TableName})
	for i := range t.ColumnFamilies {
		b = appendMessageField(b, 2, &t.ColumnFamilies[i])
	}
	return b, nil
}

type tableNameMarshaler struct{ TableName }

func (t *tableNameMarshaler) Marshal() ([]byte, error) {
	var b []byte
	b = appendBytesField(b, 1, t.Namespace)
	b = appendBytesField(b, 2, t.Qualifier)
	return b, nil
}

type CreateTableRequest struct {
	TableSchema TableSchema
	SplitKeys   [][]byte
}

func (r *CreateTableRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendMessageField(b, 1, &r.TableSchema)
	for _, k := range r.SplitKeys {
		b = appendBytesField(b, 2, k)
	}
	return b, nil
}

type CreateTableResponse struct{ ProcID uint64 }

func (r *CreateTableResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			r.ProcID = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

type tableNameRequest struct{ TableName TableName }

func (t *tableNameRequest) marshalInto(b []byte, num protowire.Number) []byte {
	return appendMessageField(b, num, &tableNameMarshaler{t.TableName})
}

type EnableTableRequest struct{ TableName TableName }

func (r *EnableTableRequest) Marshal() ([]byte, error) {
	var b []byte
	b = (&tableNameRequest{r.TableName}).marshalInto(b, 1)
	return b, nil
}

type EnableTableResponse struct{ ProcID uint64 }

func (r *EnableTableResponse) Unmarshal(b []byte) error { return unmarshalProcID(&r.ProcID, b) }

type DisableTableRequest struct{ TableName TableName }

func (r *DisableTableRequest) Marshal() ([]byte, error) {
	var b []byte
	b = (&tableNameRequest{r.TableName}).marshalInto(b, 1)
	return b, nil
}

type DisableTableResponse struct{ ProcID uint64 }

func (r *DisableTableResponse) Unmarshal(b []byte) error { return unmarshalProcID(&r.ProcID, b) }

type DeleteTableRequest struct{ TableName TableName }

func (r *DeleteTableRequest) Marshal() ([]byte, error) {
	var b []byte
	b = (&tableNameRequest{r.TableName}).marshalInto(b, 1)
	return b, nil
}

type DeleteTableResponse struct{ ProcID uint64 }

func (r *DeleteTableResponse) Unmarshal(b []byte) error { return unmarshalProcID(&r.ProcID, b) }

func unmarshalProcID(dst *uint64, b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			*dst = v
			return n
		default:
			return skipField(typ, b)
		}
	})
}

// GetProcedureResultRequest/Response poll a coordinator procedure started
// by CreateTable/DeleteTable/EnableTable/DisableTable, per §9 (_wait_for_proc).
const (
	ProcNotFound int32 = 0
	ProcRunning  int32 = 1
	ProcFinished int32 = 2
)

type GetProcedureResultRequest struct{ ProcID uint64 }

func (r *GetProcedureResultRequest) Marshal() ([]byte, error) {
	var b []byte
	b = appendVarintField(b, 1, r.ProcID)
	return b, nil
}

type GetProcedureResultResponse struct{ State int32 }

func (r *GetProcedureResultResponse) Unmarshal(b []byte) error {
	return forEachField(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			v, n := consumeVarint(typ, b)
			r.State = int32(v)
			return n
		default:
			return skipField(typ, b)
		}
	})
}
