// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"
	"strings"
	"time"

	"github.com/shardkv/goshardkv/hrpc"
	"github.com/shardkv/goshardkv/pb"
)

// Procedure-wait polling backoff: doubles each poll, capped at 10s (§5).
const (
	procPollInitial = 1 * time.Second
	procPollCap     = 10 * time.Second
)

func (c *Client) waitForProcedure(ctx context.Context, procID uint64) error {
	sleep := procPollInitial
	for {
		req := &pb.GetProcedureResultRequest{ProcID: procID}
		var resp pb.GetProcedureResultResponse
		if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
			return err
		}
		switch resp.State {
		case pb.ProcFinished:
			return nil
		case pb.ProcNotFound:
			return nil
		default:
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
			sleep *= 2
			if sleep > procPollCap {
				sleep = procPollCap
			}
		}
	}
}

// splitTableName splits "namespace:qualifier" into its parts, defaulting
// the namespace to "default" when no colon is present.
func splitTableName(table string) (namespace, qualifier string) {
	idx := strings.IndexByte(table, ':')
	if idx < 0 {
		return "default", table
	}
	return table[:idx], table[idx+1:]
}

func parseTableName(table string) pb.TableName {
	ns, qualifier := splitTableName(table)
	return pb.TableName{Namespace: []byte(ns), Qualifier: []byte(qualifier)}
}

// CreateNamespace creates a namespace with the given configuration
// properties and waits for the procedure to finish.
func (c *Client) CreateNamespace(ctx context.Context, name string, config map[string]string) error {
	req := &pb.CreateNamespaceRequest{NamespaceDescriptor: pb.NamespaceDescriptor{Name: name, Configuration: config}}
	var resp pb.CreateNamespaceResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}

// DeleteNamespace deletes an empty namespace and waits for the procedure
// to finish.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	req := &pb.DeleteNamespaceRequest{NamespaceName: name}
	var resp pb.DeleteNamespaceResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}

// ListNamespaces lists every namespace known to the coordinator.
func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	req := &pb.ListNamespacesRequest{}
	var resp pb.ListNamespacesResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return nil, err
	}
	return resp.NamespaceName, nil
}

// ListTables lists every table in namespace, as "namespace:qualifier"
// strings.
func (c *Client) ListTables(ctx context.Context, namespace string) ([]string, error) {
	req := &pb.ListTableNamesByNamespaceRequest{NamespaceName: namespace}
	var resp pb.ListTableNamesByNamespaceResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.TableName))
	for _, t := range resp.TableName {
		names = append(names, string(t.Namespace)+":"+string(t.Qualifier))
	}
	return names, nil
}

// CreateTable creates table with the given column families and optional
// pre-split keys, and waits for the procedure to finish.
func (c *Client) CreateTable(ctx context.Context, table string, families []ColumnFamilyAttributes, splitKeys [][]byte) error {
	schema := pb.TableSchema{TableName: parseTableName(table)}
	for _, f := range families {
		schema.ColumnFamilies = append(schema.ColumnFamilies, pb.ColumnFamilySchema{
			Name:       []byte(f.Name),
			Attributes: f.attributes(),
		})
	}
	req := &pb.CreateTableRequest{TableSchema: schema, SplitKeys: splitKeys}
	var resp pb.CreateTableResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}

// EnableTable enables a disabled table.
func (c *Client) EnableTable(ctx context.Context, table string) error {
	req := &pb.EnableTableRequest{TableName: parseTableName(table)}
	var resp pb.EnableTableResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}

// DisableTable disables an enabled table.
func (c *Client) DisableTable(ctx context.Context, table string) error {
	req := &pb.DisableTableRequest{TableName: parseTableName(table)}
	var resp pb.DisableTableResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}

// DeleteTable deletes table, disabling it first when needDisable is true.
func (c *Client) DeleteTable(ctx context.Context, table string, needDisable bool) error {
	if needDisable {
		if err := c.DisableTable(ctx, table); err != nil {
			return err
		}
	}
	req := &pb.DeleteTableRequest{TableName: parseTableName(table)}
	var resp pb.DeleteTableResponse
	if err := hrpc.Send(ctx, c.coordinator, req, &resp); err != nil {
		return err
	}
	return c.waitForProcedure(ctx, resp.ProcID)
}
