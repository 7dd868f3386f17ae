// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package hrpc is the static dispatch registry named in §9: a lookup from a
// request message's concrete Go type to the RPC method name the server
// expects, so call sites marshal a typed pb message without spelling out
// the method name string themselves.
package hrpc

import (
	"context"
	"fmt"
	"reflect"

	"github.com/shardkv/goshardkv/handle"
	"github.com/shardkv/goshardkv/pb"
)

// Marshaler is satisfied by every pb request type.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Unmarshaler is satisfied by every pb response type.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

var methodNames = map[reflect.Type]string{}

func register(msg Marshaler, method string) {
	methodNames[reflect.TypeOf(msg)] = method
}

func init() {
	register(&pb.GetRequest{}, "Get")
	register(&pb.MutateRequest{}, "Mutate")
	register(&pb.ScanRequest{}, "Scan")
	register(&pb.CreateNamespaceRequest{}, "CreateNamespace")
	register(&pb.DeleteNamespaceRequest{}, "DeleteNamespace")
	register(&pb.ListNamespacesRequest{}, "ListNamespaces")
	register(&pb.ListTableNamesByNamespaceRequest{}, "ListTableNamesByNamespace")
	register(&pb.CreateTableRequest{}, "CreateTable")
	register(&pb.EnableTableRequest{}, "EnableTable")
	register(&pb.DisableTableRequest{}, "DisableTable")
	register(&pb.DeleteTableRequest{}, "DeleteTable")
	register(&pb.GetProcedureResultRequest{}, "GetProcedureResult")
}

// MethodName returns the RPC method name registered for req's concrete
// type. Every pb request type used by the root package must be registered
// in this file's init(); an unregistered type is a programming error, not a
// runtime condition callers should expect to handle.
func MethodName(req Marshaler) string {
	name, ok := methodNames[reflect.TypeOf(req)]
	if !ok {
		panic(fmt.Sprintf("hrpc: no method registered for %T", req))
	}
	return name
}

// Send marshals req, dispatches it through h under its registered method
// name, and unmarshals the response into resp.
func Send(ctx context.Context, h handle.Handle, req Marshaler, resp Unmarshaler) error {
	body, err := req.Marshal()
	if err != nil {
		return err
	}
	respBody, err := h.Request(ctx, MethodName(req), body)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return resp.Unmarshal(respBody)
}
