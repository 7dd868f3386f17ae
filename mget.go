// Copyright (C) 2016  The GoHBase Authors.  All rights reserved.
// This file is part of GoHBase.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package shardkv

import (
	"context"
	"sync"
	"time"

	"github.com/shardkv/goshardkv/pb"
	"github.com/shardkv/goshardkv/pool"
)

// MGet resolves each key's region independently and fans the requests out
// across the shared worker pool, per §4.7. Keys that fail (region errors,
// transport errors, ...) are retried as a batch up to FailTaskRetry times,
// each round separated by the fixed region-retry backoff. It never
// aggregates into one error: the return is always (partial results, list
// of keys that never succeeded).
func (c *Client) MGet(ctx context.Context, table string, keys [][]byte, columns []string, filter *pb.Filter) (map[string]*Row, [][]byte, error) {
	results := map[string]*Row{}
	if len(keys) == 0 {
		return results, nil, nil
	}

	cols, err := parseColumns(columns)
	if err != nil {
		return nil, nil, err
	}

	pending := keys
	for round := 0; round <= c.cfg.FailTaskRetry && len(pending) > 0; round++ {
		var mu sync.Mutex
		var wg pool.WaitGroup
		roundFails := make([][]byte, 0)

		for _, key := range pending {
			key := key
			wg.Add(1)
			c.pool.Submit(func() {
				defer wg.Done()
				row, err := c.getOnce(ctx, table, key, cols, filter)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					roundFails = append(roundFails, key)
					return
				}
				if row != nil {
					results[string(key)] = row
				}
			})
		}
		wg.Wait()

		pending = roundFails
		if len(pending) > 0 && round < c.cfg.FailTaskRetry {
			select {
			case <-time.After(regionRetryBackoff):
			case <-ctx.Done():
				return results, pending, ctx.Err()
			}
		}
	}

	return results, pending, nil
}
