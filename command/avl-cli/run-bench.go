// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
)

type benchResult struct {
	Workers    int               `json:"workers"`
	Operations uint64            `json:"operations"`
	Elapsed    string            `json:"elapsed"`
	PerSecond  float64           `json:"per_second"`
	Found      uint64            `json:"found"`
	Inserted   uint64            `json:"inserted"`
	Erased     uint64            `json:"erased"`
	Items      int               `json:"items"`
	Height     int               `json:"height"`
	Valid      bool              `json:"valid"`
	Events     map[string]uint64 `json:"events"`
}

func runBench(c *cli.Context) error {

	workers := c.Int("workers")
	operations := c.Int("operations")
	keySpace := c.Int("key-space")
	if workers <= 0 || operations <= 0 || keySpace <= 0 {
		return fault.ErrInvalidCount
	}

	mix, err := parseCounts(c.String("mix"))
	if nil != err {
		return err
	}
	if 4 != len(mix) || 100 != mix[0]+mix[1]+mix[2]+mix[3] {
		return fault.ErrInvalidWorkloadMix
	}

	h, err := newTree(c, avl.IntCompare)
	if nil != err {
		return err
	}
	defer h.close()

	var found, inserted, erased counter.Counter
	seed := c.Int64("seed")

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w += 1 {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for i := 0; i < operations; i += 1 {
				k := rng.Intn(keySpace)
				switch n := rng.Intn(100); {
				case n < mix[0]:
					if h.tree.Contains(k) {
						found.Increment()
					}
				case n < mix[0]+mix[1]:
					if ok, _ := h.tree.Insert(k, k); ok {
						inserted.Increment()
					}
				case n < mix[0]+mix[1]+mix[2]:
					if ok, _ := h.tree.Update(k, k); ok {
						inserted.Increment()
					}
				default:
					if _, ok := h.tree.Erase(k); ok {
						erased.Increment()
					}
				}
			}
		}(rand.New(rand.NewSource(seed + int64(w))))
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := uint64(workers) * uint64(operations)
	result := benchResult{
		Workers:    workers,
		Operations: total,
		Elapsed:    elapsed.String(),
		PerSecond:  float64(total) / elapsed.Seconds(),
		Found:      found.Uint64(),
		Inserted:   inserted.Uint64(),
		Erased:     erased.Uint64(),
		Items:      h.tree.Count(),
		Height:     h.tree.Height(),
		Valid:      h.tree.CheckUp() && h.tree.CheckBalance() && h.tree.CheckOrder(),
		Events:     h.stats.Snapshot(),
	}

	if err := printJson(c.App.Writer, result); nil != err {
		return err
	}
	if !result.Valid {
		return fault.ErrTreeCheckFailed
	}
	return nil
}
