// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/lock"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

// a tree built from the command flags
type treeHandle struct {
	tree   *avl.Tree
	policy reclaim.Policy
	stats  *avl.Stats
}

func newTree(c *cli.Context, compare func(a interface{}, b interface{}) int) (*treeHandle, error) {
	strategy, err := backoff.New(c.String("back-off"))
	if nil != err {
		return nil, err
	}
	newLock, err := lock.New(c.String("lock"), strategy)
	if nil != err {
		return nil, err
	}
	model, err := avl.ParseMemoryModel(c.String("memory-model"))
	if nil != err {
		return nil, err
	}

	var allocator avl.Allocator
	switch strings.ToLower(c.String("allocator")) {
	case "", "heap":
		allocator = avl.HeapAllocator{}
	case "pool":
		allocator = avl.NewPoolAllocator(0)
	default:
		return nil, fault.ErrInvalidAllocator
	}

	policy, err := reclaim.New(c.String("reclamation"), reclaim.EpochOptions{})
	if nil != err {
		return nil, err
	}

	h := &treeHandle{
		policy: policy,
		stats:  avl.NewStats(),
	}
	h.tree, err = avl.New(avl.Options{
		Compare:       compare,
		Allocator:     allocator,
		NewLock:       newLock,
		RelaxedInsert: c.Bool("relaxed"),
		MemoryModel:   model,
		Reclamation:   policy,
		BackOff:       strategy,
		Stat:          h.stats,
		ItemCounter:   new(counter.Counter),
	})
	if nil != err {
		policy.Close()
		return nil, err
	}
	return h, nil
}

func (h *treeHandle) close() error {
	return h.policy.Close()
}

// split a comma separated list into keys
func parseKeys(list string, asStrings bool) ([]interface{}, error) {
	keys := []interface{}{}
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if "" == s {
			continue
		}
		if asStrings {
			keys = append(keys, s)
			continue
		}
		n, err := strconv.Atoi(s)
		if nil != err {
			return nil, fault.ErrInvalidKeyType
		}
		keys = append(keys, n)
	}
	return keys, nil
}

// split a comma separated list into integers
func parseCounts(list string) ([]int, error) {
	counts := []int{}
	for _, s := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if nil != err || n < 0 {
			return nil, fault.ErrInvalidCount
		}
		counts = append(counts, n)
	}
	return counts, nil
}
