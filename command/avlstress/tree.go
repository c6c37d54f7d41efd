// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/lock"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

// record - the referenced value stored when values are by reference
type record struct {
	index int
}

// everything built from the tree section of the configuration
type treeState struct {
	tree     *avl.Tree
	policy   reclaim.Policy
	stats    *avl.Stats
	items    *counter.Counter
	pool     *avl.PoolAllocator
	disposed counter.Counter
	byRef    bool
}

func newTreeState(c *TreeType, keys keySet, log *logger.L) (*treeState, error) {

	strategy, err := backoff.New(c.BackOff)
	if nil != err {
		return nil, err
	}

	newLock, err := lock.New(c.Lock, strategy)
	if nil != err {
		return nil, err
	}

	model, err := avl.ParseMemoryModel(c.MemoryModel)
	if nil != err {
		return nil, err
	}

	interval, err := parseInterval(c.CollectInterval)
	if nil != err {
		return nil, err
	}
	policy, err := reclaim.New(c.Reclamation, reclaim.EpochOptions{
		Readers:   c.ReaderSlots,
		Threshold: c.RetireThreshold,
		Interval:  interval,
		Log:       log,
	})
	if nil != err {
		return nil, err
	}

	s := &treeState{
		policy: policy,
		stats:  avl.NewStats(),
		items:  new(counter.Counter),
	}

	options := avl.Options{
		Compare:       keys.Compare,
		NewLock:       newLock,
		RelaxedInsert: c.RelaxedInsert,
		MemoryModel:   model,
		Reclamation:   policy,
		BackOff:       strategy,
		Stat:          s.stats,
		ItemCounter:   s.items,
		Log:           log,
	}

	switch strings.ToLower(strings.TrimSpace(c.Allocator)) {
	case "", heapAllocator:
	case poolAllocator:
		s.pool = avl.NewPoolAllocator(c.PoolLimit)
		options.Allocator = s.pool
	default:
		policy.Close()
		return nil, fault.ErrInvalidAllocator
	}

	switch strings.ToLower(strings.TrimSpace(c.Values)) {
	case "", byValue:
	case byReference:
		s.byRef = true
		options.Values = avl.ByReference(avl.DisposerFunc(func(interface{}) {
			s.disposed.Increment()
		}))
	default:
		policy.Close()
		return nil, fault.ErrInvalidValuePolicy
	}

	s.tree, err = avl.New(options)
	if nil != err {
		policy.Close()
		return nil, err
	}
	return s, nil
}

// the value stored for the key with this index
func (s *treeState) value(index int) interface{} {
	if s.byRef {
		return &record{index: index}
	}
	return index
}

// the key index held in a stored value
func (s *treeState) index(value interface{}) int {
	if s.byRef {
		return value.(*record).index
	}
	return value.(int)
}

// quiescent consistency check, all workers must have stopped
func (s *treeState) check() error {
	if !s.tree.CheckUp() || !s.tree.CheckBalance() || !s.tree.CheckOrder() {
		return fault.ErrTreeCheckFailed
	}
	if c := s.tree.Count(); c != len(s.tree.Keys()) {
		return fault.ErrWorkloadItemsCountMismatch
	}
	return nil
}

func (s *treeState) close() error {
	return s.policy.Close()
}
