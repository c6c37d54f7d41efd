// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/lock"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

// Tree - a concurrent map, safe for use by any number of goroutines
type Tree struct {
	root *Node // holder: the real root is its right child

	compare   func(a interface{}, b interface{}) int
	allocator Allocator
	values    Values
	newLock   lock.Factory
	relaxed   bool
	model     MemoryModel
	reclaim   reclaim.Policy
	backOff   backoff.Strategy
	stat      Stat
	items     counter.Item
	log       *logger.L

	// bound once to avoid a closure per retirement
	freeNode     func(interface{})
	disposeValue func(interface{})
}

// New - create an initially empty tree
func New(options Options) (*Tree, error) {

	tree := &Tree{
		allocator: options.Allocator,
		values:    options.Values,
		newLock:   options.NewLock,
		relaxed:   options.RelaxedInsert,
		model:     options.MemoryModel,
		reclaim:   options.Reclamation,
		backOff:   options.BackOff,
		stat:      options.Stat,
		items:     options.ItemCounter,
		log:       options.Log,
	}

	switch {
	case nil == options.Compare && nil == options.Less:
		return nil, fault.ErrMissingComparator
	case nil != options.Compare && nil != options.Less:
		return nil, fault.ErrMultipleComparators
	case nil != options.Compare:
		tree.compare = options.Compare
	default:
		tree.compare = compareFromLess(options.Less)
	}

	if options.MemoryModel != Relaxed && options.MemoryModel != SequentialConsistent {
		return nil, fault.ErrInvalidMemoryModel
	}

	if nil == tree.allocator {
		tree.allocator = HeapAllocator{}
	}
	if nil == tree.newLock {
		tree.newLock = lock.Mutex
	}
	if nil == tree.reclaim {
		tree.reclaim = reclaim.GC{}
	}
	if nil == tree.backOff {
		tree.backOff = backoff.Empty{}
	}
	if nil == tree.stat {
		tree.stat = EmptyStat{}
	}
	if nil == tree.items {
		tree.items = counter.Empty{}
	}

	// nothing would ever be released without a deferring policy
	deferring := reclaim.Defers(tree.reclaim)
	if nil != tree.values.Dispose && !deferring {
		return nil, fault.ErrDisposerNeedsReclamation
	}
	if _, ok := tree.allocator.(*PoolAllocator); ok && !deferring {
		return nil, fault.ErrPoolNeedsReclamation
	}

	tree.freeNode = func(object interface{}) {
		tree.allocator.Free(object.(*Node))
		tree.stat.Event(DisposedNode)
	}
	tree.disposeValue = func(value interface{}) {
		tree.values.Dispose(value)
		tree.stat.Event(DisposedValue)
	}

	tree.root = &Node{
		holder: true,
		lock:   tree.newLock(),
	}

	if nil != tree.log {
		tree.log.Debugf("new tree: relaxed insert: %t  memory model: %s", tree.relaxed, tree.model)
	}
	return tree, nil
}

// MustNew - create a tree, panic on a configuration error
func MustNew(options Options) *Tree {
	tree, err := New(options)
	if nil != err {
		fault.Panicf("avl: new tree error: %s", err)
	}
	return tree
}

// IsEmpty - true if the tree holds no keys
//
// routing nodes may remain while writers are active, so this is
// only exact in a quiescent tree
func (tree *Tree) IsEmpty() bool {
	return nil == tree.root.right.Load()
}

// Count - number of keys, always zero without an item counter
func (tree *Tree) Count() int {
	return int(tree.items.Uint64())
}

// Root - the root node, for inspection of a quiescent tree
func (tree *Tree) Root() *Node {
	return tree.root.right.Load()
}

// MemoryModel - the configured memory model
func (tree *Tree) MemoryModel() MemoryModel {
	return tree.model
}
