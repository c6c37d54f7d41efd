// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

func TestPoolExhaustion(t *testing.T) {
	epoch, err := reclaim.NewEpoch(reclaim.EpochOptions{})
	if nil != err {
		t.Fatalf("new epoch error: %s", err)
	}
	defer epoch.Close()

	pool := avl.NewPoolAllocator(3)
	tree := newIntTree(t, avl.Options{
		Allocator:   pool,
		Reclamation: epoch,
	})

	for i := 1; i <= 3; i += 1 {
		inserted, err := tree.Insert(i, i)
		assert.True(t, inserted, "insert: %d", i)
		assert.Nil(t, err, "insert: %d", i)
	}

	inserted, err := tree.Insert(4, 4)
	assert.False(t, inserted, "insert beyond limit")
	assert.Equal(t, fault.ErrAllocatorExhausted, err, "insert beyond limit")

	// a failed insert leaves the tree unchanged
	assert.Equal(t, []interface{}{1, 2, 3}, tree.Keys(), "keys")
	assert.Equal(t, 3, tree.Count(), "count")
	checkTree(t, tree, "exhausted")

	total, free := pool.Counts()
	assert.Equal(t, 3, total, "total nodes")
	assert.Equal(t, 0, free, "free nodes")

	// erased leaf returns to the pool after its grace period
	_, ok := tree.Erase(3)
	assert.True(t, ok, "erase")
	assert.Equal(t, 1, epoch.Collect(), "collected")

	total, free = pool.Counts()
	assert.Equal(t, 3, total, "total nodes after erase")
	assert.Equal(t, 1, free, "free nodes after erase")

	inserted, err = tree.Insert(4, 4)
	assert.True(t, inserted, "insert reusing a node")
	assert.Nil(t, err, "insert reusing a node")

	total, free = pool.Counts()
	assert.Equal(t, 3, total, "total nodes after reuse")
	assert.Equal(t, 0, free, "free nodes after reuse")

	assert.Equal(t, []interface{}{1, 2, 4}, tree.Keys(), "keys after reuse")
	checkTree(t, tree, "reuse")
}

func TestPoolRelaxedInsertFailure(t *testing.T) {
	epoch, err := reclaim.NewEpoch(reclaim.EpochOptions{})
	if nil != err {
		t.Fatalf("new epoch error: %s", err)
	}
	defer epoch.Close()

	pool := avl.NewPoolAllocator(1)
	tree := newIntTree(t, avl.Options{
		Allocator:     pool,
		Reclamation:   epoch,
		RelaxedInsert: true,
	})

	inserted, err := tree.Insert(1, "one")
	assert.True(t, inserted, "first insert")
	assert.Nil(t, err, "first insert")

	inserted, err = tree.Insert(2, "two")
	assert.False(t, inserted, "second insert")
	assert.Equal(t, fault.ErrAllocatorExhausted, err, "second insert")
	assert.True(t, fault.IsErrProcess(err), "error class")

	value, ok := tree.Find(1)
	assert.True(t, ok, "find")
	assert.Equal(t, "one", value, "value")
}
