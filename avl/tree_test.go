// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

func newIntTree(t *testing.T, options avl.Options) *avl.Tree {
	if nil == options.Compare && nil == options.Less {
		options.Compare = avl.IntCompare
	}
	if nil == options.ItemCounter {
		options.ItemCounter = new(counter.Counter)
	}
	tree, err := avl.New(options)
	if nil != err {
		t.Fatalf("new tree error: %s", err)
	}
	return tree
}

func TestSmallScenario(t *testing.T) {
	tree := newIntTree(t, avl.Options{})

	for _, k := range []int{5, 3, 8, 1, 4, 7, 9} {
		inserted, err := tree.Insert(k, k*10)
		assert.Nil(t, err, "insert: %d", k)
		assert.True(t, inserted, "insert: %d", k)
	}
	checkTree(t, tree, "insert")
	assert.Equal(t, 3, tree.Height(), "height")
	assert.Equal(t, 7, tree.Count(), "count")

	_, ok := tree.Find(6)
	assert.False(t, ok, "find 6")

	value, ok := tree.Erase(3)
	assert.True(t, ok, "erase 3")
	assert.Equal(t, 30, value, "erased value")

	_, ok = tree.Find(3)
	assert.False(t, ok, "find 3 after erase")

	value, ok = tree.Find(4)
	assert.True(t, ok, "find 4")
	assert.Equal(t, 40, value, "value of 4")

	_, ok = tree.Erase(3)
	assert.False(t, ok, "second erase of 3")

	checkTree(t, tree, "erase")
	assert.Equal(t, []interface{}{1, 4, 5, 7, 8, 9}, tree.Keys(), "keys")
	assert.Equal(t, 6, tree.Count(), "count after erase")
}

func TestRoutingNodeRevival(t *testing.T) {
	tree := newIntTree(t, avl.Options{})

	for _, k := range []int{2, 1, 3} {
		tree.Insert(k, k)
	}

	// two children, so the key becomes a routing node
	value, ok := tree.Erase(2)
	assert.True(t, ok, "erase root")
	assert.Equal(t, 2, value, "erased value")
	assert.True(t, tree.Root().IsRouting(), "root is routing")
	assert.False(t, tree.Contains(2), "routing key present")
	assert.Equal(t, []interface{}{1, 3}, tree.Keys(), "keys")

	// erasing a routing key again finds nothing
	_, ok = tree.Erase(2)
	assert.False(t, ok, "erase routing node")

	inserted, err := tree.Insert(2, "again")
	assert.Nil(t, err, "revive error")
	assert.True(t, inserted, "revive")
	assert.False(t, tree.Root().IsRouting(), "root still routing")
	value, _ = tree.Find(2)
	assert.Equal(t, "again", value, "revived value")
	assert.Equal(t, 3, tree.Count(), "count")

	// remove it again then a child: the routing node must be spliced out
	tree.Erase(2)
	tree.Erase(1)
	checkTree(t, tree, "splice routing")
	assert.Equal(t, 3, tree.Root().Key(), "new root")
	assert.Equal(t, 1, tree.Height(), "height")
}

func TestUpdateWith(t *testing.T) {
	tree := newIntTree(t, avl.Options{})

	increment := func(old interface{}, exists bool) (interface{}, error) {
		if !exists {
			return 1, nil
		}
		return old.(int) + 1, nil
	}

	_, err := tree.UpdateWith(7, increment, false)
	assert.Equal(t, fault.ErrKeyNotFound, err, "missing key")
	assert.False(t, tree.Contains(7), "inserted without permission")

	inserted, err := tree.UpdateWith(7, increment, true)
	assert.Nil(t, err, "insert error")
	assert.True(t, inserted, "inserted")

	for i := 0; i < 9; i += 1 {
		inserted, err = tree.UpdateWith(7, increment, false)
		assert.Nil(t, err, "update error")
		assert.False(t, inserted, "update reported insert")
	}
	value, _ := tree.Find(7)
	assert.Equal(t, 10, value, "incremented value")

	failure := fault.ProcessError("refused")
	_, err = tree.UpdateWith(7, func(interface{}, bool) (interface{}, error) {
		return nil, failure
	}, false)
	assert.Equal(t, failure, err, "constructor error")
	value, _ = tree.Find(7)
	assert.Equal(t, 10, value, "value changed by failed update")
}

func TestInsertWith(t *testing.T) {
	tree := newIntTree(t, avl.Options{})

	calls := 0
	construct := func() (interface{}, error) {
		calls += 1
		return "built", nil
	}

	inserted, err := tree.InsertWith(1, construct)
	assert.Nil(t, err, "error")
	assert.True(t, inserted, "inserted")

	inserted, err = tree.InsertWith(1, construct)
	assert.Nil(t, err, "duplicate error")
	assert.False(t, inserted, "duplicate inserted")
	assert.Equal(t, 1, calls, "constructor called for a duplicate")

	failure := fault.ProcessError("cannot build")
	inserted, err = tree.InsertWith(2, func() (interface{}, error) {
		return nil, failure
	})
	assert.Equal(t, failure, err, "constructor error")
	assert.False(t, inserted, "inserted on error")
	assert.False(t, tree.Contains(2), "failed key present")
	assert.Equal(t, 1, tree.Count(), "count")
	checkTree(t, tree, "after failure")
}

func TestFindWithAndEraseWith(t *testing.T) {
	tree := newIntTree(t, avl.Options{})
	tree.Insert(1, "one")

	var seen interface{}
	ok := tree.FindWith(1, func(key interface{}, value interface{}) {
		seen = value
	})
	assert.True(t, ok, "find with")
	assert.Equal(t, "one", seen, "found value")

	ok = tree.FindWith(2, func(interface{}, interface{}) {
		t.Error("called for absent key")
	})
	assert.False(t, ok, "absent key")

	seen = nil
	ok = tree.EraseWith(1, func(key interface{}, value interface{}) {
		seen = value
	})
	assert.True(t, ok, "erase with")
	assert.Equal(t, "one", seen, "erased value")
	assert.True(t, tree.IsEmpty(), "empty")

	ok = tree.EraseWith(1, func(interface{}, interface{}) {
		t.Error("called for absent key")
	})
	assert.False(t, ok, "absent erase")
}

func TestLessOrdering(t *testing.T) {
	tree := newIntTree(t, avl.Options{
		Less: func(a interface{}, b interface{}) bool {
			return a.(int) > b.(int) // descending
		},
	})
	for i := 0; i < 50; i += 1 {
		tree.Insert(i, i)
	}
	checkTree(t, tree, "descending")
	keys := tree.Keys()
	assert.Equal(t, 49, keys[0], "first key")
	assert.Equal(t, 0, keys[49], "last key")
}

func TestOptions(t *testing.T) {
	_, err := avl.New(avl.Options{})
	assert.Equal(t, fault.ErrMissingComparator, err, "no comparator")

	_, err = avl.New(avl.Options{
		Compare: avl.IntCompare,
		Less:    func(a, b interface{}) bool { return a.(int) < b.(int) },
	})
	assert.Equal(t, fault.ErrMultipleComparators, err, "two comparators")

	_, err = avl.New(avl.Options{
		Compare: avl.IntCompare,
		Values:  avl.ByReference(avl.DisposerFunc(func(interface{}) {})),
	})
	assert.Equal(t, fault.ErrDisposerNeedsReclamation, err, "disposer with gc")

	_, err = avl.New(avl.Options{
		Compare:   avl.IntCompare,
		Allocator: avl.NewPoolAllocator(0),
	})
	assert.Equal(t, fault.ErrPoolNeedsReclamation, err, "pool with gc")

	_, err = avl.New(avl.Options{
		Compare:     avl.IntCompare,
		MemoryModel: avl.MemoryModel(7),
	})
	assert.Equal(t, fault.ErrInvalidMemoryModel, err, "bad memory model")

	epoch, _ := reclaim.NewEpoch(reclaim.EpochOptions{Readers: 2})
	defer epoch.Close()
	tree, err := avl.New(avl.Options{
		Compare:     avl.StringCompare,
		Allocator:   avl.NewPoolAllocator(0),
		Values:      avl.ByReference(avl.DisposerFunc(func(interface{}) {})),
		Reclamation: epoch,
		MemoryModel: avl.SequentialConsistent,
	})
	assert.Nil(t, err, "full options")
	assert.Equal(t, avl.SequentialConsistent, tree.MemoryModel(), "memory model")

	assert.Panics(t, func() { avl.MustNew(avl.Options{}) }, "must new")
}

func TestParseMemoryModel(t *testing.T) {
	items := []struct {
		name  string
		model avl.MemoryModel
		err   error
	}{
		{"", avl.Relaxed, nil},
		{"relaxed", avl.Relaxed, nil},
		{"Sequential", avl.SequentialConsistent, nil},
		{"seq_cst", avl.SequentialConsistent, nil},
		{"acquire", avl.Relaxed, fault.ErrInvalidMemoryModel},
	}
	for i, item := range items {
		m, err := avl.ParseMemoryModel(item.name)
		assert.Equal(t, item.err, err, "%d: error", i)
		assert.Equal(t, item.model, m, "%d: model", i)
	}
	assert.Equal(t, "sequential", avl.SequentialConsistent.String(), "string")
}

func TestCountDisabled(t *testing.T) {
	tree, err := avl.New(avl.Options{Compare: avl.IntCompare})
	assert.Nil(t, err, "new")
	tree.Insert(1, 1)
	tree.Insert(2, 2)
	assert.Equal(t, 0, tree.Count(), "count without counter")
	assert.False(t, tree.IsEmpty(), "empty")
}

func TestStats(t *testing.T) {
	stats := avl.NewStats()
	tree := newIntTree(t, avl.Options{Stat: stats})

	for i := 0; i < 100; i += 1 {
		tree.Insert(i, i)
	}
	tree.Insert(5, 5)
	tree.Find(5)
	tree.Find(500)
	tree.Update(5, 55)
	tree.Erase(5)
	tree.Erase(500)

	assert.Equal(t, uint64(100), stats.Get(avl.InsertSuccess), "inserts")
	assert.Equal(t, uint64(1), stats.Get(avl.FindSuccess), "find success")
	assert.Equal(t, uint64(1), stats.Get(avl.FindFailed), "find failed")
	assert.Equal(t, uint64(1), stats.Get(avl.UpdateSuccess), "updates")
	assert.Equal(t, uint64(1), stats.Get(avl.EraseSuccess), "erase success")
	assert.Equal(t, uint64(1), stats.Get(avl.EraseFailed), "erase failed")
	assert.True(t, stats.Get(avl.RotateLeft) > 0, "ascending keys must rotate left")

	snapshot := stats.Snapshot()
	assert.Equal(t, uint64(100), snapshot["insert_success"], "snapshot")
	_, ok := snapshot["relaxed_insert_failed"]
	assert.False(t, ok, "zero counts in snapshot")

	stats.Reset()
	assert.Equal(t, uint64(0), stats.Get(avl.InsertSuccess), "reset")
	assert.Equal(t, "find_retry", avl.FindRetry.String(), "event name")
}
