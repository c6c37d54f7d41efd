// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

// a double rotation through a routing node whose inner child has no
// child on the far side must still balance the tree
func TestRotationThroughRoutingNode(t *testing.T) {
	for _, sign := range []int{1, -1} {
		stats := avl.NewStats()
		tree := newIntTree(t, avl.Options{Stat: stats})

		for _, k := range []int{3, 22, 6, 20, 12} {
			tree.Insert(sign*k, k)
		}
		checkTree(t, tree, "insert")

		// two children, so it stays as a routing node
		_, ok := tree.Erase(sign * 20)
		assert.True(t, ok, "erase 20 sign: %d", sign)

		tree.Insert(sign*11, 11)
		checkTree(t, tree, "insert below routing node")

		assert.Equal(t, 3, tree.Height(), "height sign: %d", sign)
		assert.Equal(t, sign*12, tree.Root().Key(), "root sign: %d", sign)
		assert.Equal(t, uint64(1), stats.Get(avl.RemoveRoutingNode), "routing nodes removed sign: %d", sign)

		expected := []interface{}{3, 6, 11, 12, 22}
		if sign < 0 {
			expected = []interface{}{-22, -12, -11, -6, -3}
		}
		assert.Equal(t, expected, tree.Keys(), "keys sign: %d", sign)
		assert.Equal(t, 5, tree.Count(), "count sign: %d", sign)
	}
}

// random single threaded operations compared against a map, checking
// the whole tree after every step
func TestSequentialAgainstMap(t *testing.T) {
	const (
		keySpace = 30
		steps    = 3000
		seeds    = 8
	)

	setups := []struct {
		name    string
		options func() avl.Options
	}{
		{"default", func() avl.Options { return avl.Options{} }},
		{"relaxed", func() avl.Options { return avl.Options{RelaxedInsert: true} }},
		{"epoch-pool", func() avl.Options {
			e, _ := reclaim.NewEpoch(reclaim.EpochOptions{Readers: 2, Threshold: 8})
			return avl.Options{
				Reclamation: e,
				Allocator:   avl.NewPoolAllocator(0),
				Values:      avl.ByReference(avl.DisposerFunc(func(interface{}) {})),
			}
		}},
	}

	for _, setup := range setups {
		for seed := int64(0); seed < seeds; seed += 1 {
			options := setup.options()
			tree := newIntTree(t, options)
			expected := make(map[int]int)
			rng := rand.New(rand.NewSource(seed))

			for step := 0; step < steps; step += 1 {
				k := rng.Intn(keySpace)
				v := rng.Int()
				old, present := expected[k]

				switch rng.Intn(4) {
				case 0:
					value, ok := tree.Find(k)
					assert.Equal(t, present, ok, "%s/%d/%d: find %d", setup.name, seed, step, k)
					if present {
						assert.Equal(t, old, value, "%s/%d/%d: value of %d", setup.name, seed, step, k)
					}
				case 1:
					inserted, err := tree.Insert(k, v)
					assert.Nil(t, err, "%s/%d/%d: insert error", setup.name, seed, step)
					assert.Equal(t, !present, inserted, "%s/%d/%d: insert %d", setup.name, seed, step, k)
					if inserted {
						expected[k] = v
					}
				case 2:
					inserted, err := tree.Update(k, v)
					assert.Nil(t, err, "%s/%d/%d: update error", setup.name, seed, step)
					assert.Equal(t, !present, inserted, "%s/%d/%d: update %d", setup.name, seed, step, k)
					expected[k] = v
				default:
					value, ok := tree.Erase(k)
					assert.Equal(t, present, ok, "%s/%d/%d: erase %d", setup.name, seed, step, k)
					if present {
						assert.Equal(t, old, value, "%s/%d/%d: erased value of %d", setup.name, seed, step, k)
					}
					delete(expected, k)
				}

				checkTree(t, tree, setup.name)
				if len(expected) != tree.Count() {
					t.Fatalf("%s/%d/%d: count: %d  expected: %d", setup.name, seed, step, tree.Count(), len(expected))
				}
			}

			keys := make([]int, 0, len(expected))
			for k := range expected {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			actual := make([]int, 0, len(keys))
			for _, k := range tree.Keys() {
				actual = append(actual, k.(int))
			}
			assert.Equal(t, keys, actual, "%s/%d: keys", setup.name, seed)

			if nil != options.Reclamation {
				assert.Nil(t, options.Reclamation.Close(), "%s/%d: close", setup.name, seed)
			}
		}
	}
}
