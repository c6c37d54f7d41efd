// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/lock"
	"github.com/bitmark-inc/concurrentavl/reclaim"
)

// MemoryModel - requested ordering of the atomic node fields
//
// all accesses go through sync/atomic which is always sequentially
// consistent, so both models behave identically; the setting is kept
// so that configurations can state their requirement
type MemoryModel int

// memory models
const (
	Relaxed MemoryModel = iota
	SequentialConsistent
)

// String - configuration name of a memory model
func (m MemoryModel) String() string {
	switch m {
	case Relaxed:
		return "relaxed"
	case SequentialConsistent:
		return "sequential"
	default:
		return "unknown"
	}
}

// ParseMemoryModel - memory model from its configuration name
func ParseMemoryModel(s string) (MemoryModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relaxed":
		return Relaxed, nil
	case "sequential", "sequential_consistent", "seq_cst":
		return SequentialConsistent, nil
	default:
		return Relaxed, fault.ErrInvalidMemoryModel
	}
}

// Options - configuration of a tree, zero values select defaults
type Options struct {
	// exactly one of these orders the keys
	Compare func(a interface{}, b interface{}) int
	Less    func(a interface{}, b interface{}) bool

	Allocator     Allocator        // default: HeapAllocator
	Values        Values           // default: ByValue
	NewLock       lock.Factory     // default: lock.Mutex
	RelaxedInsert bool             // build new nodes before locking
	MemoryModel   MemoryModel      // default: Relaxed
	Reclamation   reclaim.Policy   // default: reclaim.GC
	BackOff       backoff.Strategy // default: backoff.Empty
	Stat          Stat             // default: EmptyStat
	ItemCounter   counter.Item     // default: counter.Empty
	Log           *logger.L        // optional
}

// Item - keys ordered by their own Compare method
type Item interface {
	Compare(interface{}) int // for left/right ordering of items
}

// ItemCompare - comparison for keys implementing Item
func ItemCompare(a interface{}, b interface{}) int {
	return a.(Item).Compare(b)
}

// IntCompare - comparison for int keys
func IntCompare(a interface{}, b interface{}) int {
	x := a.(int)
	y := b.(int)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// StringCompare - comparison for string keys
func StringCompare(a interface{}, b interface{}) int {
	return strings.Compare(a.(string), b.(string))
}

// derive a three way comparison from a strict weak ordering
func compareFromLess(less func(a interface{}, b interface{}) bool) func(a interface{}, b interface{}) int {
	return func(a interface{}, b interface{}) int {
		if less(a, b) {
			return -1
		}
		if less(b, a) {
			return 1
		}
		return 0
	}
}
