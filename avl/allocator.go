// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"sync"

	"github.com/bitmark-inc/concurrentavl/fault"
)

// Allocator - source of tree nodes
//
// Free is only called for nodes that no reader can reach, i.e. after
// the grace period of the tree's reclamation policy
type Allocator interface {
	Allocate() (*Node, error)
	Free(*Node)
}

// HeapAllocator - allocate every node from the heap and leave
// unreachable nodes to the garbage collector
type HeapAllocator struct{}

// Allocate - a fresh node
func (HeapAllocator) Allocate() (*Node, error) {
	return new(Node), nil
}

// Free - nothing to do
func (HeapAllocator) Free(*Node) {}

// PoolAllocator - reuses reclaimed nodes, optionally limited in size
//
// reclaimed nodes keep their lock, so a pool should only be shared by
// trees using the same lock factory
type PoolAllocator struct {
	sync.Mutex
	pool       *Node // linked list of reclaimed nodes
	limit      int   // maximum nodes created, zero for no limit
	totalNodes int   // total nodes created
	freeNodes  int   // number of nodes in the pool
}

// NewPoolAllocator - create a pool that creates at most limit nodes
func NewPoolAllocator(limit int) *PoolAllocator {
	return &PoolAllocator{
		limit: limit,
	}
}

// Allocate - a new node, reuses reclaimed nodes if any are available
func (a *PoolAllocator) Allocate() (*Node, error) {
	a.Lock()
	defer a.Unlock()

	if nil == a.pool {
		if 0 != a.freeNodes {
			fault.Panicf("node pool corrupt: free count: %d", a.freeNodes)
		}
		if 0 != a.limit && a.totalNodes >= a.limit {
			return nil, fault.ErrAllocatorExhausted
		}
		a.totalNodes += 1
		return new(Node), nil
	}

	n := a.pool
	a.pool = n.nextFree
	n.nextFree = nil // ensure freelist pointer is cleared
	a.freeNodes -= 1
	return n, nil
}

// Free - reclaim a node and keep it in the pool
func (a *PoolAllocator) Free(n *Node) {
	n.reset()

	a.Lock()
	n.nextFree = a.pool // use as free list pointer
	a.pool = n
	a.freeNodes += 1
	a.Unlock()
}

// Counts - nodes created and nodes currently in the pool
func (a *PoolAllocator) Counts() (total int, free int) {
	a.Lock()
	defer a.Unlock()
	return a.totalNodes, a.freeNodes
}
