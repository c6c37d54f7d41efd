// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/concurrentavl/lock"
)

// holder for a value, a nil slot marks a routing node
type slot struct {
	value interface{}
}

// Node - a node in the tree
//
// the key never changes while the node is reachable, every other
// field is read without locks and written only with the node locked
type Node struct {
	key     interface{}
	value   atomic.Pointer[slot]
	height  atomic.Int32
	version atomic.Uint64
	parent  atomic.Pointer[Node]
	left    atomic.Pointer[Node]
	right   atomic.Pointer[Node]
	lock    sync.Locker

	holder   bool  // the key-less node above the root
	nextFree *Node // pool allocator free list
}

// prepare an allocated node as a new leaf
func (n *Node) init(key interface{}, parent *Node, newLock lock.Factory) {
	n.key = key
	n.value.Store(nil)
	n.height.Store(1)
	n.version.Store(0)
	n.parent.Store(parent)
	n.left.Store(nil)
	n.right.Store(nil)
	n.nextFree = nil
	if nil == n.lock {
		n.lock = newLock()
	}
}

// clear all references so a pooled node does not keep keys or
// values alive
func (n *Node) reset() {
	n.key = nil
	n.value.Store(nil)
	n.height.Store(0)
	n.parent.Store(nil)
	n.left.Store(nil)
	n.right.Store(nil)
}

// child in direction: negative for left, positive for right
func (n *Node) child(dir int) *Node {
	if dir < 0 {
		return n.left.Load()
	}
	return n.right.Load()
}

func (n *Node) setChild(dir int, c *Node) {
	if dir < 0 {
		n.left.Store(c)
	} else {
		n.right.Store(c)
	}
}

// height of a possibly empty sub-tree
func height(n *Node) int32 {
	if nil == n {
		return 0
	}
	return n.height.Load()
}

func max32(a int32, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Key - read the key from a node item
func (n *Node) Key() interface{} {
	return n.key
}

// Value - read the value from a node item, false for a routing node
func (n *Node) Value() (interface{}, bool) {
	s := n.value.Load()
	if nil == s {
		return nil, false
	}
	return s.value, true
}

// IsRouting - true if the node only remains to direct searches
func (n *Node) IsRouting() bool {
	return nil == n.value.Load()
}

// Height - height of the sub-tree rooted at this node
func (n *Node) Height() int {
	return int(n.height.Load())
}

// Parent - return parent node of a node, nil at the root
func (n *Node) Parent() *Node {
	p := n.parent.Load()
	if nil == p || p.holder {
		return nil
	}
	return p
}

// Left - left sub-tree
func (n *Node) Left() *Node {
	return n.left.Load()
}

// Right - right sub-tree
func (n *Node) Right() *Node {
	return n.right.Load()
}

// Depth - get the depth of a node
func (n *Node) Depth() uint {
	count := uint(0)
	for p := n.Parent(); nil != p; p = p.Parent() {
		count += 1
	}
	return count
}
