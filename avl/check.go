// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"fmt"
)

// the checks below are only meaningful when no writer is active

// CheckUp - check the parent pointers for consistency
func (tree *Tree) CheckUp() bool {
	return tree.checkUp(tree.root.right.Load(), tree.root)
}

func (tree *Tree) checkUp(p *Node, up *Node) bool {
	if nil == p {
		return true
	}
	if p.parent.Load() != up {
		tree.report("parent fail at node: %v  expected parent: %v", p.key, up.key)
		return false
	}
	if !tree.checkUp(p.left.Load(), p) {
		return false
	}
	return tree.checkUp(p.right.Load(), p)
}

// CheckBalance - check stored heights, the AVL balance condition,
// the version flags and that routing nodes have two children
func (tree *Tree) CheckBalance() bool {
	_, ok := tree.checkBalance(tree.root.right.Load())
	return ok
}

func (tree *Tree) checkBalance(p *Node) (int32, bool) {
	if nil == p {
		return 0, true
	}
	hL, ok := tree.checkBalance(p.left.Load())
	if !ok {
		return 0, false
	}
	hR, ok := tree.checkBalance(p.right.Load())
	if !ok {
		return 0, false
	}

	h := 1 + max32(hL, hR)
	if h != p.height.Load() {
		tree.report("height fail at node: %v  stored: %d  actual: %d", p.key, p.height.Load(), h)
		return 0, false
	}
	if hL-hR > 1 || hR-hL > 1 {
		tree.report("balance fail at node: %v  left: %d  right: %d", p.key, hL, hR)
		return 0, false
	}
	if v := p.version.Load(); isShrinkingOrUnlinked(v) {
		tree.report("version fail at node: %v  version: %#x", p.key, v)
		return 0, false
	}
	if p.IsRouting() && (nil == p.left.Load() || nil == p.right.Load()) {
		tree.report("routing node: %v  has fewer than two children", p.key)
		return 0, false
	}
	return h, true
}

// CheckOrder - check that an in-order walk yields strictly increasing keys
func (tree *Tree) CheckOrder() bool {
	ok := true
	var previous *Node
	walk(tree.root.right.Load(), func(p *Node) bool {
		if nil != previous && tree.compare(previous.key, p.key) >= 0 {
			tree.report("order fail: %v  is not before: %v", previous.key, p.key)
			ok = false
			return false
		}
		previous = p
		return true
	})
	return ok
}

// Height - height of the tree, zero when empty
func (tree *Tree) Height() int {
	return int(height(tree.root.right.Load()))
}

// Keys - the keys that have values, in order
func (tree *Tree) Keys() []interface{} {
	keys := []interface{}{}
	walk(tree.root.right.Load(), func(p *Node) bool {
		if !p.IsRouting() {
			keys = append(keys, p.key)
		}
		return true
	})
	return keys
}

// in-order traversal, stops when f returns false
func walk(p *Node, f func(*Node) bool) bool {
	if nil == p {
		return true
	}
	if !walk(p.left.Load(), f) {
		return false
	}
	if !f(p) {
		return false
	}
	return walk(p.right.Load(), f)
}

// internal: report a failed check
func (tree *Tree) report(format string, arguments ...interface{}) {
	if nil != tree.log {
		tree.log.Errorf(format, arguments...)
		return
	}
	fmt.Printf(format+"\n", arguments...)
}
