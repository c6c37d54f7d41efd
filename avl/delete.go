// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Erase - remove a key, returning the value it had
func (tree *Tree) Erase(key interface{}) (interface{}, bool) {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	s := tree.erase(key)
	if nil == s {
		return nil, false
	}
	return tree.values.retrieve(s), true
}

// EraseWith - remove a key and call f with the value it had
//
// f runs before the reclamation guard is released so the value cannot
// have been disposed yet
//
// as with FindWith, f must not call back into the tree
func (tree *Tree) EraseWith(key interface{}, f func(key interface{}, value interface{})) bool {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	s := tree.erase(key)
	if nil == s {
		return false
	}
	f(key, tree.values.retrieve(s))
	return true
}

func (tree *Tree) erase(key interface{}) *slot {
	for {
		v := tree.root.version.Load()
		s, o := tree.attemptErase(key, tree.root, 1, v)
		switch o {
		case removed:
			tree.stat.Event(EraseSuccess)
			return s
		case absent:
			tree.stat.Event(EraseFailed)
			return nil
		}
		tree.stat.Event(EraseRetry)
	}
}

// descend from node, valid at nodeVersion, in direction dir
func (tree *Tree) attemptErase(key interface{}, node *Node, dir int, nodeVersion uint64) (*slot, outcome) {
	for {
		child := node.child(dir)
		if !node.validate(nodeVersion) {
			return nil, retry
		}
		if nil == child {
			return nil, absent
		}

		childDir := tree.compare(key, child.key)
		if 0 == childDir {
			s, o := tree.attemptNodeErase(node, child)
			if retry != o {
				return s, o
			}
			continue
		}

		childVersion := child.version.Load()
		if isShrinkingOrUnlinked(childVersion) {
			tree.stat.Event(UpdateWaitShrinking)
			tree.waitUntilShrinkCompleted(child)
			continue
		}

		if child != node.child(dir) {
			continue
		}
		if !node.validate(nodeVersion) {
			return nil, retry
		}

		s, o := tree.attemptErase(key, child, childDir, childVersion)
		if retry != o {
			return s, o
		}
	}
}

// remove the value of node, a child of parent
//
// a node with at most one child is spliced out, otherwise it becomes
// a routing node
func (tree *Tree) attemptNodeErase(parent *Node, node *Node) (*slot, outcome) {

	// a routing node is a key that is already absent
	if nil == node.value.Load() {
		return nil, absent
	}

	if nil == node.left.Load() || nil == node.right.Load() {
		parent.lock.Lock()
		if isUnlinked(parent.version.Load()) || node.parent.Load() != parent {
			parent.lock.Unlock()
			return nil, retry
		}

		node.lock.Lock()
		if isUnlinked(node.version.Load()) {
			node.lock.Unlock()
			parent.lock.Unlock()
			return nil, absent
		}
		old := node.value.Load()
		if nil == old {
			node.lock.Unlock()
			parent.lock.Unlock()
			return nil, absent
		}
		if !tree.attemptUnlink(parent, node) {
			// it gained a second child, try again as a routing node
			node.lock.Unlock()
			parent.lock.Unlock()
			return nil, retry
		}
		node.lock.Unlock()
		damaged := tree.fixHeightLocked(parent)
		parent.lock.Unlock()

		tree.items.Decrement()
		tree.retireNode(node)
		tree.retireValue(old)
		tree.fixHeightAndRebalance(damaged)
		return old, removed
	}

	node.lock.Lock()
	if isUnlinked(node.version.Load()) {
		node.lock.Unlock()
		return nil, absent
	}
	old := node.value.Load()
	if nil == old {
		node.lock.Unlock()
		return nil, absent
	}
	if nil == node.left.Load() || nil == node.right.Load() {
		// lost a child meanwhile, it can now be spliced out
		node.lock.Unlock()
		return nil, retry
	}
	node.value.Store(nil)
	node.lock.Unlock()

	tree.items.Decrement()
	tree.retireValue(old)
	return old, removed
}
