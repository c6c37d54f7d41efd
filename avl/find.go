// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// result of one optimistic attempt
type outcome int

const (
	retry     outcome = iota // version changed above, caller must revalidate
	found                    // key present
	absent                   // key not present
	inserted                 // new key added
	updated                  // existing value replaced
	removed                  // key erased
	failed                   // constructor or allocator error
	occupied                 // insertion point filled concurrently
)

// Find - return the value stored for a key
func (tree *Tree) Find(key interface{}) (interface{}, bool) {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	s := tree.find(key)
	if nil == s {
		return nil, false
	}
	return tree.values.retrieve(s), true
}

// FindWith - call f with the key and value if the key is present
//
// f runs before the reclamation guard is released, so a value that is
// concurrently replaced is not disposed while f is using it
//
// f must not call back into the tree: a reclamation policy with a
// fixed number of reader slots can deadlock when every slot is held by
// a callback waiting for another one
func (tree *Tree) FindWith(key interface{}, f func(key interface{}, value interface{})) bool {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	s := tree.find(key)
	if nil == s {
		return false
	}
	f(key, tree.values.retrieve(s))
	return true
}

// Contains - true if the key is present
func (tree *Tree) Contains(key interface{}) bool {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	return nil != tree.find(key)
}

func (tree *Tree) find(key interface{}) *slot {
	for {
		// the holder never shrinks and is never unlinked, every key
		// is to its right
		v := tree.root.version.Load()
		s, o := tree.attemptFind(key, tree.root, 1, v)
		switch o {
		case found:
			tree.stat.Event(FindSuccess)
			return s
		case absent:
			tree.stat.Event(FindFailed)
			return nil
		}
		tree.stat.Event(FindRetry)
	}
}

// search below node in direction dir, node was valid at nodeVersion
//
// returns retry if node changed, the caller must then revalidate its
// own snapshot before trying again
func (tree *Tree) attemptFind(key interface{}, node *Node, dir int, nodeVersion uint64) (*slot, outcome) {
	for {
		child := node.child(dir)
		if nil == child {
			if !node.validate(nodeVersion) {
				return nil, retry
			}
			return nil, absent
		}

		childDir := tree.compare(key, child.key)
		if 0 == childDir {
			s := child.value.Load()
			if nil == s {
				return nil, absent
			}
			return s, found
		}

		childVersion := child.version.Load()
		if isShrinkingOrUnlinked(childVersion) {
			tree.stat.Event(FindWaitShrinking)
			tree.waitUntilShrinkCompleted(child)
			if !node.validate(nodeVersion) {
				return nil, retry
			}
			// still valid, read the link again
			continue
		}

		if child != node.child(dir) {
			if !node.validate(nodeVersion) {
				return nil, retry
			}
			continue
		}

		if !node.validate(nodeVersion) {
			return nil, retry
		}

		s, o := tree.attemptFind(key, child, childDir, childVersion)
		if retry != o {
			return s, o
		}
		// child changed, node is still the right place to continue
	}
}
