// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/concurrentavl/fault"
)

// what a mutation wants to do with a key
type request struct {
	key         interface{}
	construct   func(old interface{}, exists bool) (interface{}, error)
	owned       bool // constructed values belong to the tree until attached
	allowInsert bool
	allowUpdate bool
}

func constant(value interface{}) func(interface{}, bool) (interface{}, error) {
	return func(interface{}, bool) (interface{}, error) {
		return value, nil
	}
}

// Insert - add a key that is not already present
//
// returns false if the key already has a value, which is left as is
func (tree *Tree) Insert(key interface{}, value interface{}) (bool, error) {
	r := request{
		key:         key,
		construct:   constant(value),
		allowInsert: true,
	}
	o, err := tree.update(&r)
	return inserted == o, err
}

// InsertWith - add a key whose value is built by construct
//
// construct is only called when the key is absent; with relaxed
// insertion it may be called more than once and the values from lost
// races are disposed
//
// construct must not call back into the tree, under strict insertion
// it runs with the parent node locked
func (tree *Tree) InsertWith(key interface{}, construct func() (interface{}, error)) (bool, error) {
	r := request{
		key: key,
		construct: func(interface{}, bool) (interface{}, error) {
			return construct()
		},
		owned:       true,
		allowInsert: true,
	}
	o, err := tree.update(&r)
	return inserted == o, err
}

// Update - insert or replace the value for a key
//
// returns true if the key was inserted, false if a value was replaced
func (tree *Tree) Update(key interface{}, value interface{}) (bool, error) {
	r := request{
		key:         key,
		construct:   constant(value),
		allowInsert: true,
		allowUpdate: true,
	}
	o, err := tree.update(&r)
	return inserted == o, err
}

// UpdateWith - set the value for a key from a function of its old value
//
// f receives the current value and true, or nil and false for an
// absent key; a missing key is only inserted if allowInsert is set,
// otherwise fault.ErrKeyNotFound is returned
//
// f may run with a node locked and must not call back into the tree
func (tree *Tree) UpdateWith(key interface{}, f func(old interface{}, exists bool) (interface{}, error), allowInsert bool) (bool, error) {
	r := request{
		key:         key,
		construct:   f,
		owned:       true,
		allowInsert: allowInsert,
		allowUpdate: true,
	}
	o, err := tree.update(&r)
	if absent == o {
		return false, fault.ErrKeyNotFound
	}
	return inserted == o, err
}

func (tree *Tree) update(r *request) (outcome, error) {
	g := tree.reclaim.Enter()
	defer tree.reclaim.Exit(g)

	for {
		v := tree.root.version.Load()
		o, err := tree.attemptUpdate(r, tree.root, 1, v)
		if retry != o {
			return o, err
		}
		tree.stat.Event(UpdateRetry)
	}
}

// descend from node, valid at nodeVersion, in direction dir
func (tree *Tree) attemptUpdate(r *request, node *Node, dir int, nodeVersion uint64) (outcome, error) {
	for {
		child := node.child(dir)
		if !node.validate(nodeVersion) {
			return retry, nil
		}

		if nil == child {
			if !r.allowInsert {
				return absent, nil
			}
			o, err := tree.attemptInsert(r, node, dir, nodeVersion)
			if occupied != o {
				return o, err
			}
			tree.stat.Event(InsertRetry)
			continue
		}

		childDir := tree.compare(r.key, child.key)
		if 0 == childDir {
			o, err := tree.attemptNodeUpdate(r, child)
			if retry != o {
				return o, err
			}
			// child was unlinked so node changed, revalidated above
			continue
		}

		childVersion := child.version.Load()
		if isShrinkingOrUnlinked(childVersion) {
			if node.holder {
				tree.stat.Event(UpdateRootWaitShrinking)
			} else {
				tree.stat.Event(UpdateWaitShrinking)
			}
			tree.waitUntilShrinkCompleted(child)
			continue
		}

		if child != node.child(dir) {
			continue
		}
		if !node.validate(nodeVersion) {
			return retry, nil
		}

		o, err := tree.attemptUpdate(r, child, childDir, childVersion)
		if retry != o {
			return o, err
		}
	}
}

// attach a new leaf below node
func (tree *Tree) attemptInsert(r *request, node *Node, dir int, nodeVersion uint64) (outcome, error) {

	var fresh *Node
	if tree.relaxed {
		n, err := tree.newLeaf(r, node)
		if nil != err {
			return failed, err
		}
		fresh = n
	}

	node.lock.Lock()
	if !node.validate(nodeVersion) {
		node.lock.Unlock()
		tree.discard(r, fresh)
		return retry, nil
	}
	if nil != node.child(dir) {
		node.lock.Unlock()
		tree.discard(r, fresh)
		return occupied, nil
	}

	if nil == fresh {
		n, err := tree.newLeaf(r, node)
		if nil != err {
			node.lock.Unlock()
			return failed, err
		}
		fresh = n
	}

	node.setChild(dir, fresh)
	node.bump()
	damaged := tree.fixHeightLocked(node)
	node.lock.Unlock()

	tree.items.Increment()
	tree.stat.Event(InsertSuccess)
	tree.fixHeightAndRebalance(damaged)
	return inserted, nil
}

// the key is present as node, which may be a routing node
func (tree *Tree) attemptNodeUpdate(r *request, node *Node) (outcome, error) {

	// answers that need no change are linearised at this read
	current := node.value.Load()
	if nil == current && !r.allowInsert {
		return absent, nil
	}
	if nil != current && !r.allowUpdate {
		return found, nil
	}

	node.lock.Lock()
	if isUnlinked(node.version.Load()) {
		node.lock.Unlock()
		tree.stat.Event(UpdateUnlinked)
		return retry, nil
	}

	old := node.value.Load()
	if nil == old {
		if !r.allowInsert {
			node.lock.Unlock()
			return absent, nil
		}
		value, err := r.construct(nil, false)
		if nil != err {
			node.lock.Unlock()
			return failed, err
		}
		node.value.Store(tree.values.store(value))
		node.lock.Unlock()

		tree.items.Increment()
		tree.stat.Event(InsertSuccess)
		return inserted, nil
	}

	if !r.allowUpdate {
		node.lock.Unlock()
		return found, nil
	}
	value, err := r.construct(tree.values.retrieve(old), true)
	if nil != err {
		node.lock.Unlock()
		return failed, err
	}
	node.value.Store(tree.values.store(value))
	node.lock.Unlock()

	tree.retireValue(old)
	tree.stat.Event(UpdateSuccess)
	return updated, nil
}

// allocate and fill a leaf that is not yet visible to anyone
func (tree *Tree) newLeaf(r *request, parent *Node) (*Node, error) {
	n, err := tree.allocator.Allocate()
	if nil != err {
		return nil, err
	}
	value, err := r.construct(nil, false)
	if nil != err {
		tree.allocator.Free(n)
		return nil, err
	}
	n.init(r.key, parent, tree.newLock)
	n.value.Store(tree.values.store(value))
	return n, nil
}

// drop a leaf built for a relaxed insertion that lost its race
//
// the leaf was never published so it can be released at once
func (tree *Tree) discard(r *request, n *Node) {
	if nil == n {
		return
	}
	tree.stat.Event(RelaxedInsertFailed)
	if r.owned && nil != tree.values.Dispose {
		if s := n.value.Load(); nil != s {
			tree.disposeValue(s.value)
		}
	}
	tree.allocator.Free(n)
}
