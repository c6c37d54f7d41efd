// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// version word layout: two flag bits below a change counter
const (
	shrinking    uint64 = 1 << 0
	unlinked     uint64 = 1 << 1
	versionFlags        = shrinking | unlinked
)

func isShrinking(v uint64) bool {
	return 0 != v&shrinking
}

func isUnlinked(v uint64) bool {
	return 0 != v&unlinked
}

func isShrinkingOrUnlinked(v uint64) bool {
	return 0 != v&versionFlags
}

// the following are only called with the node locked

// mark the start of a rotation that moves this node down
func (n *Node) beginChange(v uint64) {
	n.version.Store(v | shrinking)
}

// finish a rotation, clears shrinking and advances the counter
func (n *Node) endChange(v uint64) {
	n.version.Store((v | versionFlags) + 1)
}

// advance the counter after a child link or height change
func (n *Node) bump() {
	v := n.version.Load()
	if isUnlinked(v) {
		return
	}
	n.version.Store((v | versionFlags) + 1)
}

// permanently retire the node from the tree
func (n *Node) markUnlinked() {
	v := n.version.Load()
	n.version.Store(((v | versionFlags) + 1) | unlinked)
}

// true if the snapshot is still current and the node still in the tree
func (n *Node) validate(snapshot uint64) bool {
	return !isUnlinked(snapshot) && n.version.Load() == snapshot
}

// wait for a concurrent rotation of this node to complete
func (tree *Tree) waitUntilShrinkCompleted(n *Node) {
	for i := 0; isShrinking(n.version.Load()); i += 1 {
		tree.backOff.Pause(i)
	}
}
