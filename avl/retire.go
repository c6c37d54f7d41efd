// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// called without any node locks held

// hand an unlinked node to the reclamation policy
func (tree *Tree) retireNode(n *Node) {
	tree.reclaim.Retire(n, tree.freeNode)
}

func (tree *Tree) retireNodes(nodes []*Node) {
	for _, n := range nodes {
		tree.reclaim.Retire(n, tree.freeNode)
	}
}

// hand a replaced or removed value to the reclamation policy
func (tree *Tree) retireValue(s *slot) {
	if nil == tree.values.Dispose {
		return
	}
	tree.reclaim.Retire(s.value, tree.disposeValue)
}
