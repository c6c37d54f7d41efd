// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// special results of nodeCondition, any other value is the height
// the node should have
const (
	unlinkRequired    int32 = -1
	rebalanceRequired int32 = -2
	nothingRequired   int32 = -3
)

// repair that a node needs, computed without locks
func nodeCondition(n *Node) int32 {
	nL := n.left.Load()
	nR := n.right.Load()

	if (nil == nL || nil == nR) && nil == n.value.Load() {
		return unlinkRequired
	}

	hN := n.height.Load()
	hL0 := height(nL)
	hR0 := height(nR)

	hNRepl := 1 + max32(hL0, hR0)
	bal := hL0 - hR0

	if bal < -1 || bal > 1 {
		return rebalanceRequired
	}
	if hN != hNRepl {
		return hNRepl
	}
	return nothingRequired
}

// walk towards the root repairing heights, balance and routing nodes
// until nothing more is needed
func (tree *Tree) fixHeightAndRebalance(node *Node) {
	var unlinkedNodes []*Node

	for nil != node && !node.holder {
		condition := nodeCondition(node)
		if nothingRequired == condition || isUnlinked(node.version.Load()) {
			break
		}

		if unlinkRequired != condition && rebalanceRequired != condition {
			n := node
			n.lock.Lock()
			node = tree.fixHeightLocked(n)
			n.lock.Unlock()
			continue
		}

		n := node
		before := n.version.Load()
		nParent := n.parent.Load()
		nParent.lock.Lock()
		if !isUnlinked(nParent.version.Load()) && n.parent.Load() == nParent {
			n.lock.Lock()
			node = tree.rebalanceLocked(nParent, n, &unlinkedNodes)
			n.lock.Unlock()
		}
		nParent.lock.Unlock()

		// a repair below n can leave n itself still needing work
		if revisit(n, before, node) {
			node = n
		}

		if 0 != len(unlinkedNodes) {
			tree.retireNodes(unlinkedNodes)
			unlinkedNodes = unlinkedNodes[:0]
		}
	}
}

// true if n changed since before, still needs a repair and the walk
// would otherwise stop at next
func revisit(n *Node, before uint64, next *Node) bool {
	if next == n {
		return false
	}
	v := n.version.Load()
	if v == before || isUnlinked(v) {
		return false
	}
	if nil != next && nothingRequired != nodeCondition(next) {
		return false
	}
	return nothingRequired != nodeCondition(n)
}

// update the height of a locked node
//
// returns the next node needing attention: the parent after a height
// change, the node itself if it needs a rotation or unlink, or nil
func (tree *Tree) fixHeightLocked(n *Node) *Node {
	if n.holder || isUnlinked(n.version.Load()) {
		return nil
	}

	c := nodeCondition(n)
	switch c {
	case rebalanceRequired, unlinkRequired:
		return n
	case nothingRequired:
		return nil
	}

	n.height.Store(c)
	n.bump()
	return n.parent.Load()
}

// nParent and n are locked and n is a child of nParent
func (tree *Tree) rebalanceLocked(nParent *Node, n *Node, unlinkedNodes *[]*Node) *Node {
	if isUnlinked(n.version.Load()) {
		tree.stat.Event(RebalanceUnlinked)
		return nil
	}

	nL := n.left.Load()
	nR := n.right.Load()

	if (nil == nL || nil == nR) && nil == n.value.Load() {
		if tree.attemptUnlink(nParent, n) {
			*unlinkedNodes = append(*unlinkedNodes, n)
			tree.stat.Event(RemoveRoutingNode)
			return tree.fixHeightLocked(nParent)
		}
		return n
	}

	hN := n.height.Load()
	hL0 := height(nL)
	hR0 := height(nR)
	hNRepl := 1 + max32(hL0, hR0)
	bal := hL0 - hR0

	if bal > 1 {
		return tree.rebalanceToRight(nParent, n, nL, hR0, unlinkedNodes)
	}
	if bal < -1 {
		return tree.rebalanceToLeft(nParent, n, nR, hL0, unlinkedNodes)
	}
	if hNRepl != hN {
		n.height.Store(hNRepl)
		n.bump()
		return tree.fixHeightLocked(nParent)
	}
	return nil
}

// splice a node with at most one child out of the tree
//
// both nodes are locked; returns false if n is no longer a child of
// parent or now has two children
func (tree *Tree) attemptUnlink(parent *Node, n *Node) bool {
	parentL := parent.left.Load()
	parentR := parent.right.Load()
	if parentL != n && parentR != n {
		return false
	}

	nL := n.left.Load()
	nR := n.right.Load()
	if nil != nL && nil != nR {
		return false
	}

	splice := nL
	if nil == splice {
		splice = nR
	}

	if parentL == n {
		parent.left.Store(splice)
	} else {
		parent.right.Store(splice)
	}
	if nil != splice {
		splice.parent.Store(parent)
	}

	n.value.Store(nil)
	n.markUnlinked()
	parent.bump()
	return true
}

// the left side of n is too high
func (tree *Tree) rebalanceToRight(nParent *Node, n *Node, nL *Node, hR0 int32, unlinkedNodes *[]*Node) *Node {
	nL.lock.Lock()
	defer nL.lock.Unlock()

	hL := nL.height.Load()
	if hL-hR0 <= 1 {
		// changed meanwhile, let the caller look again
		return n
	}

	nLR := nL.right.Load()
	hLL0 := height(nL.left.Load())
	hLR0 := height(nLR)
	if hLL0 >= hLR0 {
		return tree.rotateRight(nParent, n, nL, hR0, hLL0, nLR, hLR0)
	}

	nLR.lock.Lock()
	hLR := nLR.height.Load()
	if hLL0 >= hLR {
		next := tree.rotateRight(nParent, n, nL, hR0, hLL0, nLR, hLR)
		nLR.lock.Unlock()
		return next
	}

	// a routing nL left with a single child is spliced by the rotation
	hLRL := height(nLR.left.Load())
	b := hLL0 - hLRL
	if b >= -1 && b <= 1 {
		next := tree.rotateRightOverLeft(nParent, n, nL, hR0, hLL0, nLR, hLRL, unlinkedNodes)
		nLR.lock.Unlock()
		return next
	}
	nLR.lock.Unlock()

	// a double rotation would leave nL unbalanced, rotate it first
	return tree.rebalanceToLeft(n, nL, nLR, hLL0, unlinkedNodes)
}

// the right side of n is too high
func (tree *Tree) rebalanceToLeft(nParent *Node, n *Node, nR *Node, hL0 int32, unlinkedNodes *[]*Node) *Node {
	nR.lock.Lock()
	defer nR.lock.Unlock()

	hR := nR.height.Load()
	if hL0-hR >= -1 {
		return n
	}

	nRL := nR.left.Load()
	hRL0 := height(nRL)
	hRR0 := height(nR.right.Load())
	if hRR0 >= hRL0 {
		return tree.rotateLeft(nParent, n, hL0, nR, nRL, hRL0, hRR0)
	}

	nRL.lock.Lock()
	hRL := nRL.height.Load()
	if hRR0 >= hRL {
		next := tree.rotateLeft(nParent, n, hL0, nR, nRL, hRL, hRR0)
		nRL.lock.Unlock()
		return next
	}

	hRLR := height(nRL.right.Load())
	b := hRR0 - hRLR
	if b >= -1 && b <= 1 {
		next := tree.rotateLeftOverRight(nParent, n, hL0, nR, nRL, hRR0, hRLR, unlinkedNodes)
		nRL.lock.Unlock()
		return next
	}
	nRL.lock.Unlock()

	return tree.rebalanceToRight(n, nR, nRL, hRR0, unlinkedNodes)
}

// remove a routing node that a double rotation left with a single
// child; parent and n are locked
func (tree *Tree) spliceRouting(parent *Node, n *Node, unlinkedNodes *[]*Node) bool {
	if nil != n.value.Load() {
		return false
	}
	if nil != n.left.Load() && nil != n.right.Load() {
		return false
	}
	if !tree.attemptUnlink(parent, n) {
		return false
	}
	*unlinkedNodes = append(*unlinkedNodes, n)
	tree.stat.Event(RemoveRoutingNode)
	return true
}

// point the link from nParent that held n at a former descendant
func replaceChild(nParent *Node, n *Node, nPL *Node, replacement *Node) {
	if nPL == n {
		nParent.left.Store(replacement)
	} else {
		nParent.right.Store(replacement)
	}
	replacement.parent.Store(nParent)
}

//          n               nL
//         / \             /  \
//       nL   R    =>    LL    n
//      /  \                  / \
//    LL   nLR              nLR  R
//
// nParent, n and nL are locked
func (tree *Tree) rotateRight(nParent *Node, n *Node, nL *Node, hR int32, hLL int32, nLR *Node, hLR int32) *Node {
	nodeVersion := n.version.Load()
	nPL := nParent.left.Load()

	n.beginChange(nodeVersion)

	// links down from the shrinking node change first
	n.left.Store(nLR)
	if nil != nLR {
		nLR.parent.Store(n)
	}
	nL.right.Store(n)
	n.parent.Store(nL)
	replaceChild(nParent, n, nPL, nL)

	hNRepl := 1 + max32(hLR, hR)
	n.height.Store(hNRepl)
	nL.height.Store(1 + max32(hLL, hNRepl))

	nL.bump()
	nParent.bump()
	n.endChange(nodeVersion)

	tree.stat.Event(RotateRight)

	// damage that may remain, nearest first
	balN := hLR - hR
	if balN < -1 || balN > 1 {
		return n
	}
	if (nil == nLR || 0 == hR) && nil == n.value.Load() {
		return n
	}
	balL := hLL - hNRepl
	if balL < -1 || balL > 1 {
		return nL
	}
	if 0 == hLL && nil == nL.value.Load() {
		return nL
	}
	return tree.fixHeightLocked(nParent)
}

// mirror of rotateRight
func (tree *Tree) rotateLeft(nParent *Node, n *Node, hL int32, nR *Node, nRL *Node, hRL int32, hRR int32) *Node {
	nodeVersion := n.version.Load()
	nPL := nParent.left.Load()

	n.beginChange(nodeVersion)

	n.right.Store(nRL)
	if nil != nRL {
		nRL.parent.Store(n)
	}
	nR.left.Store(n)
	n.parent.Store(nR)
	replaceChild(nParent, n, nPL, nR)

	hNRepl := 1 + max32(hL, hRL)
	n.height.Store(hNRepl)
	nR.height.Store(1 + max32(hNRepl, hRR))

	nR.bump()
	nParent.bump()
	n.endChange(nodeVersion)

	tree.stat.Event(RotateLeft)

	balN := hRL - hL
	if balN < -1 || balN > 1 {
		return n
	}
	if (nil == nRL || 0 == hL) && nil == n.value.Load() {
		return n
	}
	balR := hRR - hNRepl
	if balR < -1 || balR > 1 {
		return nR
	}
	if 0 == hRR && nil == nR.value.Load() {
		return nR
	}
	return tree.fixHeightLocked(nParent)
}

//            n                 nLR
//           / \               /   \
//         nL   R            nL     n
//        /  \       =>     /  \   / \
//      LL   nLR          LL  LRL LRR R
//           /  \
//         LRL  LRR
//
// nParent, n, nL and nLR are locked
func (tree *Tree) rotateRightOverLeft(nParent *Node, n *Node, nL *Node, hR int32, hLL int32, nLR *Node, hLRL int32, unlinkedNodes *[]*Node) *Node {
	nodeVersion := n.version.Load()
	leftVersion := nL.version.Load()

	nPL := nParent.left.Load()
	nLRL := nLR.left.Load()
	nLRR := nLR.right.Load()
	hLRR := height(nLRR)

	n.beginChange(nodeVersion)
	nL.beginChange(leftVersion)

	n.left.Store(nLRR)
	if nil != nLRR {
		nLRR.parent.Store(n)
	}
	nL.right.Store(nLRL)
	if nil != nLRL {
		nLRL.parent.Store(nL)
	}

	nLR.left.Store(nL)
	nL.parent.Store(nLR)
	nLR.right.Store(n)
	n.parent.Store(nLR)
	replaceChild(nParent, n, nPL, nLR)

	hNRepl := 1 + max32(hLRR, hR)
	n.height.Store(hNRepl)
	hLRepl := 1 + max32(hLL, hLRL)
	nL.height.Store(hLRepl)
	nLR.height.Store(1 + max32(hLRepl, hNRepl))

	nLR.bump()
	nParent.bump()
	nL.endChange(leftVersion)
	n.endChange(nodeVersion)

	tree.stat.Event(RotateRightOverLeft)

	if tree.spliceRouting(nLR, nL, unlinkedNodes) {
		hLRepl = height(nLR.left.Load())
		nLR.height.Store(1 + max32(hLRepl, hNRepl))
	}

	balN := hLRR - hR
	if balN < -1 || balN > 1 {
		return n
	}
	if (nil == nLRR || 0 == hR) && nil == n.value.Load() {
		return n
	}
	balLR := hLRepl - hNRepl
	if balLR < -1 || balLR > 1 {
		return nLR
	}
	if 0 == hLRepl && nil == nLR.value.Load() {
		return nLR
	}
	return tree.fixHeightLocked(nParent)
}

// mirror of rotateRightOverLeft
func (tree *Tree) rotateLeftOverRight(nParent *Node, n *Node, hL int32, nR *Node, nRL *Node, hRR int32, hRLR int32, unlinkedNodes *[]*Node) *Node {
	nodeVersion := n.version.Load()
	rightVersion := nR.version.Load()

	nPL := nParent.left.Load()
	nRLL := nRL.left.Load()
	nRLR := nRL.right.Load()
	hRLL := height(nRLL)

	n.beginChange(nodeVersion)
	nR.beginChange(rightVersion)

	n.right.Store(nRLL)
	if nil != nRLL {
		nRLL.parent.Store(n)
	}
	nR.left.Store(nRLR)
	if nil != nRLR {
		nRLR.parent.Store(nR)
	}

	nRL.right.Store(nR)
	nR.parent.Store(nRL)
	nRL.left.Store(n)
	n.parent.Store(nRL)
	replaceChild(nParent, n, nPL, nRL)

	hNRepl := 1 + max32(hL, hRLL)
	n.height.Store(hNRepl)
	hRRepl := 1 + max32(hRLR, hRR)
	nR.height.Store(hRRepl)
	nRL.height.Store(1 + max32(hNRepl, hRRepl))

	nRL.bump()
	nParent.bump()
	nR.endChange(rightVersion)
	n.endChange(nodeVersion)

	tree.stat.Event(RotateLeftOverRight)

	if tree.spliceRouting(nRL, nR, unlinkedNodes) {
		hRRepl = height(nRL.right.Load())
		nRL.height.Store(1 + max32(hNRepl, hRRepl))
	}

	balN := hRLL - hL
	if balN < -1 || balN > 1 {
		return n
	}
	if (nil == nRLL || 0 == hL) && nil == n.value.Load() {
		return n
	}
	balRL := hRRepl - hNRepl
	if balRL < -1 || balRL > 1 {
		return nRL
	}
	if 0 == hRRepl && nil == nRL.value.Load() {
		return nRL
	}
	return tree.fixHeightLocked(nParent)
}
