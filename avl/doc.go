// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package avl - a concurrent AVL balanced tree
//
// Readers never lock: they descend using per-node version numbers
// and restart locally when a concurrent writer changed the part of the
// tree they were looking at.  Writers lock only the nodes they change,
// always ancestor before descendant, so there is no global lock and no
// deadlock.
//
// The algorithm is the relaxed balance tree of Bronson, Casper, Chafi
// and Olukotun, "A Practical Concurrent Binary Search Tree" (PPoPP
// 2010).  Erasing a key with two children only clears its value,
// leaving a routing node that keeps the tree searchable; routing nodes
// with fewer than two children are spliced out while rebalancing.
//
// Balance may be temporarily violated while writers are active.  Each
// writer walks back towards the root repairing heights, rotations and
// routing nodes, coming back to a node whose subtree it had to fix
// first, so a tree with no writer active is balanced.
//
// Unlinked nodes and replaced values are handed to a reclamation
// policy (see package reclaim) so that readers still looking at them
// are never affected.
package avl
