// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Stress and validation driver for the concurrent AVL tree
//
// This program builds a tree as described by a Lua configuration
// file, runs a set of worker goroutines applying a weighted mix of
// find, insert, update and erase operations, logs statistics at
// intervals and checks the tree invariants once all workers have
// stopped.  The operation rate can be changed while running by
// editing the configuration file.
package main
