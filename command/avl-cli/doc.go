// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command line access to the concurrent AVL tree
//
// build: insert and erase a list of keys, print the resulting tree
// and check its invariants
//
// bench: run a short in-process concurrent benchmark and print the
// throughput and tree statistics
package main
