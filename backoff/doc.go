// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package backoff - strategies for waiting out a concurrent change
//
// the tree uses a strategy while a node it wants to traverse is in
// the middle of a rotation, the spin lock uses one while the lock is
// held by another goroutine
package backoff
