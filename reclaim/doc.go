// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reclaim - deferred reclamation for lock-free readers
//
// GC relies on the Go garbage collector and never frees anything
// explicitly.  Epoch delays the free function of each retired object
// until every reader that might still see it has left, which allows
// node memory to be recycled and values to be disposed safely.
package reclaim
