// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reclaim

// GC - leave everything to the garbage collector
//
// readers that still hold a retired object keep it alive, so there
// is no grace period to track and free is never called
type GC struct{}

// Enter - nothing to record
func (GC) Enter() Guard { return Guard{} }

// Exit - nothing to release
func (GC) Exit(Guard) {}

// Retire - drop the object
func (GC) Retire(interface{}, func(interface{})) {}

// Close - nothing to flush
func (GC) Close() error { return nil }

// Defers - free is never called
func (GC) Defers() bool { return false }
