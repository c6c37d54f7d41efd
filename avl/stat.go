// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"github.com/bitmark-inc/concurrentavl/counter"
)

// Event - an internal occurrence that may be counted
type Event int

// events, keep eventNames in the same order
const (
	FindSuccess Event = iota
	FindFailed
	FindRetry
	FindWaitShrinking
	InsertSuccess
	InsertRetry
	RelaxedInsertFailed
	UpdateSuccess
	UpdateRetry
	UpdateWaitShrinking
	UpdateRootWaitShrinking
	UpdateUnlinked
	EraseSuccess
	EraseFailed
	EraseRetry
	DisposedValue
	DisposedNode
	RotateRight
	RotateLeft
	RotateRightOverLeft
	RotateLeftOverRight
	RemoveRoutingNode
	RebalanceUnlinked
	eventCount
)

var eventNames = [eventCount]string{
	"find_success",
	"find_failed",
	"find_retry",
	"find_wait_shrinking",
	"insert_success",
	"insert_retry",
	"relaxed_insert_failed",
	"update_success",
	"update_retry",
	"update_wait_shrinking",
	"update_root_wait_shrinking",
	"update_unlinked",
	"erase_success",
	"erase_failed",
	"erase_retry",
	"disposed_value",
	"disposed_node",
	"rotate_right",
	"rotate_left",
	"rotate_right_over_left",
	"rotate_left_over_right",
	"remove_routing_node",
	"rebalance_unlinked",
}

// String - name of the event
func (e Event) String() string {
	if e < 0 || e >= eventCount {
		return "unknown"
	}
	return eventNames[e]
}

// Stat - receiver of tree events
type Stat interface {
	Event(Event)
}

// EmptyStat - discard all events
type EmptyStat struct{}

// Event - do nothing
func (EmptyStat) Event(Event) {}

// Stats - count every event
type Stats struct {
	counters [eventCount]counter.Counter
}

// NewStats - create a zeroed set of event counters
func NewStats() *Stats {
	return &Stats{}
}

// Event - count an event
func (s *Stats) Event(e Event) {
	s.counters[e].Increment()
}

// Get - current count for an event
func (s *Stats) Get(e Event) uint64 {
	return s.counters[e].Uint64()
}

// Snapshot - all non-zero counts keyed by event name
func (s *Stats) Snapshot() map[string]uint64 {
	m := make(map[string]uint64)
	for e := Event(0); e < eventCount; e += 1 {
		if n := s.counters[e].Uint64(); 0 != n {
			m[e.String()] = n
		}
	}
	return m
}

// Reset - zero all counters
func (s *Stats) Reset() {
	for e := Event(0); e < eventCount; e += 1 {
		s.counters[e].Reset()
	}
}
