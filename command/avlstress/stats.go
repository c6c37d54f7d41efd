// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/reclaim"
)

const (
	mega = 1048576
)

// Summary - state of a run, logged periodically and printed at the end
type Summary struct {
	Elapsed    string                     `json:"elapsed"`
	Operations map[string]OperationCounts `json:"operations"`
	Total      uint64                     `json:"total"`
	PerSecond  float64                    `json:"per_second"`
	Errors     uint64                     `json:"errors"`
	Mismatches uint64                     `json:"mismatches"`
	Items      uint64                     `json:"items"`
	Events     map[string]uint64          `json:"events"`
	Disposed   uint64                     `json:"disposed_values"`
	Pending    int                        `json:"pending_retirements,omitempty"`
	Retired    uint64                     `json:"retired,omitempty"`
	Freed      uint64                     `json:"freed,omitempty"`
	PoolTotal  int                        `json:"pool_total,omitempty"`
	PoolFree   int                        `json:"pool_free,omitempty"`
}

func summarise(w *workload, elapsed time.Duration) *Summary {
	s := &Summary{
		Elapsed:    elapsed.String(),
		Operations: w.tally.snapshot(),
		Total:      w.tally.total(),
		Errors:     w.tally.errors.Uint64(),
		Mismatches: w.tally.mismatches.Uint64(),
		Items:      w.state.items.Uint64(),
		Events:     w.state.stats.Snapshot(),
		Disposed:   w.state.disposed.Uint64(),
	}
	if elapsed > 0 {
		s.PerSecond = float64(s.Total) / elapsed.Seconds()
	}
	if epoch, ok := w.state.policy.(*reclaim.Epoch); ok {
		s.Pending = epoch.Pending()
		s.Retired = epoch.Retired()
		s.Freed = epoch.Freed()
	}
	if nil != w.state.pool {
		s.PoolTotal, s.PoolFree = w.state.pool.Counts()
	}
	return s
}

// periodic statistics
type reporter struct {
	interval time.Duration
	memory   bool
	start    time.Time
	w        *workload
	log      *logger.L
}

func (r *reporter) Run(args interface{}, shutdown <-chan struct{}) {
	if 0 == r.interval {
		<-shutdown
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			r.report()
		}
	}
}

func (r *reporter) report() {
	text, err := json.Marshal(summarise(r.w, time.Since(r.start)))
	if nil != err {
		r.log.Errorf("marshal error: %s", err)
	} else {
		r.log.Infof("stats: %s", text)
	}

	if r.memory {
		memstats(r.log)
	}
}

func memstats(log *logger.L) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	a := m.Alloc / mega
	t := m.TotalAlloc / mega
	s := m.Sys / mega
	log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M  GC cycles: %d", a, t, s, m.NumGC)
}
