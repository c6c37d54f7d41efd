// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/concurrentavl/background"
	"github.com/bitmark-inc/concurrentavl/counter"
)

type operation int

const (
	opFind operation = iota
	opInsert
	opUpdate
	opErase
	opCount // must be last
)

var operationNames = [opCount]string{
	"find",
	"insert",
	"update",
	"erase",
}

func (op operation) String() string {
	if op < 0 || op >= opCount {
		return "unknown"
	}
	return operationNames[op]
}

// tally - totals shared by all workers
//
// a hit is a find that found, an insert or update that inserted or
// an erase that removed
type tally struct {
	calls      [opCount]counter.Counter
	hits       [opCount]counter.Counter
	errors     counter.Counter
	mismatches counter.Counter
}

func (t *tally) total() uint64 {
	n := uint64(0)
	for op := operation(0); op < opCount; op += 1 {
		n += t.calls[op].Uint64()
	}
	return n
}

// OperationCounts - tally of one operation, for reporting
type OperationCounts struct {
	Calls uint64 `json:"calls"`
	Hits  uint64 `json:"hits"`
}

func (t *tally) snapshot() map[string]OperationCounts {
	m := make(map[string]OperationCounts)
	for op := operation(0); op < opCount; op += 1 {
		m[op.String()] = OperationCounts{
			Calls: t.calls[op].Uint64(),
			Hits:  t.hits[op].Uint64(),
		}
	}
	return m
}

type workload struct {
	state   *treeState
	keys    keySet
	mix     MixType
	limiter *rate.Limiter
	tally   tally
	log     *logger.L
}

func newWorkload(state *treeState, keys keySet, w *WorkloadType, log *logger.L) *workload {
	return &workload{
		state:   state,
		keys:    keys,
		mix:     w.Mix,
		limiter: rate.NewLimiter(limitOf(w.Rate), burstOf(w.Burst)),
		log:     log,
	}
}

// zero rate is unlimited
func limitOf(r float64) rate.Limit {
	if r <= 0 {
		return rate.Inf
	}
	return rate.Limit(r)
}

func burstOf(b int) int {
	if b <= 0 {
		return 1
	}
	return b
}

// change the operation rate of running workers
func (w *workload) setRate(r float64, burst int) {
	w.limiter.SetLimit(limitOf(r))
	w.limiter.SetBurst(burstOf(burst))
	w.log.Infof("rate: %v/s  burst: %d", limitOf(r), burstOf(burst))
}

// insert the first n keys before any worker starts
func (w *workload) preload(n int) error {
	for i := 0; i < n; i += 1 {
		if _, err := w.state.tree.Insert(w.keys.Key(i), w.state.value(i)); nil != err {
			return err
		}
	}
	w.log.Infof("preloaded: %d keys", n)
	return nil
}

// start one worker process per configured worker
func (w *workload) start(workers int, seed int64) *background.T {
	processes := make(background.Processes, workers)
	for i := range processes {
		processes[i] = &worker{
			id:   i,
			seed: seed + int64(i),
			w:    w,
		}
	}
	w.log.Infof("starting: %d workers", workers)
	return background.Start(processes, nil)
}

// select an operation from a percentage
func (w *workload) choose(n int) operation {
	switch {
	case n < w.mix.Find:
		return opFind
	case n < w.mix.Find+w.mix.Insert:
		return opInsert
	case n < w.mix.Find+w.mix.Insert+w.mix.Update:
		return opUpdate
	default:
		return opErase
	}
}

// block until the limiter allows another operation, false on shutdown
func (w *workload) wait(shutdown <-chan struct{}) bool {
	if rate.Inf == w.limiter.Limit() {
		return true
	}
	r := w.limiter.Reserve()
	d := r.Delay()
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-shutdown:
		r.Cancel()
		return false
	}
}

// perform one random operation
func (w *workload) step(rng *rand.Rand) {
	i := rng.Intn(w.keys.Len())
	key := w.keys.Key(i)
	op := w.choose(rng.Intn(100))

	w.tally.calls[op].Increment()

	check := func(_ interface{}, value interface{}) {
		if w.state.index(value) != i {
			w.tally.mismatches.Increment()
		}
	}

	hit := false
	var err error
	switch op {
	case opFind:
		hit = w.state.tree.FindWith(key, check)
	case opInsert:
		hit, err = w.state.tree.Insert(key, w.state.value(i))
	case opUpdate:
		hit, err = w.state.tree.Update(key, w.state.value(i))
	case opErase:
		hit = w.state.tree.EraseWith(key, check)
	}

	if nil != err {
		if 1 == w.tally.errors.Increment()%1000 {
			w.log.Warnf("%s error: %s", op, err)
		}
		return
	}
	if hit {
		w.tally.hits[op].Increment()
	}
}

type worker struct {
	id   int
	seed int64
	w    *workload
}

func (wk *worker) Run(args interface{}, shutdown <-chan struct{}) {
	rng := rand.New(rand.NewSource(wk.seed))
	wk.w.log.Debugf("worker: %d started", wk.id)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}
		if !wk.w.wait(shutdown) {
			break loop
		}
		wk.w.step(rng)
	}

	wk.w.log.Debugf("worker: %d stopped", wk.id)
}
