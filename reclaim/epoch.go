// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reclaim

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/background"
	"github.com/bitmark-inc/concurrentavl/counter"
	"github.com/bitmark-inc/concurrentavl/fault"
)

const (
	defaultThreshold    = 1024
	readersPerProcessor = 4

	// slot value of a reader that is not inside a guard
	idle = 0
)

// EpochOptions - parameters for an epoch policy
type EpochOptions struct {
	Readers   int           // reader slots, zero selects a multiple of GOMAXPROCS
	Threshold int           // pending objects that trigger a collection
	Interval  time.Duration // period of background collection, zero disables it
	Log       *logger.L     // optional
}

// a reader slot padded to its own cache line
type slot struct {
	epoch uint64
	_     [56]byte
}

type retired struct {
	epoch  uint64
	object interface{}
	free   func(interface{})
}

// Epoch - epoch based reclamation
//
// a reader publishes the global epoch in a slot on Enter; a retired
// object is tagged with the global epoch current at retirement and is
// freed once every published epoch is newer than its tag
type Epoch struct {
	global uint64
	cursor uint32
	slots  []slot

	sync.Mutex
	pending   []retired
	threshold int
	closed    bool

	retiredCount counter.Counter
	freedCount   counter.Counter

	log        *logger.L
	background *background.T
}

// NewEpoch - create an epoch policy
func NewEpoch(options EpochOptions) (*Epoch, error) {
	readers := options.Readers
	if readers < 0 {
		return nil, fault.ErrReaderSlotsLength
	}
	if 0 == readers {
		readers = readersPerProcessor * runtime.GOMAXPROCS(0)
	}
	threshold := options.Threshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	e := &Epoch{
		global:    1,
		slots:     make([]slot, readers),
		threshold: threshold,
		log:       options.Log,
	}

	if options.Interval > 0 {
		e.background = background.Start(background.Processes{
			&collector{epoch: e, interval: options.Interval},
		}, nil)
	}

	if nil != e.log {
		e.log.Infof("epoch reclamation: readers: %d  threshold: %d  interval: %s", readers, threshold, options.Interval)
	}
	return e, nil
}

// Enter - publish the current epoch in a free slot
func (e *Epoch) Enter() Guard {
	n := uint32(len(e.slots))
	start := atomic.AddUint32(&e.cursor, 1)
	for i := uint32(0); ; i += 1 {
		index := (start + i) % n
		current := atomic.LoadUint64(&e.global)
		if atomic.CompareAndSwapUint64(&e.slots[index].epoch, idle, current) {
			return Guard{slot: int(index)}
		}
		// every slot is busy
		if n-1 == i%n {
			runtime.Gosched()
		}
	}
}

// Exit - release the slot
func (e *Epoch) Exit(g Guard) {
	atomic.StoreUint64(&e.slots[g.slot].epoch, idle)
}

// Retire - queue an object for freeing after the grace period
func (e *Epoch) Retire(object interface{}, free func(interface{})) {
	if nil == free {
		return
	}
	e.retiredCount.Increment()

	// readers entering after this point publish a newer epoch
	tag := atomic.AddUint64(&e.global, 1) - 1

	e.Lock()
	if e.closed {
		e.Unlock()
		free(object)
		e.freedCount.Increment()
		return
	}
	e.pending = append(e.pending, retired{
		epoch:  tag,
		object: object,
		free:   free,
	})
	full := len(e.pending) >= e.threshold
	e.Unlock()

	if full {
		e.Collect()
	}
}

// Collect - free every pending object whose grace period has ended
//
// returns the number of objects freed
func (e *Epoch) Collect() int {
	e.Lock()
	batch := e.pending
	e.pending = nil
	e.Unlock()

	if 0 == len(batch) {
		return 0
	}

	// the oldest published epoch bounds what may still be referenced
	oldest := atomic.AddUint64(&e.global, 1)
	for i := range e.slots {
		s := atomic.LoadUint64(&e.slots[i].epoch)
		if idle != s && s < oldest {
			oldest = s
		}
	}

	kept := batch[:0]
	freed := 0
	for _, r := range batch {
		if r.epoch < oldest {
			r.free(r.object)
			freed += 1
		} else {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(batch); i += 1 {
		batch[i] = retired{}
	}

	if 0 != len(kept) {
		e.Lock()
		closed := e.closed
		if !closed {
			e.pending = append(e.pending, kept...)
		}
		e.Unlock()

		// closed while collecting, there are no readers left
		if closed {
			for _, r := range kept {
				r.free(r.object)
			}
			freed += len(kept)
		}
	}

	e.freedCount.Add(uint64(freed))
	return freed
}

// Pending - number of objects waiting for their grace period
func (e *Epoch) Pending() int {
	e.Lock()
	defer e.Unlock()
	return len(e.pending)
}

// Retired - total objects retired
func (e *Epoch) Retired() uint64 {
	return e.retiredCount.Uint64()
}

// Freed - total objects freed
func (e *Epoch) Freed() uint64 {
	return e.freedCount.Uint64()
}

// Close - stop background collection and free everything pending
//
// must only be called when no goroutine is inside a guard
func (e *Epoch) Close() error {
	e.Lock()
	if e.closed {
		e.Unlock()
		return fault.ErrReclamationClosed
	}
	e.closed = true
	e.Unlock()

	e.background.Stop()

	e.Lock()
	batch := e.pending
	e.pending = nil
	e.Unlock()

	for _, r := range batch {
		r.free(r.object)
	}
	e.freedCount.Add(uint64(len(batch)))

	if nil != e.log {
		e.log.Infof("closed: retired: %d  freed: %d", e.Retired(), e.Freed())
	}
	return nil
}

// Defers - free is called after the grace period
func (e *Epoch) Defers() bool { return true }

// periodic collection
type collector struct {
	epoch    *Epoch
	interval time.Duration
}

func (c *collector) Run(args interface{}, shutdown <-chan struct{}) {
	log := c.epoch.log

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			n := c.epoch.Collect()
			if 0 != n && nil != log {
				log.Debugf("collected: %d  pending: %d", n, c.epoch.Pending())
			}
		}
	}
}
