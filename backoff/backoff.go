// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package backoff

import (
	"runtime"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/concurrentavl/fault"
)

// names accepted by New
const (
	EmptyName   = "empty"
	YieldName   = "yield"
	SleepName   = "sleep"
	LimitedName = "limited"
)

// defaults for the limited strategy when created by name
const (
	defaultLimitedRate  = 100000 // pauses per second shared by all waiters
	defaultLimitedBurst = 64
)

// Strategy - what to do while waiting for a concurrent change to finish
//
// iteration starts at zero for each wait and increases by one for
// each call; implementations must be safe for concurrent use
type Strategy interface {
	Pause(iteration int)
}

// Empty - busy wait
type Empty struct{}

// Pause - do nothing
func (Empty) Pause(int) {}

// Yield - give up the processor
type Yield struct{}

// Pause - let another goroutine run
func (Yield) Pause(int) {
	runtime.Gosched()
}

// Sleeper - yield a number of times then sleep for an increasing period
type Sleeper struct {
	Spins   int           // iterations that only yield
	Initial time.Duration // first sleep
	Maximum time.Duration // upper limit for a single sleep
	Factor  int           // growth of the sleep per iteration
}

// DefaultSleeper - yields for a while then sleeps from 1µs up to 1ms
var DefaultSleeper = Sleeper{
	Spins:   256,
	Initial: time.Microsecond,
	Maximum: time.Millisecond,
	Factor:  10,
}

// Pause - yield or sleep depending on how long the wait has been
func (s Sleeper) Pause(iteration int) {
	if iteration < s.Spins {
		runtime.Gosched()
		return
	}

	d := s.Initial
	if d <= 0 {
		d = time.Nanosecond
	}
	factor := time.Duration(s.Factor)
	if factor < 2 {
		factor = 2
	}
	for i := s.Spins; i < iteration && d < s.Maximum; i += 1 {
		d *= factor
	}
	if s.Maximum > 0 && d > s.Maximum {
		d = s.Maximum
	}
	time.Sleep(d)
}

// Limited - pause according to a shared token bucket
//
// every waiter draws from the same limiter so the total rate of
// retries is bounded no matter how many goroutines are blocked
type Limited struct {
	limiter *rate.Limiter
}

// NewLimited - create a limited strategy
func NewLimited(r rate.Limit, burst int) *Limited {
	return &Limited{
		limiter: rate.NewLimiter(r, burst),
	}
}

// Pause - wait for the next token
func (l *Limited) Pause(int) {
	r := l.limiter.Reserve()
	if !r.OK() {
		runtime.Gosched()
		return
	}
	time.Sleep(r.Delay())
}

// New - create a strategy from its configuration name
func New(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EmptyName, "none":
		return Empty{}, nil
	case YieldName:
		return Yield{}, nil
	case SleepName:
		return DefaultSleeper, nil
	case LimitedName:
		return NewLimited(defaultLimitedRate, defaultLimitedBurst), nil
	default:
		return nil, fault.ErrInvalidBackOff
	}
}
