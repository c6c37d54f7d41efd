// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lock

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/fault"
)

// names accepted by New
const (
	MutexName = "mutex"
	SpinName  = "spin"
)

// Factory - creates the lock embedded in each tree node
type Factory func() sync.Locker

// Mutex - factory for standard mutexes
func Mutex() sync.Locker {
	return new(sync.Mutex)
}

// Spin - a test-and-set lock that waits using a back-off strategy
type Spin struct {
	state   uint32
	backOff backoff.Strategy
}

// NewSpin - create a spin lock, nil strategy yields the processor
func NewSpin(strategy backoff.Strategy) *Spin {
	if nil == strategy {
		strategy = backoff.Yield{}
	}
	return &Spin{
		backOff: strategy,
	}
}

// Lock - acquire the lock
func (s *Spin) Lock() {
	for i := 0; !atomic.CompareAndSwapUint32(&s.state, 0, 1); i += 1 {
		s.backOff.Pause(i)
	}
}

// TryLock - acquire the lock only if it is free
func (s *Spin) TryLock() bool {
	return atomic.CompareAndSwapUint32(&s.state, 0, 1)
}

// Unlock - release the lock
func (s *Spin) Unlock() {
	if 0 == atomic.SwapUint32(&s.state, 0) {
		fault.Panic(fault.ErrUnlockOfUnlockedSpin.Error())
	}
}

// SpinFactory - factory for spin locks sharing a back-off strategy
func SpinFactory(strategy backoff.Strategy) Factory {
	return func() sync.Locker {
		return NewSpin(strategy)
	}
}

// New - create a factory from its configuration name
func New(name string, strategy backoff.Strategy) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MutexName:
		return Mutex, nil
	case SpinName:
		return SpinFactory(strategy), nil
	default:
		return nil, fault.ErrInvalidLockType
	}
}
