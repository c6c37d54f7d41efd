// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/concurrentavl/backoff"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/lock"
)

func TestNew(t *testing.T) {
	f, err := lock.New("", nil)
	assert.Nil(t, err, "default error")
	assert.IsType(t, &sync.Mutex{}, f(), "default lock")

	f, err = lock.New("spin", backoff.Empty{})
	assert.Nil(t, err, "spin error")
	assert.IsType(t, &lock.Spin{}, f(), "spin lock")

	_, err = lock.New("rw", nil)
	assert.Equal(t, fault.ErrInvalidLockType, err, "unknown lock")
}

func TestSpinExclusion(t *testing.T) {

	const (
		workers = 8
		loops   = 5000
	)

	s := lock.NewSpin(nil)
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < loops; j += 1 {
				s.Lock()
				total += 1
				s.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*loops, total, "lost increments")
}

func TestSpinTryLock(t *testing.T) {
	s := lock.NewSpin(backoff.Yield{})
	assert.True(t, s.TryLock(), "first try")
	assert.False(t, s.TryLock(), "second try")
	s.Unlock()
	assert.True(t, s.TryLock(), "after unlock")
	s.Unlock()
}

func TestSpinUnlockUnlocked(t *testing.T) {
	s := lock.NewSpin(nil)
	assert.Panics(t, func() { s.Unlock() }, "unlock of free lock")
}
