// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reclaim

import (
	"strings"

	"github.com/bitmark-inc/concurrentavl/fault"
)

// names accepted by New
const (
	GCName    = "gc"
	EpochName = "epoch"
)

// Guard - token returned by Enter and given back to Exit
type Guard struct {
	slot int
}

// Policy - deferred reclamation of objects unlinked from a shared structure
//
// every access to the structure is bracketed by Enter and Exit; an
// object passed to Retire is no longer reachable from the structure
// but may still be held by goroutines inside a guard, free is called
// only after every such goroutine has exited
type Policy interface {
	Enter() Guard
	Exit(Guard)
	Retire(object interface{}, free func(interface{}))
	Close() error
}

// Deferring - implemented by policies that eventually call free
//
// a policy that does not implement this, or returns false, drops
// retired objects and leaves their memory to the garbage collector
type Deferring interface {
	Defers() bool
}

// Defers - true if the policy eventually calls the free function
func Defers(p Policy) bool {
	d, ok := p.(Deferring)
	return ok && d.Defers()
}

// New - create a policy from its configuration name
func New(name string, options EpochOptions) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", GCName:
		return GC{}, nil
	case EpochName:
		return NewEpoch(options)
	default:
		return nil, fault.ErrInvalidReclamation
	}
}
