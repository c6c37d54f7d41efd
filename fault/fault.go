// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAllocatorExhausted         = ProcessError("node allocator exhausted")
	ErrAlreadyInitialised         = ExistsError("already initialised")
	ErrConfigurationFileMissing   = NotFoundError("configuration file is missing")
	ErrConfigurationNotTable      = InvalidError("configuration did not return a table")
	ErrDisposerNeedsReclamation   = InvalidError("value disposer requires a deferring reclamation policy")
	ErrInvalidAllocator           = InvalidError("invalid allocator")
	ErrInvalidBackOff             = InvalidError("invalid back-off strategy")
	ErrInvalidCount               = InvalidError("invalid count")
	ErrInvalidKeyType             = InvalidError("invalid key type")
	ErrInvalidLockType            = InvalidError("invalid lock type")
	ErrInvalidLoggerChannel       = InvalidError("invalid logger channel")
	ErrInvalidMemoryModel         = InvalidError("invalid memory model")
	ErrInvalidReclamation         = InvalidError("invalid reclamation policy")
	ErrInvalidStructPointer       = InvalidError("invalid struct pointer")
	ErrInvalidValuePolicy         = InvalidError("invalid value policy")
	ErrInvalidWorkloadMix         = InvalidError("workload percentages must total 100")
	ErrKeyNotFound                = NotFoundError("key not found")
	ErrMissingComparator          = InvalidError("one of compare or less is required")
	ErrMultipleComparators        = InvalidError("only one of compare or less is allowed")
	ErrPoolNeedsReclamation       = InvalidError("pool allocator requires a deferring reclamation policy")
	ErrReclamationClosed          = ProcessError("reclamation policy is closed")
	ErrReaderSlotsLength          = LengthError("reader slots must be positive")
	ErrTreeCheckFailed            = ProcessError("tree consistency check failed")
	ErrUnlockOfUnlockedSpin       = ProcessError("unlock of unlocked spin lock")
	ErrWorkloadItemsCountMismatch = ProcessError("item count does not match key count")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
