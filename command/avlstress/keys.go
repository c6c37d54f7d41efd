// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"math/rand"

	"github.com/google/uuid"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/fault"
)

// a fixed set of keys, a key's index in the set is its expected value
type keySet interface {
	Len() int
	Key(i int) interface{}
	Compare(a interface{}, b interface{}) int
}

type intKeySet int

func (s intKeySet) Len() int {
	return int(s)
}

func (s intKeySet) Key(i int) interface{} {
	return i
}

func (intKeySet) Compare(a interface{}, b interface{}) int {
	return avl.IntCompare(a, b)
}

type uuidKeySet []uuid.UUID

// deterministic for a given seed so runs can be repeated
func newUUIDKeySet(n int, seed int64) (uuidKeySet, error) {
	rng := rand.New(rand.NewSource(seed))
	s := make(uuidKeySet, n)
	for i := range s {
		id, err := uuid.NewRandomFromReader(rng)
		if nil != err {
			return nil, err
		}
		s[i] = id
	}
	return s, nil
}

func (s uuidKeySet) Len() int {
	return len(s)
}

func (s uuidKeySet) Key(i int) interface{} {
	return s[i]
}

func (uuidKeySet) Compare(a interface{}, b interface{}) int {
	ua := a.(uuid.UUID)
	ub := b.(uuid.UUID)
	return bytes.Compare(ua[:], ub[:])
}

func newKeySet(w *WorkloadType) (keySet, error) {
	switch w.KeyType {
	case intKeys:
		return intKeySet(w.KeySpace), nil
	case uuidKeys:
		return newUUIDKeySet(w.KeySpace, w.Seed)
	default:
		return nil, fault.ErrInvalidKeyType
	}
}
