// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

// Disposer - releases a value that the tree no longer references
type Disposer interface {
	Dispose(value interface{})
}

// DisposerFunc - adapter to allow an ordinary function as a Disposer
type DisposerFunc func(value interface{})

// Dispose - call f(value)
func (f DisposerFunc) Dispose(value interface{}) {
	f(value)
}

// Values - how a tree holds the values associated with its keys
//
// nil Store or Retrieve mean the value is kept as given; a nil
// Dispose means replaced and removed values need no release
type Values struct {
	Store    func(value interface{}) interface{}
	Retrieve func(stored interface{}) interface{}
	Dispose  func(stored interface{})
}

// ByValue - the tree keeps values directly and never releases them
func ByValue() Values {
	return Values{}
}

// ByReference - the tree keeps caller supplied references and hands
// each one to the disposer once no reader can still see it
func ByReference(disposer Disposer) Values {
	return Values{
		Dispose: disposer.Dispose,
	}
}

func (v *Values) store(value interface{}) *slot {
	if nil != v.Store {
		value = v.Store(value)
	}
	return &slot{value: value}
}

func (v *Values) retrieve(s *slot) interface{} {
	if nil != v.Retrieve {
		return v.Retrieve(s.value)
	}
	return s.value
}
