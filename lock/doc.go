// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package lock - per node lock selection
//
// every tree node carries its own lock, this package provides the
// factories used to create them
package lock
