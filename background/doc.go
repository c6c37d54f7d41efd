// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop groups of goroutines
//
// used for periodic reclamation, statistics reporting and the
// stress test workers
package background
