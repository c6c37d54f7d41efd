// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.  The chunk must
// return a table, its fields are mapped onto a structure using the
// "gluamapper" tags of the structure's fields.
//
// two globals are predefined:
//
//   arg[0]      the name of the configuration file
//   processors  the number of usable processors
package configuration
