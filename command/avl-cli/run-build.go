// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/concurrentavl/avl"
	"github.com/bitmark-inc/concurrentavl/fault"
)

type buildResult struct {
	Inserted []interface{}     `json:"inserted"`
	Erased   []interface{}     `json:"erased"`
	Keys     []interface{}     `json:"keys"`
	Count    int               `json:"count"`
	Height   int               `json:"height"`
	Root     interface{}       `json:"root"`
	Valid    bool              `json:"valid"`
	Events   map[string]uint64 `json:"events,omitempty"`
}

func runBuild(c *cli.Context) error {

	asStrings := c.Bool("strings")
	if "" == c.String("keys") {
		return fmt.Errorf("missing keys")
	}
	keys, err := parseKeys(c.String("keys"), asStrings)
	if nil != err {
		return err
	}
	erase, err := parseKeys(c.String("erase"), asStrings)
	if nil != err {
		return err
	}

	compare := avl.IntCompare
	if asStrings {
		compare = avl.StringCompare
	}
	h, err := newTree(c, compare)
	if nil != err {
		return err
	}
	defer h.close()

	result := buildResult{
		Inserted: []interface{}{},
		Erased:   []interface{}{},
	}
	for _, k := range keys {
		inserted, err := h.tree.Insert(k, k)
		if nil != err {
			return err
		}
		if inserted {
			result.Inserted = append(result.Inserted, k)
		}
	}
	for _, k := range erase {
		if _, ok := h.tree.Erase(k); ok {
			result.Erased = append(result.Erased, k)
		}
	}

	result.Keys = h.tree.Keys()
	result.Count = h.tree.Count()
	result.Height = h.tree.Height()
	if root := h.tree.Root(); nil != root {
		result.Root = root.Key()
	}
	result.Valid = h.tree.CheckUp() && h.tree.CheckBalance() && h.tree.CheckOrder()
	if c.GlobalBool("verbose") {
		result.Events = h.stats.Snapshot()
	}

	if c.Bool("print") {
		h.tree.Print(true)
	}

	if err := printJson(c.App.Writer, result); nil != err {
		return err
	}
	if !result.Valid {
		return fault.ErrTreeCheckFailed
	}
	return nil
}
