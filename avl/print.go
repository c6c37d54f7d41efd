// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl

import (
	"fmt"
)

// to control the print routine
type branch int

const (
	root  branch = iota
	left  branch = iota
	right branch = iota
)

// Print - display an ASCII graphic representation of the tree
func (tree *Tree) Print(printData bool) int {
	return printTree(tree.root.right.Load(), "", root, printData)
}

// internal print - returns the maximum depth of the tree
func printTree(p *Node, prefix string, br branch, printData bool) int {
	if nil == p {
		return 0
	}
	rd := 0
	ld := 0
	if r := p.right.Load(); nil != r {
		t := "       "
		if left == br {
			t = "|      "
		}
		rd = printTree(r, prefix+t, right, printData)
	}
	switch br {
	case root:
		fmt.Printf("%s|------+ ", prefix)
	case left:
		fmt.Printf("%s\\------+ ", prefix)
	case right:
		fmt.Printf("%s/------+ ", prefix)
	}
	up := interface{}(nil)
	if parent := p.Parent(); nil != parent {
		up = parent.key
	}
	if printData {
		value, ok := p.Value()
		if !ok {
			value = "(routing)"
		}
		fmt.Printf("%v → %v ^%v h:%d v:%d\n", p.key, value, up, p.height.Load(), p.version.Load())
	} else {
		fmt.Printf("%v ^%v\n", p.key, up)
	}
	if l := p.left.Load(); nil != l {
		t := "       "
		if right == br {
			t = "|      "
		}
		ld = printTree(l, prefix+t, left, printData)
	}
	if rd > ld {
		return 1 + rd
	}
	return 1 + ld
}
