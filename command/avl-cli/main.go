// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// tree flags shared by all commands
var treeFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "lock, l",
		Value: "mutex",
		Usage: " per node lock `TYPE` [mutex|spin]",
	},
	cli.StringFlag{
		Name:  "back-off, b",
		Value: "empty",
		Usage: " wait `STRATEGY` [empty|yield|sleep|limited]",
	},
	cli.StringFlag{
		Name:  "reclamation, r",
		Value: "epoch",
		Usage: " node reclamation `POLICY` [gc|epoch]",
	},
	cli.StringFlag{
		Name:  "allocator, a",
		Value: "heap",
		Usage: " node `ALLOCATOR` [heap|pool]",
	},
	cli.BoolFlag{
		Name:  "relaxed, x",
		Usage: " build new nodes before locking the parent",
	},
	cli.StringFlag{
		Name:  "memory-model, m",
		Value: "relaxed",
		Usage: " memory `MODEL` [relaxed|sequential]",
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "avl-cli"
	app.Usage = "build and benchmark concurrent AVL trees"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "build",
			Usage:     "insert then erase keys and check the resulting tree",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "keys, k",
					Value: "",
					Usage: "*comma separated keys to insert `LIST`",
				},
				cli.StringFlag{
					Name:  "erase, e",
					Value: "",
					Usage: " comma separated keys to erase `LIST`",
				},
				cli.BoolFlag{
					Name:  "strings, s",
					Usage: " order keys as strings instead of integers",
				},
				cli.BoolFlag{
					Name:  "print, p",
					Usage: " draw the tree",
				},
			}, treeFlags...),
			Action: runBuild,
		},
		{
			Name:      "bench",
			Usage:     "run concurrent workers against one tree",
			ArgsUsage: "\n   (* = required)",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Value: 4,
					Usage: " number of worker goroutines `COUNT`",
				},
				cli.IntFlag{
					Name:  "operations, o",
					Value: 100000,
					Usage: " operations per worker `COUNT`",
				},
				cli.IntFlag{
					Name:  "key-space, n",
					Value: 10000,
					Usage: " number of distinct keys `COUNT`",
				},
				cli.StringFlag{
					Name:  "mix",
					Value: "70,10,10,10",
					Usage: " find,insert,update,erase `PERCENTAGES`",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: " random `SEED`",
				},
			}, treeFlags...),
			Action: runBench,
		},
		{
			Name:  "version",
			Usage: "display avl-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}
	return app
}

func main() {
	err := newApp().Run(os.Args)
	if nil != err {
		fmt.Fprintf(os.Stderr, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
