// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
)

const sampleConfiguration = `-- avlstress.conf  -*- mode: lua -*-

local M = {}

-- "." is the directory containing this file
M.data_directory = "."

-- optional pid file if not absolute path then is created relative to
-- the data directory
-- M.pidfile = "avlstress.pid"

-- interval between statistics log entries, blank to disable
M.stats_interval = "10s"
M.memory_stats = false

M.tree = {
    -- "mutex" or "spin"
    lock = "mutex",
    -- "empty", "yield", "sleep" or "limited"
    back_off = "sleep",
    -- "gc" or "epoch"
    reclamation = "epoch",
    reader_slots = 0,
    retire_threshold = 1024,
    collect_interval = "10ms",
    -- "heap" or "pool"
    allocator = "pool",
    pool_limit = 0,
    -- "value" or "reference"
    values = "reference",
    relaxed_insert = true,
    -- "relaxed" or "sequential"
    memory_model = "relaxed",
}

M.workload = {
    workers = processors,
    -- "int" or "uuid"
    key_type = "int",
    key_space = 65536,
    preload = 32768,
    -- percentages, must total 100
    mix = {
        find = 70,
        insert = 10,
        update = 10,
        erase = 10,
    },
    -- operations per second over all workers, zero is unlimited
    -- this can be changed while running
    rate = 0,
    burst = 0,
    -- blank to run until interrupted
    duration = "60s",
    seed = 1,
}

M.logging = {
    size = 1048576,
    count = 10,

    -- set the logging level for various modules
    -- modules not overridden with get the value from DEFAULT
    -- the default value for DEFAULT is "critical"
    levels = {
        DEFAULT = "info",
        -- avl = "debug",
        -- reclaim = "debug",
    }
}

return M
`

// setup command handler
//
// commands that run to create files these commands cannot access the
// tree or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "sample-config", "sample":
		if 0 == len(arguments) || "-" == arguments[0] {
			fmt.Print(sampleConfiguration)
			return true
		}
		fileName := arguments[0]
		f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0600)
		if nil != err {
			fmt.Printf("cannot create: %q  error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		defer f.Close()
		if _, err := f.WriteString(sampleConfiguration); nil != err {
			fmt.Printf("cannot write: %q  error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("created configuration: %q\n", fileName)

	case "start", "run":
		return false // continue processing

	case "version", "v":
		fmt.Printf("%s\n", version)

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %v\n", command)
		}

		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  sample-config [FILE]       (sample) - write a sample configuration to FILE\n")
		fmt.Printf("                                        or to standard output\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}
	return true
}
