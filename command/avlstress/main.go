// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/background"
	"github.com/bitmark-inc/concurrentavl/fault"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}
	if len(options["memory-stats"]) > 0 {
		theConfiguration.MemoryStats = true
	}
	verbose := len(options["verbose"]) > 0
	quiet := len(options["quiet"]) > 0

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Debugf("%s = %#v", "Tree", theConfiguration.Tree)
	log.Debugf("%s = %#v", "Workload", theConfiguration.Workload)

	keys, err := newKeySet(&theConfiguration.Workload)
	if nil != err {
		log.Criticalf("key set error: %s", err)
		exitwithstatus.Message("key set error: %s", err)
	}

	state, err := newTreeState(&theConfiguration.Tree, keys, logger.New("avl"))
	if nil != err {
		log.Criticalf("tree setup error: %s", err)
		exitwithstatus.Message("tree setup error: %s", err)
	}

	work := newWorkload(state, keys, &theConfiguration.Workload, logger.New("workload"))
	if err = work.preload(theConfiguration.Workload.Preload); nil != err {
		log.Criticalf("preload error: %s", err)
		exitwithstatus.Message("preload error: %s", err)
	}

	watcher, err := newFileWatcher(configurationFile, logger.New(fileWatcherLoggerPrefix), func(c *Configuration) {
		work.setRate(c.Workload.Rate, c.Workload.Burst)
	})
	if nil != err {
		exitwithstatus.Message("%s: file watcher setup failed with error: %s", program, err)
	}

	statsInterval, _ := parseInterval(theConfiguration.StatsInterval)
	start := time.Now()
	monitors := background.Start(background.Processes{
		watcher,
		&reporter{
			interval: statsInterval,
			memory:   theConfiguration.MemoryStats,
			start:    start,
			w:        work,
			log:      logger.New("stats"),
		},
	}, nil)

	workers := work.start(theConfiguration.Workload.Workers, theConfiguration.Workload.Seed)

	duration, _ := parseInterval(theConfiguration.Workload.Duration)
	if !quiet {
		if 0 == duration {
			fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
		} else {
			fmt.Printf("\n\nrunning for: %s…", duration)
		}
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	var timeout <-chan time.Time
	if duration > 0 {
		timeout = time.After(duration)
	}

	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if !quiet {
			fmt.Printf("\nreceived signal: %v\n", sig)
		}
	case <-timeout:
		log.Infof("run time: %s elapsed", duration)
	}
	signal.Stop(ch)

	if !quiet {
		fmt.Printf("\nshutting down...\n")
	}

	workers.Stop()
	elapsed := time.Since(start)
	monitors.Stop()

	summary := summarise(work, elapsed)
	log.Infof("summary: %#v", summary)

	checkErr := state.check()
	if verbose {
		state.tree.Print(false)
	}

	if err := state.close(); nil != err {
		log.Errorf("reclamation close error: %s", err)
	}

	if !quiet {
		printJson(os.Stdout, "summary", summary)
	}

	if nil != checkErr {
		log.Criticalf("tree check failed: %s", checkErr)
		exitwithstatus.Message("%s: tree check failed: %s", program, checkErr)
	}
	if 0 != summary.Mismatches {
		log.Criticalf("value mismatches: %d", summary.Mismatches)
		exitwithstatus.Message("%s: value mismatches: %d", program, summary.Mismatches)
	}
	log.Info("tree check passed")
}
