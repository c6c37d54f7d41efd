// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/concurrentavl/configuration"
	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLogDirectory = "log"
	defaultLogFile      = "avlstress.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultStatsInterval = "10s"

	defaultWorkers  = 4
	defaultKeySpace = 4096
)

// key types for the workload
const (
	intKeys  = "int"
	uuidKeys = "uuid"
)

// value policies for the tree
const (
	byValue     = "value"
	byReference = "reference"
)

// allocators for the tree
const (
	heapAllocator = "heap"
	poolAllocator = "pool"
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// TreeType - how the tree is built
type TreeType struct {
	Lock            string `gluamapper:"lock" json:"lock"`
	BackOff         string `gluamapper:"back_off" json:"back_off"`
	Reclamation     string `gluamapper:"reclamation" json:"reclamation"`
	ReaderSlots     int    `gluamapper:"reader_slots" json:"reader_slots"`
	RetireThreshold int    `gluamapper:"retire_threshold" json:"retire_threshold"`
	CollectInterval string `gluamapper:"collect_interval" json:"collect_interval"`
	Allocator       string `gluamapper:"allocator" json:"allocator"`
	PoolLimit       int    `gluamapper:"pool_limit" json:"pool_limit"`
	Values          string `gluamapper:"values" json:"values"`
	RelaxedInsert   bool   `gluamapper:"relaxed_insert" json:"relaxed_insert"`
	MemoryModel     string `gluamapper:"memory_model" json:"memory_model"`
}

// MixType - percentage of each operation
type MixType struct {
	Find   int `gluamapper:"find" json:"find"`
	Insert int `gluamapper:"insert" json:"insert"`
	Update int `gluamapper:"update" json:"update"`
	Erase  int `gluamapper:"erase" json:"erase"`
}

// WorkloadType - what the workers do
type WorkloadType struct {
	Workers  int     `gluamapper:"workers" json:"workers"`
	KeyType  string  `gluamapper:"key_type" json:"key_type"`
	KeySpace int     `gluamapper:"key_space" json:"key_space"`
	Preload  int     `gluamapper:"preload" json:"preload"`
	Mix      MixType `gluamapper:"mix" json:"mix"`
	Rate     float64 `gluamapper:"rate" json:"rate"` // operations per second, zero for unlimited
	Burst    int     `gluamapper:"burst" json:"burst"`
	Duration string  `gluamapper:"duration" json:"duration"` // blank to run until signalled
	Seed     int64   `gluamapper:"seed" json:"seed"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	StatsInterval string               `gluamapper:"stats_interval" json:"stats_interval"`
	MemoryStats   bool                 `gluamapper:"memory_stats" json:"memory_stats"`
	Tree          TreeType             `gluamapper:"tree" json:"tree"`
	Workload      WorkloadType         `gluamapper:"workload" json:"workload"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

func defaultConfiguration() *Configuration {

	// parsing merges into the map so it must not be shared
	levels := make(LoglevelMap, len(defaultLogLevels))
	for k, v := range defaultLogLevels {
		levels[k] = v
	}

	return &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		StatsInterval: defaultStatsInterval,

		Tree: TreeType{
			Lock:        "mutex",
			BackOff:     "empty",
			Reclamation: "epoch",
			Allocator:   heapAllocator,
			Values:      byValue,
			MemoryModel: "relaxed",
		},

		Workload: WorkloadType{
			Workers:  defaultWorkers,
			KeyType:  intKeys,
			KeySpace: defaultKeySpace,
			Mix: MixType{
				Find:   70,
				Insert: 10,
				Update: 10,
				Erase:  10,
			},
			Seed: 1,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    levels,
		},
	}
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := defaultConfiguration()

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	if err := options.Workload.validate(); nil != err {
		return nil, err
	}

	if _, err := parseInterval(options.StatsInterval); nil != err {
		return nil, fmt.Errorf("stats_interval: %q  error: %s", options.StatsInterval, err)
	}
	if _, err := parseInterval(options.Tree.CollectInterval); nil != err {
		return nil, fmt.Errorf("collect_interval: %q  error: %s", options.Tree.CollectInterval, err)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// log file must be a plain name within the log directory
	if !util.IsPlainName(options.Logging.File) {
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	options.Logging.Directory, err = util.EnsureDirectory(options.DataDirectory, options.Logging.Directory)
	if nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// check the workload is something the workers can run
func (w *WorkloadType) validate() error {
	w.KeyType = strings.ToLower(strings.TrimSpace(w.KeyType))
	switch w.KeyType {
	case intKeys, uuidKeys:
	default:
		return fault.ErrInvalidKeyType
	}

	if w.Workers <= 0 || w.KeySpace <= 0 || w.Preload < 0 || w.Preload > w.KeySpace {
		return fault.ErrInvalidCount
	}

	m := w.Mix
	if m.Find < 0 || m.Insert < 0 || m.Update < 0 || m.Erase < 0 {
		return fault.ErrInvalidWorkloadMix
	}
	if 100 != m.Find+m.Insert+m.Update+m.Erase {
		return fault.ErrInvalidWorkloadMix
	}

	if w.Rate < 0 || w.Burst < 0 {
		return fault.ErrInvalidCount
	}

	if _, err := parseInterval(w.Duration); nil != err {
		return err
	}
	return nil
}

// blank is zero
func parseInterval(s string) (time.Duration, error) {
	if "" == strings.TrimSpace(s) {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if nil != err {
		return 0, err
	}
	if d < 0 {
		return 0, fault.ErrInvalidCount
	}
	return d, nil
}
