// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/concurrentavl/fault"
)

func TestSampleConfiguration(t *testing.T) {
	fileName, cleanup := writeConfiguration(t, sampleConfiguration)
	defer cleanup()

	c, err := getConfiguration(fileName)
	if nil != err {
		t.Fatalf("configuration error: %s", err)
	}

	dir := filepath.Dir(fileName)
	assert.Equal(t, filepath.Clean(dir), c.DataDirectory, "data directory")
	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), c.Logging.Directory, "log directory")
	assert.Equal(t, defaultLogFile, c.Logging.File, "log file default kept")

	assert.Equal(t, "mutex", c.Tree.Lock, "lock")
	assert.Equal(t, "epoch", c.Tree.Reclamation, "reclamation")
	assert.Equal(t, poolAllocator, c.Tree.Allocator, "allocator")
	assert.Equal(t, byReference, c.Tree.Values, "values")
	assert.True(t, c.Tree.RelaxedInsert, "relaxed insert")

	assert.Equal(t, runtime.GOMAXPROCS(0), c.Workload.Workers, "workers")
	assert.Equal(t, intKeys, c.Workload.KeyType, "key type")
	assert.Equal(t, 65536, c.Workload.KeySpace, "key space")
	assert.Equal(t, MixType{Find: 70, Insert: 10, Update: 10, Erase: 10}, c.Workload.Mix, "mix")
	assert.Equal(t, "60s", c.Workload.Duration, "duration")
	assert.Equal(t, "info", c.Logging.Levels["DEFAULT"], "log level")
}

func TestConfigurationDefaults(t *testing.T) {
	fileName, cleanup := writeConfiguration(t, `return { data_directory = "." }`)
	defer cleanup()

	c, err := getConfiguration(fileName)
	if nil != err {
		t.Fatalf("configuration error: %s", err)
	}

	expected := defaultConfiguration()
	assert.Equal(t, expected.Tree, c.Tree, "tree defaults")
	assert.Equal(t, expected.Workload, c.Workload, "workload defaults")
	assert.Equal(t, defaultStatsInterval, c.StatsInterval, "stats interval")
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		text     string
		expected error
	}{
		{`return { data_directory = ".", workload = { key_type = "float" } }`, fault.ErrInvalidKeyType},
		{`return { data_directory = ".", workload = { workers = 0 } }`, fault.ErrInvalidCount},
		{`return { data_directory = ".", workload = { key_space = 10, preload = 11 } }`, fault.ErrInvalidCount},
		{`return { data_directory = ".", workload = { rate = -1 } }`, fault.ErrInvalidCount},
		{`return { data_directory = ".", workload = { mix = { find = 50, insert = 10, update = 10, erase = 10 } } }`, fault.ErrInvalidWorkloadMix},
		{`return { data_directory = ".", workload = { mix = { find = 110, insert = 0, update = 0, erase = -10 } } }`, fault.ErrInvalidWorkloadMix},
		{`return { data_directory = ".", workload = { duration = "-5s" } }`, fault.ErrInvalidCount},
	}

	for i, item := range tests {
		fileName, cleanup := writeConfiguration(t, item.text)
		_, err := getConfiguration(fileName)
		cleanup()
		assert.Equal(t, item.expected, err, "%d: %s", i, item.text)
	}
}

func TestConfigurationBadPaths(t *testing.T) {
	for i, text := range []string{
		`return {}`,
		`return { data_directory = "~" }`,
		`return { data_directory = "/no/such/directory" }`,
		`return { data_directory = ".", logging = { file = "log/avlstress.log" } }`,
		`return { data_directory = ".", stats_interval = "often" }`,
	} {
		fileName, cleanup := writeConfiguration(t, text)
		_, err := getConfiguration(fileName)
		cleanup()
		assert.NotNil(t, err, "%d: %s", i, text)
	}
}
