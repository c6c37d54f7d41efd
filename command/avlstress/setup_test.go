// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
)

const (
	logFileName      = "test.log"
	logSizeOfFiles   = 50000
	logNumberOfFiles = 10
)

var testLevelMap = map[string]string{
	logger.DefaultTag: "critical",
	"workload":        "warn",
}

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "avlstress-log")
	if nil != err {
		panic(err)
	}

	err = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      logFileName,
		Size:      logSizeOfFiles,
		Count:     logNumberOfFiles,
		Levels:    testLevelMap,
	})
	if nil != err {
		panic(err)
	}

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

// write a configuration chunk to a fresh directory
func writeConfiguration(t *testing.T, text string) (string, func()) {
	dir, err := ioutil.TempDir("", "avlstress")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	fileName := filepath.Join(dir, "avlstress.conf")
	if err := ioutil.WriteFile(fileName, []byte(text), 0600); nil != err {
		os.RemoveAll(dir)
		t.Fatalf("write error: %s", err)
	}
	return fileName, func() { os.RemoveAll(dir) }
}
