// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/concurrentavl/fault"
	"github.com/bitmark-inc/concurrentavl/util"
)

const (
	fileWatcherLoggerPrefix = "file-watcher"
)

// re-read the configuration file when it changes
type fileWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	reload   func(*Configuration)
}

func newFileWatcher(targetFile string, log *logger.L, reload func(*Configuration)) (*fileWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		return nil, err
	}

	if !util.EnsureFileExists(filePath) {
		return nil, fault.ErrConfigurationFileMissing
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filePath)
	if nil != err {
		watcher.Close()
		return nil, err
	}

	return &fileWatcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		reload:   reload,
	}, nil
}

func (w *fileWatcher) Run(args interface{}, shutdown <-chan struct{}) {
	defer w.watcher.Close()

	w.log.Infof("watching: %s", w.filePath)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			w.log.Debugf("file event: %v", event)

			if watcherEventFileRemove(event) {
				w.log.Errorf("file %s removed, stop", w.filePath)
				break loop
			}

			if filepath.Base(event.Name) != filepath.Base(w.filePath) {
				w.log.Infof("file %s not match, discard event", event.Name)
				continue loop
			}

			if watcherEventFileChange(event) {
				w.refresh()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watcher error: %s", err)
		}
	}

	w.log.Info("stopped")
}

// an unreadable file keeps the current settings
func (w *fileWatcher) refresh() {
	c, err := getConfiguration(w.filePath)
	if nil != err {
		w.log.Errorf("failed to read configuration from: %s  error: %s", w.filePath, err)
		return
	}
	w.reload(c)
}

func watcherEventFileRemove(event fsnotify.Event) bool {
	return event.Name == "" || event.Op&fsnotify.Remove == fsnotify.Remove
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
