// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TTY writes results to stdout and diagnostics to stderr. Writes are
// serialized so that concurrent callers do not interleave lines.
type TTY struct {
	debug  bool
	stdout io.Writer
	stderr io.Writer
	mu     *sync.Mutex
}

var _ UI = TTY{}

func NewTTY(debug bool) TTY {
	return NewCustomWriterTTY(debug, nil, nil)
}

// NewCustomWriterTTY is NewTTY with replaceable writers; nil means the
// process's stdout/stderr.
func NewCustomWriterTTY(debug bool, stdout, stderr io.Writer) TTY {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return TTY{debug: debug, stdout: stdout, stderr: stderr, mu: &sync.Mutex{}}
}

func (t TTY) Printf(str string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.stdout, str, args...)
}

func (t TTY) PrintBlock(block []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stdout.Write(block)
}

func (t TTY) Warnf(str string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.stderr, str, args...)
}

func (t TTY) Debugf(str string, args ...interface{}) {
	if !t.debug {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.stderr, str, args...)
}

func (t TTY) DebugEnabled() bool { return t.debug }
