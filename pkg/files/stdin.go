// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// stdin can be consumed by a single "-" per process.
var stdin = struct {
	sync.Mutex
	read bool
}{}

// ReadStdin reads all of standard input the first time it is called and
// fails on every later call.
func ReadStdin() ([]byte, error) {
	return readOnce(os.Stdin)
}

func readOnce(r io.Reader) ([]byte, error) {
	stdin.Lock()
	defer stdin.Unlock()

	if stdin.read {
		return nil, fmt.Errorf("Expected '-' to be given to --file (-f) at most once, but standard input was already read")
	}
	stdin.read = true
	return io.ReadAll(r)
}
