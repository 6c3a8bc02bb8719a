// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputFile is a result document (combined collection or report) that is
// written under an output directory.
type OutputFile struct {
	relativePath string
	data         []byte
}

func NewOutputFile(relativePath string, data []byte) OutputFile {
	return OutputFile{relativePath, data}
}

func (f OutputFile) RelativePath() string { return f.relativePath }
func (f OutputFile) Bytes() []byte        { return f.data }

func (f OutputFile) Path(dirPath string) string {
	return filepath.Join(dirPath, f.relativePath)
}

// Create replaces the file atomically: readers of a previous collection
// never observe a partially written one.
func (f OutputFile) Create(dirPath string) error {
	resultPath := f.Path(dirPath)
	dir := filepath.Dir(resultPath)

	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(resultPath)+".*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(f.data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("Writing '%s': %s", resultPath, err)
	}

	err = os.Rename(tmpPath, resultPath)
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
