// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	binary  = "../../tplcombine"
	example = "../../examples/multi-arch"
)

type collectionOutput struct {
	Version   string `json:"version"`
	Templates []struct {
		Title string `json:"title"`
		Image string `json:"image"`
	} `json:"templates"`
}

func TestCombineExample(t *testing.T) {
	stdout, stderr := runTplcombine(t, []string{"-f", example, "--config", filepath.Join(example, "tplcombine.toml")}, "")

	out := decodeCollection(t, stdout)
	assert.Equal(t, "2", out.Version)
	assert.Equal(t, []string{"Nginx (arm64)", "Nginx", "Redis"}, titlesOf(out))
	assert.Equal(t, "arm64v8/nginx:latest", out.Templates[0].Image)

	assert.Contains(t, stderr, "Skipping template #1 from arm64.yml: Expected non-empty title or image")
	assert.Contains(t, stderr, "Original templates: 5\n")
	assert.Contains(t, stderr, "Final templates: 3\n")
	assert.Contains(t, stderr, "#0 Nginx -> Nginx (arm64)")
}

func TestCombineStdin(t *testing.T) {
	stdout, _ := runTplcombine(t, []string{"combine", "-f", "-", "--summary=false"}, filepath.Join(example, "portainer.json"))

	out := decodeCollection(t, stdout)
	assert.Equal(t, []string{"Nginx", "Redis"}, titlesOf(out))
}

func TestCombineOutputFiles(t *testing.T) {
	dir := t.TempDir()

	runTplcombine(t, []string{"-f", example, "--output-files", dir, "-o", "yaml", "--summary=false"}, "")

	templates, err := os.ReadFile(filepath.Join(dir, "templates.yml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(templates), "version: \"2\"\ntemplates:\n"), string(templates))

	reportBytes, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var report struct {
		Input     int               `json:"input"`
		Output    int               `json:"output"`
		Unusable  []json.RawMessage `json:"unusable"`
		Discarded []struct {
			Index     int    `json:"index"`
			KeptIndex int    `json:"keptIndex"`
			Reason    string `json:"reason"`
		} `json:"discarded"`
	}
	require.NoError(t, json.Unmarshal(reportBytes, &report))

	assert.Equal(t, 5, report.Input)
	assert.Equal(t, 3, report.Output)
	assert.Len(t, report.Unusable, 1)
	require.Len(t, report.Discarded, 1)
	assert.Equal(t, 4, report.Discarded[0].Index)
	assert.Equal(t, 2, report.Discarded[0].KeptIndex)
	assert.Equal(t, "same-architecture lower quality", report.Discarded[0].Reason)
}

func TestCombineIsIdempotent(t *testing.T) {
	first, _ := runTplcombine(t, []string{"-f", example, "--summary=false"}, "")

	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(first), 0600))

	second, _ := runTplcombine(t, []string{"-f", path, "--summary=false"}, "")
	assert.Equal(t, first, second)
}

func TestFmt(t *testing.T) {
	stdout, _ := runTplcombine(t, []string{"fmt", "-f", filepath.Join(example, "arm64.yml")}, "")

	out := decodeCollection(t, stdout)
	assert.Equal(t, []string{"Nginx"}, titlesOf(out))
}

func TestInvalidThreshold(t *testing.T) {
	requireBinary(t)

	command := exec.Command(binary, "-f", example, "--threshold", "1.5")
	stderr := bytes.NewBufferString("")
	command.Stderr = stderr

	_, err := command.Output()
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "tplcombine: Error: Expected duplicate threshold to be within [0,1], but was 1.5")
}

func runTplcombine(t *testing.T, args []string, stdinFileName string) (string, string) {
	t.Helper()
	requireBinary(t)

	command := exec.Command(binary, args...)
	stdError := bytes.NewBufferString("")
	command.Stderr = stdError
	command.Env = append(os.Environ(), "TPLCOMBINE_THRESHOLD=0.7")

	if stdinFileName != "" {
		fileToUseInStdIn, err := os.Open(stdinFileName)
		require.NoError(t, err)
		defer fileToUseInStdIn.Close()
		command.Stdin = fileToUseInStdIn
	}

	output, err := command.Output()
	require.NoError(t, err, stdError.String())

	return string(output), stdError.String()
}

func requireBinary(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(binary); err != nil {
		t.Skipf("Expected %s to be built: %s", binary, err)
	}
}

func decodeCollection(t *testing.T, data string) collectionOutput {
	t.Helper()
	var out collectionOutput
	require.NoError(t, json.Unmarshal([]byte(data), &out), data)
	return out
}

func titlesOf(out collectionOutput) []string {
	var titles []string
	for _, tpl := range out.Templates {
		titles = append(titles, tpl.Title)
	}
	return titles
}
