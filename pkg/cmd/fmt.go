// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"time"

	"carvel.dev/tplcombine/pkg/cmd/ui"
	"carvel.dev/tplcombine/pkg/collection"
	"carvel.dev/tplcombine/pkg/files"
	"carvel.dev/tplcombine/pkg/record"
	"github.com/spf13/cobra"
)

// FmtOptions rewrites collections in canonical form without deduplicating.
type FmtOptions struct {
	Files        []string
	OutputFormat string
	Debug        bool

	ui ui.UI
}

func NewFmtOptions() *FmtOptions {
	return &FmtOptions{}
}

func NewFmtCmd(o *FmtOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Format template collections in canonical form",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (ie local path, directory, -) (can be specified multiple times)")
	cmd.Flags().StringVarP(&o.OutputFormat, "output-format", "o", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *FmtOptions) Run() error {
	if o.ui == nil {
		o.ui = ui.NewTTY(o.Debug)
	}
	t1 := time.Now()

	defer func() {
		o.ui.Debugf("total: %s\n", time.Since(t1))
	}()

	if o.OutputFormat != "json" && o.OutputFormat != "yaml" {
		return fmt.Errorf("Expected output format to be 'json' or 'yaml', but was '%s'", o.OutputFormat)
	}

	filesToProcess, err := files.NewFiles(o.Files, true)
	if err != nil {
		return err
	}

	var records []record.Record

	for _, file := range filesToProcess {
		data, err := file.Bytes()
		if err != nil {
			return fmt.Errorf("Reading %s: %s", file.Description(), err)
		}

		raws, err := collection.Decode(data, file.RelativePath())
		if err != nil {
			return err
		}

		for i, raw := range raws {
			rec, err := record.Normalize(raw)
			if err != nil {
				o.ui.Warnf("Skipping template #%d from %s: %s\n", i, file.Description(), err)
				continue
			}
			records = append(records, rec)
		}
	}

	doc := collection.New(records)

	var bs []byte
	if o.OutputFormat == "yaml" {
		bs, err = doc.AsYAML()
	} else {
		bs, err = doc.AsJSON()
	}
	if err != nil {
		return fmt.Errorf("Marshaling templates: %s", err)
	}

	o.ui.PrintBlock(bs)

	return nil
}
