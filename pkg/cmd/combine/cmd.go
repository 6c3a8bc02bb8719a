// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package combine

import (
	"encoding/json"
	"fmt"
	"time"

	"carvel.dev/tplcombine/pkg/cmd/ui"
	"carvel.dev/tplcombine/pkg/collection"
	"carvel.dev/tplcombine/pkg/dedup"
	"carvel.dev/tplcombine/pkg/files"
	"carvel.dev/tplcombine/pkg/record"
	"github.com/spf13/cobra"
)

const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	ReportFileName = "report.json"
)

type CombineOptions struct {
	Debug bool

	FilesSourceOpts FilesSourceOpts
	ConfigFlags     ConfigFlags
}

type CombineInput struct {
	Files []*files.File
}

type CombineOutput struct {
	// Files holds the encoded collection followed by the JSON report.
	Files  []files.OutputFile
	Result dedup.Result
	Err    error
}

func NewOptions() *CombineOptions {
	return &CombineOptions{}
}

func NewCmd(o *CombineOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "combine",
		Aliases: []string{"c"},
		Short:   "Combine template collections into one deduplicated collection",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	o.FilesSourceOpts.Set(cmd.Flags())
	o.ConfigFlags.Set(cmd.Flags())
	return cmd
}

func (o *CombineOptions) Run() error {
	ui := ui.NewTTY(o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	// Configuration problems are reported before any input is read.
	engine, err := o.engine(ui)
	if err != nil {
		return err
	}

	src := NewFilesSource(o.FilesSourceOpts, ui)

	in, err := src.Input()
	if err != nil {
		return err
	}

	return src.Output(o.runWithEngine(engine, in, ui))
}

// RunWithFiles combines already enumerated files.
func (o *CombineOptions) RunWithFiles(in CombineInput, ui ui.UI) CombineOutput {
	engine, err := o.engine(ui)
	if err != nil {
		return CombineOutput{Err: err}
	}
	return o.runWithEngine(engine, in, ui)
}

func (o *CombineOptions) engine(ui ui.UI) (*dedup.Engine, error) {
	switch o.FilesSourceOpts.OutputFormat {
	case OutputFormatJSON, OutputFormatYAML, "":
	default:
		return nil, fmt.Errorf("Expected output format to be '%s' or '%s', but was '%s'",
			OutputFormatJSON, OutputFormatYAML, o.FilesSourceOpts.OutputFormat)
	}

	cfg, err := o.ConfigFlags.Config()
	if err != nil {
		return nil, err
	}
	ui.Debugf("config: threshold=%v workers=%d identity-link=%t weights=%+v\n",
		cfg.Threshold, cfg.Workers, cfg.IdentityLink, cfg.Weights)

	return dedup.NewEngine(cfg, dedup.WithLogger(ui))
}

func (o *CombineOptions) runWithEngine(engine *dedup.Engine, in CombineInput, ui ui.UI) CombineOutput {
	var raws []record.Raw

	for _, file := range in.Files {
		data, err := file.Bytes()
		if err != nil {
			return CombineOutput{Err: fmt.Errorf("Reading %s: %s", file.Description(), err)}
		}

		fileRaws, err := collection.Decode(data, file.RelativePath())
		if err != nil {
			return CombineOutput{Err: err}
		}
		ui.Debugf("read %d templates from %s\n", len(fileRaws), file.Description())

		raws = append(raws, fileRaws...)
	}

	res := engine.Run(raws)

	if ui.DebugEnabled() {
		for _, c := range res.Report.Clusters {
			for _, l := range c.Links {
				ui.Debugf("cluster %d: #%d ~ #%d score=%.3f identity=%t\n", c.ID, l.A, l.B, l.Score, l.Identity)
			}
		}
	}

	collectionFile, err := o.encode(collection.New(res.Records))
	if err != nil {
		return CombineOutput{Err: err}
	}

	reportBytes, err := json.MarshalIndent(res.Report, "", "  ")
	if err != nil {
		return CombineOutput{Err: fmt.Errorf("Marshaling report: %s", err)}
	}

	return CombineOutput{
		Files:  []files.OutputFile{collectionFile, files.NewOutputFile(ReportFileName, append(reportBytes, '\n'))},
		Result: res,
	}
}

func (o *CombineOptions) encode(doc collection.Document) (files.OutputFile, error) {
	switch o.FilesSourceOpts.OutputFormat {
	case OutputFormatJSON, "":
		bs, err := doc.AsJSON()
		if err != nil {
			return files.OutputFile{}, fmt.Errorf("Marshaling combined templates: %s", err)
		}
		return files.NewOutputFile("templates.json", bs), nil

	case OutputFormatYAML:
		bs, err := doc.AsYAML()
		if err != nil {
			return files.OutputFile{}, fmt.Errorf("Marshaling combined templates: %s", err)
		}
		return files.NewOutputFile("templates.yml", bs), nil

	default:
		panic(fmt.Sprintf("Unknown output format '%s'", o.FilesSourceOpts.OutputFormat))
	}
}
