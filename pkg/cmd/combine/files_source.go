// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package combine

import (
	"fmt"

	"carvel.dev/tplcombine/pkg/cmd/ui"
	"carvel.dev/tplcombine/pkg/files"
)

type FilesSourceOpts struct {
	files        []string
	recursive    bool
	outputFiles  string
	OutputFormat string
	summary      bool
}

func (s *FilesSourceOpts) Set(flags CmdFlags) {
	flags.StringArrayVarP(&s.files, "file", "f", nil, "File (ie local path, directory, -) (can be specified multiple times)")
	flags.BoolVarP(&s.recursive, "recursive", "R", true, "Read collections from subdirectories (true by default)")
	flags.StringVar(&s.outputFiles, "output-files", "", "Directory to write combined templates and report.json to")
	flags.StringVarP(&s.OutputFormat, "output-format", "o", OutputFormatJSON, "Combined templates format (json, yaml)")
	flags.BoolVar(&s.summary, "summary", true, "Print a summary of the merge to stderr")
}

type FilesSource struct {
	opts FilesSourceOpts
	ui   ui.UI
}

func NewFilesSource(opts FilesSourceOpts, ui ui.UI) *FilesSource {
	return &FilesSource{opts, ui}
}

func (s *FilesSource) Input() (CombineInput, error) {
	if len(s.opts.files) == 0 {
		return CombineInput{}, fmt.Errorf("Expected at least one file to be specified via --file (-f)")
	}

	filesToProcess, err := files.NewFiles(s.opts.files, s.opts.recursive)
	if err != nil {
		return CombineInput{}, err
	}

	return CombineInput{Files: filesToProcess}, nil
}

func (s *FilesSource) Output(out CombineOutput) error {
	if out.Err != nil {
		return out.Err
	}

	if len(s.opts.outputFiles) > 0 {
		err := files.NewOutputDirectory(s.opts.outputFiles, out.Files, s.ui).Write()
		if err != nil {
			return err
		}
	} else {
		s.ui.Debugf("### result\n")
		s.ui.PrintBlock(out.Files[0].Bytes())
	}

	if s.opts.summary {
		s.ui.Warnf("%s", out.Result.Report.Summary())
	}

	return nil
}
