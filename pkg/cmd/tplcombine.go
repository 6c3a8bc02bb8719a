// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	cmdcombine "carvel.dev/tplcombine/pkg/cmd/combine"
	"carvel.dev/tplcombine/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

type TplcombineOptions struct{}

func NewDefaultTplcombineOptions() *TplcombineOptions {
	return &TplcombineOptions{}
}

func NewDefaultTplcombineCmd() *cobra.Command {
	return NewTplcombineCmd(NewDefaultTplcombineOptions())
}

func NewTplcombineCmd(o *TplcombineOptions) *cobra.Command {
	cmd := cmdcombine.NewCmd(cmdcombine.NewOptions())

	cmd.Use = "tplcombine"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "tplcombine merges container template collections"
	cmd.Long = `tplcombine merges container template collections.

Templates from all given files are pooled, duplicates are grouped by
similarity, and one template per architecture is kept from each group.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(cmdcombine.NewCmd(cmdcombine.NewOptions()))
	cmd.AddCommand(NewFmtCmd(NewFmtOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
