// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package combine

// CmdFlags interface decouples this package from
// depending on cobra.Command/flags concrete types.
type CmdFlags interface {
	BoolVar(p *bool, name string, value bool, usage string)
	BoolVarP(p *bool, name, shorthand string, value bool, usage string)

	StringVar(p *string, name string, value string, usage string)
	StringVarP(p *string, name, shorthand string, value string, usage string)

	StringArrayVarP(p *[]string, name, shorthand string, value []string, usage string)

	Float64Var(p *float64, name string, value float64, usage string)
	IntVar(p *int, name string, value int, usage string)

	Changed(name string) bool
}
