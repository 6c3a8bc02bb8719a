// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd is home to the full set of tplcombine's "commands" -- instances of
cobra.Command (not to be confused with ./cmd which contains the bootstrapping
for executing tplcombine).

A cobra.Command is the starting point of execution.

For a list of commands run:

	$ tplcombine help

The default command is "combine".
*/
package cmd
