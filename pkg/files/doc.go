// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides primitives for enumerating and loading data from various
file or file-like Source's and for writing output to filesystem files and
directories.

This allows the rest of tplcombine to process logically chunked streams of
template collections without becoming entangled in the details of how to read
or write data.

Files are decoded differently depending on their Type: TypeJSON documents as
JSON, TypeYAML (and stdin) as a stream of YAML documents.
*/
package files
