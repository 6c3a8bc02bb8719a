// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of
tplcombine.

tplcombine merges container template collections (Portainer-style "version 2"
documents, bare template lists, single templates) into one collection with
duplicate entries removed. Entries are considered duplicates when they are
similar enough; within a group of duplicates one entry per CPU architecture
is kept.

In the inventory, below, individual packages are named alongside their coupling
with the other packages in the codebase.

	(# of dependents) => <package name> => (# of dependencies)

Where "# of dependents" is the count of packages that import the named package
and "# of dependencies" is the count of packages that this named package
imports.

From top-down, tplcombine code is layered in this way:

# Entry Point

	./cmd/tplcombine           // a command-line tool

# Commands

The root command is "combine"; "fmt" rewrites collections in canonical form
without deduplicating and "version" prints the build version.

	(1) => pkg/cmd => (6)
	(1) => pkg/cmd/combine => (7)

# Input and Output

Files given on the command line (local paths, directories, stdin) are read
into pkg/files. Each file is decoded into raw template documents, and the
final records are encoded back into a collection with a stable key order.

	(2) => pkg/files => (0)
	(2) => pkg/collection => (2)
	(1) => pkg/orderedmap => (0)

# Configuration

Engine settings come from defaults, a TOML file, a dotenv file, the process
environment and flags, in that order of precedence (lowest first).

	(1) => pkg/config => (2)
	(1) => pkg/spell => (0)

# Deduplication

Raw documents are normalized into records. The engine derives comparison
features, an architecture and a quality score for every record, links
sufficiently similar pairs, groups linked records into clusters, and keeps
the best record of each architecture within a cluster.

	(8) => pkg/record => (0)
	(2) => pkg/arch => (1)
	(2) => pkg/features => (2)
	(2) => pkg/similarity => (2)
	(1) => pkg/quality => (1)
	(2) => pkg/dedup => (5)

# Utilities

	(2) => pkg/cmd/ui => (0)
	(1) => pkg/version => (0)

# Dependencies

Each package's dependencies on other packages within this module are as follows
(if a package is not listed, it has no dependencies on other packages within
this module):

	pkg/cmd:
	- pkg/cmd/combine
	- pkg/cmd/ui
	- pkg/collection
	- pkg/files
	- pkg/record
	- pkg/version
	pkg/cmd/combine:
	- pkg/cmd/ui
	- pkg/collection
	- pkg/config
	- pkg/dedup
	- pkg/files
	- pkg/record
	- pkg/similarity
	pkg/collection:
	- pkg/orderedmap
	- pkg/record
	pkg/config:
	- pkg/dedup
	- pkg/spell
	pkg/dedup:
	- pkg/arch
	- pkg/features
	- pkg/quality
	- pkg/record
	- pkg/similarity
	pkg/similarity:
	- pkg/features
	- pkg/record
	pkg/features:
	- pkg/arch
	- pkg/record
	pkg/quality:
	- pkg/record
	pkg/arch:
	- pkg/record
*/
package pkg
