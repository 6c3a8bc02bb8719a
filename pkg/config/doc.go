// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config assembles a dedup.Config from layered sources.

Later layers win: built-in defaults, then a TOML file, then a .env file,
then the process environment. Command line flags are applied by the caller
on top of the result.

	threshold = 0.7
	workers = 4
	identity_link = true
	feature_cache_size = 4096

	[weights]
	title = 0.30
	image = 0.25
	description = 0.20
	compose = 0.15
	env = 0.10
*/
package config
