// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build version of tplcombine.
package version

// Version is overridden at build time:
//
//	go build -ldflags "-X carvel.dev/tplcombine/pkg/version.Version=1.2.3"
var Version = "develop"
