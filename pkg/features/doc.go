// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package features derives comparison features (title and description word
sets, an architecture-neutral image key, compose text and environment
variable names) from canonical template records.
*/
package features
