// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

This flavor of map keeps emitted template collections deterministic and
stable: fields are written in canonical order, not in Go's randomized map
order.
*/
package orderedmap
