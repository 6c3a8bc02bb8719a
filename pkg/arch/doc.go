// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package arch infers the architecture a template record targets.

Classification is deterministic and order-sensitive: an explicit platform
wins over an image tag suffix, which wins over tokens found in embedded
compose text. Records without any recognised signal are not an error; they
are assigned Default.
*/
package arch
