// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package record defines the canonical template record and the Normalizer that
coerces heterogeneous source documents (Portainer-style JSON, manually authored
entries, converted QNAP or Compose documents) into it.

A Record is a value: once normalized it is never mutated. Editing a record is
modelled by Revise, which produces a brand-new record that goes through
Normalize again, so nothing derived from a record (architecture, quality) can
go stale.
*/
package record
