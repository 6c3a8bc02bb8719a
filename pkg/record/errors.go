// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
)

// UnusableError is returned by Normalize when a document cannot be turned
// into a minimally identifiable record. Callers exclude such documents from
// the pool and report them; it is never fatal to a batch.
type UnusableError struct {
	Source string
	Reason string
}

func (e *UnusableError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("Unusable template: %s", e.Reason)
	}
	return fmt.Sprintf("Unusable template from %s: %s", e.Source, e.Reason)
}
