// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package similarity scores how alike two template records are.

The score is a weighted sum of five sub-similarities:

	title        0.30  word-set Jaccard
	image        0.25  edit ratio on the architecture-neutral image key
	description  0.20  word-set Jaccard
	compose      0.15  edit ratio on embedded compose text
	env names    0.10  set Jaccard

Every sub-similarity is in [0,1] and the default weights sum to 1.0, so the
score is in [0,1]. It is symmetric, and 1.0 for a fully populated record
compared with itself.
*/
package similarity
