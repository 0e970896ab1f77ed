/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package event

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nodeIDCollator compares origin_node identifiers for the total-order
// tie-break. Every replica must agree on this ordering, so it fixes one
// locale (Und, the language-neutral root collation) rather than
// exposing a per-locale choice.
type nodeIDCollator struct {
	collator *collate.Collator
}

func newNodeIDCollator() *nodeIDCollator {
	return &nodeIDCollator{collator: collate.New(language.Und)}
}

// compare returns -1, 0, or 1. Falls back to byte comparison when the
// collator reports two distinct strings as equal, so the result is
// always a strict total order even under a loose collation.
func (c *nodeIDCollator) compare(a, b string) int {
	if r := c.collator.CompareString(a, b); r != 0 {
		return r
	}
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
