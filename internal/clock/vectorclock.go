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

/*
Package clock implements the vector clock that supplies the causality
metric for the replication engine: a per-node counter map, with one
counter designated the local node.

Every counter in a VectorClock is non-decreasing across all operations.
Tick increments only the local counter. Merge (called Update here, to
mirror the reference engine's `update`) always increments the local
counter once before taking the component-wise maximum with a remote
snapshot, even when the remote event turns out to be a duplicate that
will be dropped by the caller - see the open question recorded in
DESIGN.md.
*/
package clock

import "sync"

// Snapshot is an immutable value copy of a vector clock's counters.
type Snapshot map[string]uint64

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// VectorClock is a per-node map of node id to monotonic counter. One
// node id, the local node, is the only counter Tick ever advances.
type VectorClock struct {
	mu      sync.Mutex
	counts  map[string]uint64
	localID string
}

// New creates a clock tracking only the local node (spec §6 `new`).
func New(localID string) *VectorClock {
	return &VectorClock{
		counts:  map[string]uint64{localID: 0},
		localID: localID,
	}
}

// NewWithPeers creates a clock pre-populated with a zero counter for
// every peer in addition to the local node (spec §6 `new_with_nodes`).
func NewWithPeers(localID string, peers []string) *VectorClock {
	counts := make(map[string]uint64, len(peers)+1)
	counts[localID] = 0
	for _, p := range peers {
		if _, ok := counts[p]; !ok {
			counts[p] = 0
		}
	}
	return &VectorClock{counts: counts, localID: localID}
}

// Tick increments the local counter by exactly one and returns its new
// value.
func (c *VectorClock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[c.localID]++
	return c.counts[c.localID]
}

// Snapshot returns an immutable value copy of the clock's current
// counters. Later mutations to the clock never affect a returned
// snapshot.
func (c *VectorClock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *VectorClock) snapshotLocked() Snapshot {
	snap := make(Snapshot, len(c.counts))
	for k, v := range c.counts {
		snap[k] = v
	}
	return snap
}

// TickSnapshot ticks the local counter and returns the resulting
// snapshot as one atomic operation: no concurrent Tick/Update can be
// observed to interleave between the increment and the snapshot it
// produced (spec §4.4 tick_snapshot, §5 lock discipline).
func (c *VectorClock) TickSnapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[c.localID]++
	return c.snapshotLocked()
}

// Now returns the local node's current counter value.
func (c *VectorClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[c.localID]
}

// Update merges a remote snapshot into this clock: the local counter is
// incremented by one unconditionally, then for every node id present in
// both clocks the local counter is raised to the max of its current
// value and the remote's. Node ids unknown to this clock are ignored;
// they may only be introduced via AddNode.
func (c *VectorClock) Update(remote Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[c.localID]++

	for node, remoteVal := range remote {
		local, known := c.counts[node]
		if !known {
			continue
		}
		if remoteVal > local {
			c.counts[node] = remoteVal
		}
	}
}

// AddNode registers a new peer at counter 0 if it is not already known.
func (c *VectorClock) AddNode(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counts[id]; !ok {
		c.counts[id] = 0
	}
}

// Get returns the counter value this clock tracks for id (0 if unknown).
func (c *VectorClock) Get(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id]
}

// HappenedBefore reports whether self causally precedes other: every
// component of self is less than or equal to the corresponding
// component of other (missing in other treated as 0), and at least one
// component is strictly less - OR other mentions a node self does not
// know about with a value greater than 0.
func HappenedBefore(self, other Snapshot) bool {
	strictlyLess := false
	for node, selfVal := range self {
		otherVal := other[node]
		if selfVal > otherVal {
			return false
		}
		if selfVal < otherVal {
			strictlyLess = true
		}
	}
	for node, otherVal := range other {
		if _, known := self[node]; !known && otherVal > 0 {
			strictlyLess = true
		}
	}
	return strictlyLess
}
