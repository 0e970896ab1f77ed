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
Package oplog is the append-only record of every operation a
replication engine has applied to its queue, local or remote. Entries
are never removed or reordered; only their State transitions in place.
*/
package oplog

import (
	"sync"
	"sync/atomic"

	"replifo/internal/apperrors"
	"replifo/internal/clock"
	"replifo/internal/event"
)

// State is the lifecycle stage of a LogEntry.
type State int

const (
	Pending State = iota
	Committed
	Delivered
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Committed:
		return "Committed"
	case Delivered:
		return "Delivered"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// LogEntry records one applied operation: which node applied it, under
// what clock, which event (if any) it originated from, and the
// entry's own lifecycle state.
type LogEntry[T any] struct {
	LocalLogID     uint64         `json:"local_log_id"`
	LocalNode      string         `json:"local_node"`
	Op             event.Op       `json:"op"`
	Item           *T             `json:"item,omitempty"`
	State          State          `json:"state"`
	Clock          clock.Snapshot `json:"clock"`
	EventGlobalID  *uint64        `json:"event_global_id,omitempty"`
	Event          *event.Event[T] `json:"event,omitempty"`
}

// localLogID is the process-wide counter every Log draws its
// local_log_id values from.
var localLogID uint64

// Log is the append-only sequence of LogEntry values a single node
// accumulates. Every Log shares the one process-wide local_log_id
// counter, so an id is never reused, even across entries in Failed
// state.
type Log[T any] struct {
	mu        sync.Mutex
	localNode string
	entries   []LogEntry[T]
}

// New creates an empty log for localNode.
func New[T any](localNode string) *Log[T] {
	return &Log[T]{localNode: localNode}
}

// Append records a new log entry and returns its assigned
// local_log_id. state is the caller's choice: the replication engine
// logs every Enqueue as Committed and every Dequeue as Delivered,
// regardless of whether the operation originated locally or was
// applied on behalf of a remote event (mirrors the reference engine's
// `logger.log` call sites).
func (l *Log[T]) Append(op event.Op, item *T, state State, clk clock.Snapshot, ev *event.Event[T]) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if op != event.Enqueue && op != event.Dequeue {
		panic(apperrors.NewInvariantError(apperrors.CodeInvariantViolation, "oplog: unknown op"))
	}

	// Negative-space assertion: state must match operation, matching
	// the reference logger's own op/state cross-check.
	if op == event.Enqueue && state != Pending && state != Committed {
		panic(apperrors.NewInvariantError(apperrors.CodeInvariantViolation, "oplog: enqueue must start as Pending or Committed"))
	}
	if op == event.Dequeue && state != Delivered {
		panic(apperrors.NewInvariantError(apperrors.CodeInvariantViolation, "oplog: dequeue must result in Delivered"))
	}

	id := atomic.AddUint64(&localLogID, 1)

	var globalID *uint64
	if ev != nil {
		g := ev.GlobalID
		globalID = &g
	}

	before := len(l.entries)
	l.entries = append(l.entries, LogEntry[T]{
		LocalLogID:    id,
		LocalNode:     l.localNode,
		Op:            op,
		Item:          item,
		State:         state,
		Clock:         clk.Clone(),
		EventGlobalID: globalID,
		Event:         ev,
	})
	if len(l.entries) != before+1 {
		panic(apperrors.NewInvariantError(apperrors.CodeInvariantViolation, "oplog: length must grow by exactly one per append"))
	}
	return id
}

// UpdateEntryState transitions the entry with the given local_log_id to
// newState. Reports false if no entry carries that id.
func (l *Log[T]) UpdateEntryState(logID uint64, newState State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].LocalLogID == logID {
			l.entries[i].State = newState
			return true
		}
	}
	return false
}

// GetEntriesSince returns every entry whose clock has at least one
// component strictly greater than the corresponding component of
// baseline. This is deliberately "any component greater", not a strict
// happened-after test against the whole clock - see DESIGN.md.
func (l *Log[T]) GetEntriesSince(baseline clock.Snapshot) []LogEntry[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []LogEntry[T]
	for _, e := range l.entries {
		if anyComponentGreater(e.Clock, baseline) {
			out = append(out, e)
		}
	}
	return out
}

func anyComponentGreater(clk, baseline clock.Snapshot) bool {
	for node, v := range clk {
		if v > baseline[node] {
			return true
		}
	}
	return false
}

// Entries returns a copy of every entry recorded so far, in append
// order.
func (l *Log[T]) Entries() []LogEntry[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry[T], len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries recorded so far.
func (l *Log[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
