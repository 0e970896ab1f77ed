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
Package replication is the coordinator that ties the queue, the vector
clock, the op log, and a reorder buffer together into one replicated
FIFO: local operations apply immediately and synthesize an Event to
broadcast, remote events apply in causal per-origin order or wait in
the reorder buffer until they can.

Duplicate suppression is decided off a per-origin set of applied
global ids, and the causality gate off a per-origin "highest applied
sequence" counter, not off the vector clock's own per-origin component. The vector clock's component for a
node is advanced eagerly the moment any event from that node is
*seen*, including one still sitting in the reorder buffer; gating
admission on that value would compare an origin's sequence number
against itself and could never be satisfied. Tracking "highest
applied" separately keeps "seen" (the clock) and "delivered in order"
(the gate) as two different questions, which is what the causality
gate needs to ask.
*/
package replication

import (
	"container/heap"
	"strconv"
	"sync"

	"replifo/internal/clock"
	"replifo/internal/config"
	"replifo/internal/event"
	"replifo/internal/logging"
	"replifo/internal/oplog"
	"replifo/internal/queue"
)

// eventHeap is a container/heap.Interface over events ordered by
// event.Less, used as the reorder buffer.
type eventHeap[T any] []event.Event[T]

func (h eventHeap[T]) Len() int            { return len(h) }
func (h eventHeap[T]) Less(i, j int) bool  { return event.Less(h[i], h[j]) }
func (h eventHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *eventHeap[T]) Push(x any)         { *h = append(*h, x.(event.Event[T])) }
func (h *eventHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ReplicationEngine is a single replica: one node's view of a
// replicated FIFO queue, kept consistent with its peers by applying
// Events in causal order.
type ReplicationEngine[T any] struct {
	nodeID string
	log    *logging.Logger

	queueMu sync.Mutex
	queue   *queue.Queue[T]

	opLog *oplog.Log[T]
	clk   *clock.VectorClock

	appliedMu  sync.Mutex
	applied    map[string]map[uint64]struct{}
	appliedSeq map[string]uint64

	bufferMu sync.Mutex
	buffer   eventHeap[T]
}

// New creates a single-node engine.
func New[T any](nodeID string) *ReplicationEngine[T] {
	return &ReplicationEngine[T]{
		nodeID:     nodeID,
		log:        logging.NewLogger("replication").With("node", nodeID),
		queue:      queue.New[T](),
		opLog:      oplog.New[T](nodeID),
		clk:        clock.New(nodeID),
		applied:    make(map[string]map[uint64]struct{}),
		appliedSeq: make(map[string]uint64),
	}
}

// NewWithPeers creates an engine whose clock already knows about peers.
func NewWithPeers[T any](nodeID string, peers []string) *ReplicationEngine[T] {
	e := New[T](nodeID)
	e.clk = clock.NewWithPeers(nodeID, peers)
	return e
}

// NewEngine wires an engine from a validated config.NodeConfig: the
// clock is pre-populated with cfg.Peers and the bound logger carries
// the configured node id, matching every other front end's engine
// construction path.
func NewEngine[T any](cfg config.NodeConfig) *ReplicationEngine[T] {
	return NewWithPeers[T](cfg.NodeID, cfg.Peers)
}

// Enqueue appends item locally, logs it, and returns the Event to
// broadcast to peers.
func (e *ReplicationEngine[T]) Enqueue(item T) event.Event[T] {
	vt := e.clk.TickSnapshot()
	ev := event.NewEnqueue(e.nodeID, item, vt)
	e.applyEnqueueOp(item, vt, &ev)
	return ev
}

// Dequeue removes the head item locally (if any), logs it, and returns
// the Event to broadcast to peers alongside the usual (item, ok) pair.
func (e *ReplicationEngine[T]) Dequeue() (T, bool, event.Event[T]) {
	vt := e.clk.TickSnapshot()

	e.queueMu.Lock()
	item, ok := e.queue.Dequeue()
	e.queueMu.Unlock()

	itemPtr := optionalPtr(item, ok)
	ev := event.NewDequeue(e.nodeID, itemPtr, vt)
	e.opLog.Append(event.Dequeue, itemPtr, oplog.Delivered, vt, &ev)
	e.markApplied(ev)
	return item, ok, ev
}

// ApplyRemoteEvent merges ev's clock into this engine's clock
// unconditionally, then either applies ev immediately, drops it as a
// duplicate, or holds it in the reorder buffer until its origin's
// causal predecessor has been applied. Reports whether ev was applied
// immediately.
func (e *ReplicationEngine[T]) ApplyRemoteEvent(ev event.Event[T]) bool {
	e.clk.AddNode(ev.OriginNode)
	e.clk.Update(ev.Clock)

	if e.isDuplicate(ev) {
		e.log.Debug("dropped duplicate remote event",
			"origin", ev.OriginNode, "global_id", strconv.FormatUint(ev.GlobalID, 10))
		return false
	}

	if e.canApply(ev) {
		e.applyImmediately(ev)
		e.drain()
		return true
	}

	e.bufferMu.Lock()
	heap.Push(&e.buffer, ev)
	e.bufferMu.Unlock()
	e.log.Debug("buffered out-of-order remote event",
		"origin", ev.OriginNode, "global_id", strconv.FormatUint(ev.GlobalID, 10))
	return false
}

// canApply reports whether ev is the next expected event from its
// origin - the causality gate of spec §4.3.
func (e *ReplicationEngine[T]) canApply(ev event.Event[T]) bool {
	e.appliedMu.Lock()
	defer e.appliedMu.Unlock()
	return ev.Clock[ev.OriginNode] == e.appliedSeq[ev.OriginNode]+1
}

func (e *ReplicationEngine[T]) isDuplicate(ev event.Event[T]) bool {
	e.appliedMu.Lock()
	defer e.appliedMu.Unlock()
	set, ok := e.applied[ev.OriginNode]
	if !ok {
		return false
	}
	_, dup := set[ev.GlobalID]
	return dup
}

func (e *ReplicationEngine[T]) markApplied(ev event.Event[T]) {
	e.appliedMu.Lock()
	defer e.appliedMu.Unlock()
	set, ok := e.applied[ev.OriginNode]
	if !ok {
		set = make(map[uint64]struct{})
		e.applied[ev.OriginNode] = set
	}
	set[ev.GlobalID] = struct{}{}
	if seq := ev.Clock[ev.OriginNode]; seq > e.appliedSeq[ev.OriginNode] {
		e.appliedSeq[ev.OriginNode] = seq
	}
}

func (e *ReplicationEngine[T]) applyImmediately(ev event.Event[T]) {
	switch ev.Op {
	case event.Enqueue:
		if ev.Item != nil {
			e.applyEnqueueOp(*ev.Item, ev.Clock, &ev)
			return
		}
		e.markApplied(ev)
	case event.Dequeue:
		e.applyDequeueOp(ev.Clock, &ev)
	}
}

func (e *ReplicationEngine[T]) applyEnqueueOp(item T, clk clock.Snapshot, ev *event.Event[T]) {
	e.queueMu.Lock()
	e.queue.Enqueue(item)
	e.queueMu.Unlock()

	e.opLog.Append(event.Enqueue, &item, oplog.Committed, clk, ev)
	e.markApplied(*ev)
}

func (e *ReplicationEngine[T]) applyDequeueOp(clk clock.Snapshot, ev *event.Event[T]) {
	e.queueMu.Lock()
	item, ok := e.queue.Dequeue()
	e.queueMu.Unlock()

	itemPtr := optionalPtr(item, ok)
	e.opLog.Append(event.Dequeue, itemPtr, oplog.Delivered, clk, ev)
	e.markApplied(*ev)
}

// drain applies every buffered event that has become admissible,
// repeating until a full sweep applies nothing new. The buffer lock is
// released before any event is applied, since applying re-enters the
// queue and log locks and may recurse into a nested drain-free apply
// path.
func (e *ReplicationEngine[T]) drain() {
	for {
		e.bufferMu.Lock()
		var toApply []event.Event[T]
		var remaining eventHeap[T]
		for e.buffer.Len() > 0 {
			ev := heap.Pop(&e.buffer).(event.Event[T])
			if e.canApply(ev) {
				toApply = append(toApply, ev)
			} else {
				remaining = append(remaining, ev)
			}
		}
		e.buffer = remaining
		heap.Init(&e.buffer)
		e.bufferMu.Unlock()

		if len(toApply) == 0 {
			return
		}
		for _, ev := range toApply {
			if e.isDuplicate(ev) {
				continue
			}
			e.applyImmediately(ev)
		}
	}
}

// QueueState returns the current length and emptiness of the queue.
func (e *ReplicationEngine[T]) QueueState() (int, bool) {
	e.queueMu.Lock()
	defer e.queueMu.Unlock()
	return e.queue.Len(), e.queue.IsEmpty()
}

// Logs returns every entry this engine has recorded so far.
func (e *ReplicationEngine[T]) Logs() []oplog.LogEntry[T] {
	return e.opLog.Entries()
}

// EntriesSince returns the log entries whose clock has moved past
// baseline in at least one component.
func (e *ReplicationEngine[T]) EntriesSince(baseline clock.Snapshot) []oplog.LogEntry[T] {
	return e.opLog.GetEntriesSince(baseline)
}

// Clock returns the local node's own counter value.
func (e *ReplicationEngine[T]) Clock() uint64 {
	return e.clk.Now()
}

// ClockSnapshot returns a value copy of the full vector clock.
func (e *ReplicationEngine[T]) ClockSnapshot() clock.Snapshot {
	return e.clk.Snapshot()
}

// NodeID returns this engine's node identifier.
func (e *ReplicationEngine[T]) NodeID() string {
	return e.nodeID
}

// PendingEventsCount returns the number of events currently held in
// the reorder buffer.
func (e *ReplicationEngine[T]) PendingEventsCount() int {
	e.bufferMu.Lock()
	defer e.bufferMu.Unlock()
	return e.buffer.Len()
}

// FlushSink appends this engine's complete log to path as JSONL.
func (e *ReplicationEngine[T]) FlushSink(path string) error {
	return oplog.WriteJSONL(path, e.opLog.Entries())
}

func optionalPtr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}
