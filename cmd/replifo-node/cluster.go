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

package main

import (
	"fmt"
	"strconv"

	"replifo/internal/event"
	"replifo/internal/logging"
	"replifo/internal/replication"
)

// cluster is the in-process stand-in for a real multi-node deployment:
// every node's engine is directly reachable, so broadcasting an event
// is just calling ApplyRemoteEvent on every peer.
type cluster struct {
	nodeIDs []string
	engines map[string]*replication.ReplicationEngine[string]
}

// broadcast applies ev to every node other than its origin.
func (c *cluster) broadcast(origin string, ev event.Event[string]) {
	for _, id := range c.nodeIDs {
		if id == origin {
			continue
		}
		c.engines[id].ApplyRemoteEvent(ev)
	}
}

// runWorker drives one node through itemsPerNode enqueues followed by
// the same number of dequeues, broadcasting every produced event to
// its peers as it goes.
func (c *cluster) runWorker(nodeID string, itemsPerNode int, log *logging.Logger) error {
	engine := c.engines[nodeID]
	wlog := log.With("node", nodeID)

	for i := 0; i < itemsPerNode; i++ {
		item := fmt.Sprintf("%s-item-%d", nodeID, i)
		ev := engine.Enqueue(item)
		wlog.Debug("enqueued", "item", item, "global_id", strconv.FormatUint(ev.GlobalID, 10))
		c.broadcast(nodeID, ev)
	}

	for i := 0; i < itemsPerNode; i++ {
		_, ok, ev := engine.Dequeue()
		if !ok {
			wlog.Warn("dequeue found an empty queue", "attempt", strconv.Itoa(i))
			c.broadcast(nodeID, ev)
			continue
		}
		wlog.Debug("dequeued", "global_id", strconv.FormatUint(ev.GlobalID, 10))
		c.broadcast(nodeID, ev)
	}

	return nil
}
