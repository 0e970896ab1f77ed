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
Package config holds the typed configuration for one replifo node:
its identity, the peers it should widen its vector clock for, where its
operation log is flushed to, and how it logs.

There is no environment-variable or file-based loader here — per the
replication engine's external interface, configuration flows through
explicit constructor parameters or command-line flags on the cmd/
front ends, never ambient process state.
*/
package config

import (
	"strings"

	"replifo/internal/apperrors"
	"replifo/internal/logging"
)

// NodeConfig is the configuration for one replication engine instance.
type NodeConfig struct {
	// NodeID identifies this node. Must be non-empty.
	NodeID string
	// Peers are the other known node ids; the engine's vector clock is
	// pre-populated with a zero counter for each (see spec §6
	// new_with_nodes). May be empty for single-node/testing use.
	Peers []string
	// SinkPath is the base path of the node's JSONL sink. The engine
	// does not read it: FlushSink takes its path as an argument, and
	// replifo-node appends each node's log to <sink>.<node-id>.jsonl
	// built from its own -sink flag.
	SinkPath string
	// LogLevel is parsed with logging.ParseLevel; empty defaults to INFO.
	LogLevel string
	// LogJSON selects single-line JSON log output instead of text.
	LogJSON bool
}

// DefaultConfig returns a single-node configuration with no peers and
// no sink, suitable for in-process testing (spec §6 `new`).
func DefaultConfig(nodeID string) NodeConfig {
	return NodeConfig{
		NodeID:   nodeID,
		Peers:    nil,
		SinkPath: "",
		LogLevel: "info",
		LogJSON:  false,
	}
}

// Validate checks the configuration for internal consistency.
func (c NodeConfig) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return apperrors.NewConfigError(apperrors.CodeInvalidNodeID, "node id must not be empty")
	}
	seen := map[string]bool{c.NodeID: true}
	for _, p := range c.Peers {
		if strings.TrimSpace(p) == "" {
			return apperrors.NewConfigError(apperrors.CodeInvalidPeer, "peer id must not be empty")
		}
		if seen[p] {
			return apperrors.NewConfigError(apperrors.CodeInvalidPeer, "duplicate peer id: "+p)
		}
		seen[p] = true
	}
	return nil
}

// Level parses LogLevel, defaulting to INFO on an empty or unknown value.
func (c NodeConfig) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}
