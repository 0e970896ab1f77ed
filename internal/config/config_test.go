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

package config

import (
	"testing"

	"replifo/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("n1")

	if cfg.NodeID != "n1" {
		t.Errorf("NodeID = %q, want n1", cfg.NodeID)
	}
	if len(cfg.Peers) != 0 {
		t.Errorf("Peers = %v, want empty", cfg.Peers)
	}
	if cfg.SinkPath != "" {
		t.Errorf("SinkPath = %q, want empty", cfg.SinkPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LogJSON {
		t.Error("LogJSON = true, want false")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     NodeConfig
		wantErr bool
	}{
		{"valid default", DefaultConfig("n1"), false},
		{"valid with peers", NodeConfig{NodeID: "n1", Peers: []string{"n2", "n3"}}, false},
		{"empty node id", NodeConfig{NodeID: ""}, true},
		{"blank node id", NodeConfig{NodeID: "   "}, true},
		{"empty peer id", NodeConfig{NodeID: "n1", Peers: []string{""}}, true},
		{"duplicate peer id", NodeConfig{NodeID: "n1", Peers: []string{"n2", "n2"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := NodeConfig{NodeID: "n1", LogLevel: "debug"}
	if cfg.Level() != logging.DEBUG {
		t.Errorf("Level() = %v, want DEBUG", cfg.Level())
	}

	cfg2 := NodeConfig{NodeID: "n1"}
	if cfg2.Level() != logging.INFO {
		t.Errorf("Level() = %v, want INFO", cfg2.Level())
	}
}
