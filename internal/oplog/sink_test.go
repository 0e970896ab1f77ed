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

package oplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"replifo/internal/clock"
	"replifo/internal/event"
)

func TestWriteJSONLOneObjectPerLine(t *testing.T) {
	l := New[string]("n1")
	a, b := "a", "b"
	l.Append(event.Enqueue, &a, Committed, clock.Snapshot{"n1": 1}, nil)
	l.Append(event.Enqueue, &b, Committed, clock.Snapshot{"n1": 2}, nil)

	path := filepath.Join(t.TempDir(), "log.jsonl")
	if err := WriteJSONL(path, l.Entries()); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines int
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var entry LogEntry[string]
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d did not parse as one JSON object: %v", lines, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("got %d JSONL lines, want 2", lines)
	}
}

func TestWriteJSONLEmptyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := WriteJSONL[string](path, nil); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected empty file, got %d bytes", len(data))
	}
}
