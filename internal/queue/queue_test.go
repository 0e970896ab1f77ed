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

package queue

import "testing"

func TestEnqueueIncreasesLength(t *testing.T) {
	q := New[string]()
	q.Enqueue("a")
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	q.Enqueue("b")
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
}

func TestDequeueOrderAndLength(t *testing.T) {
	q := New[string]()
	q.Enqueue("a")
	q.Enqueue("b")

	item, ok := q.Dequeue()
	if !ok || item != "a" {
		t.Fatalf("Dequeue() = (%v, %v), want (a, true)", item, ok)
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}

	item, ok = q.Dequeue()
	if !ok || item != "b" {
		t.Fatalf("Dequeue() = (%v, %v), want (b, true)", item, ok)
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}

func TestDequeueEmptyReturnsAbsent(t *testing.T) {
	q := New[int]()
	_, ok := q.Dequeue()
	if ok {
		t.Fatal("Dequeue() on empty queue returned ok=true")
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 unchanged", q.Len())
	}
}

func TestIsEmpty(t *testing.T) {
	q := New[int]()
	if !q.IsEmpty() {
		t.Fatal("IsEmpty() = false on fresh queue")
	}
	q.Enqueue(1)
	if q.IsEmpty() {
		t.Fatal("IsEmpty() = true after enqueue")
	}
}
