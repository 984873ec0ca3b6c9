/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"bytes"
	"testing"
	"time"
)

func snap(label, blob string, ts time.Time) Snapshot {
	return Snapshot{Label: label, Blob: []byte(blob), TS: ts}
}

func TestPushUndoRedo(t *testing.T) {
	m := NewManager(Config{})
	t0 := time.Now()
	m.Push(snap("move", "v1", t0))
	m.Push(snap("delete", "v2", t0.Add(time.Second)))

	if !m.CanUndo() || m.CanRedo() {
		t.Fatalf("expected undo available, redo empty")
	}
	s, ok := m.Undo()
	if !ok || !bytes.Equal(s.Blob, []byte("v2")) {
		t.Fatalf("Undo returned %q, %v", s.Blob, ok)
	}
	if !m.CanRedo() {
		t.Fatalf("redo should be available after undo")
	}
	s, ok = m.Redo()
	if !ok || !bytes.Equal(s.Blob, []byte("v2")) {
		t.Fatalf("Redo returned %q, %v", s.Blob, ok)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{})
	t0 := time.Now()
	m.Push(snap("move", "v1", t0))
	m.Push(snap("move", "v2", t0.Add(time.Second)))
	if _, ok := m.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	m.Push(snap("delete", "v3", t0.Add(2*time.Second)))
	if m.CanRedo() {
		t.Fatalf("push must clear the redo stack")
	}
}

func TestCoalescingSameLabelWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	t0 := time.Now()
	m.Push(snap("move", "a", t0))
	m.Push(snap("move", "ab", t0.Add(100*time.Millisecond)))
	_, depth := m.Stats()
	if depth != 1 {
		t.Fatalf("rapid same-label pushes should coalesce, depth = %d", depth)
	}
	s, _ := m.Undo()
	if !bytes.Equal(s.Blob, []byte("ab")) {
		t.Fatalf("coalesced snapshot should be the latest, got %q", s.Blob)
	}

	// Different label within the interval must not coalesce.
	m2 := NewManager(Config{MinInterval: time.Second})
	m2.Push(snap("move", "a", t0))
	m2.Push(snap("delete", "b", t0.Add(100*time.Millisecond)))
	if _, depth := m2.Stats(); depth != 2 {
		t.Fatalf("distinct labels must not coalesce, depth = %d", depth)
	}
}

func TestDepthCapDropsOldest(t *testing.T) {
	m := NewManager(Config{MaxDepth: 2, MinInterval: time.Nanosecond})
	t0 := time.Now()
	m.Push(snap("move", "v1", t0))
	m.Push(snap("move", "v2", t0.Add(time.Second)))
	m.Push(snap("move", "v3", t0.Add(2*time.Second)))
	if _, depth := m.Stats(); depth != 2 {
		t.Fatalf("depth cap not enforced: %d", depth)
	}
	s, _ := m.Undo()
	if !bytes.Equal(s.Blob, []byte("v3")) {
		t.Fatalf("newest entry should survive, got %q", s.Blob)
	}
}

func TestByteCapPrunes(t *testing.T) {
	m := NewManager(Config{MaxBytes: 10, MinInterval: time.Nanosecond})
	t0 := time.Now()
	m.Push(snap("move", "aaaaa", t0))                    // 5 bytes
	m.Push(snap("move", "bbbbb", t0.Add(time.Second)))   // 10 total
	m.Push(snap("move", "ccccc", t0.Add(2*time.Second))) // 15, prune oldest
	total, depth := m.Stats()
	if total > 10 || depth != 2 {
		t.Fatalf("byte cap not enforced: bytes=%d depth=%d", total, depth)
	}
}

func TestClear(t *testing.T) {
	m := NewManager(Config{})
	m.Push(snap("move", "v1", time.Now()))
	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("clear left stacks populated")
	}
	if total, depth := m.Stats(); total != 0 || depth != 0 {
		t.Fatalf("clear left accounting: bytes=%d depth=%d", total, depth)
	}
}

func TestUndoEmpty(t *testing.T) {
	m := NewManager(Config{})
	if _, ok := m.Undo(); ok {
		t.Fatalf("undo on empty stack should report false")
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo on empty stack should report false")
	}
}
