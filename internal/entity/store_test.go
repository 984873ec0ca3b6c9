/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package entity

import (
	"testing"

	"draftview/internal/geom"
)

func TestIngestAssignsAndPreservesIDs(t *testing.T) {
	s := NewStore([]Entity{
		{Kind: KindLine, End: geom.Pt{X: 10}},
		{ID: "keep-me", Kind: KindText, Text: "label"},
	})
	ents := s.Entities()
	if ents[0].ID == "" {
		t.Fatalf("expected generated id for first entity")
	}
	if ents[1].ID != "keep-me" {
		t.Fatalf("existing id was not preserved: %q", ents[1].ID)
	}

	// Idempotence: re-ingesting the already-ingested list keeps ids stable.
	first := append([]Entity(nil), ents...)
	s.Ingest(first)
	for i, e := range s.Entities() {
		if e.ID != first[i].ID {
			t.Fatalf("id changed on re-ingest: %q -> %q", first[i].ID, e.ID)
		}
	}
}

func TestIngestResolvesDuplicateIDs(t *testing.T) {
	s := NewStore([]Entity{
		{ID: "dup", Kind: KindLine},
		{ID: "dup", Kind: KindText},
	})
	ents := s.Entities()
	if ents[0].ID != "dup" {
		t.Fatalf("first occurrence should keep its id")
	}
	if ents[1].ID == "dup" || ents[1].ID == "" {
		t.Fatalf("duplicate id was not re-identified: %q", ents[1].ID)
	}
}

func TestApplySelectionAndSnapshot(t *testing.T) {
	s := NewStore([]Entity{
		{ID: "a", Kind: KindLine},
		{ID: "b", Kind: KindText},
	})
	s.ApplySelection(map[string]bool{"b": true})
	if s.Entities()[0].Selected || !s.Entities()[1].Selected {
		t.Fatalf("selection flags not applied: %+v", s.Entities())
	}
	// Snapshots never carry the transient flag.
	for _, e := range s.Snapshot() {
		if e.Selected {
			t.Fatalf("snapshot leaked selected flag for %q", e.ID)
		}
	}
	// Mutating the snapshot must not touch the store.
	snap := s.Snapshot()
	snap[0].Start = geom.Pt{X: 99}
	if s.Entities()[0].Start.X == 99 {
		t.Fatalf("snapshot aliases store memory")
	}
}

func TestRemove(t *testing.T) {
	s := NewStore([]Entity{
		{ID: "a", Kind: KindLine},
		{ID: "b", Kind: KindText},
		{ID: "c", Kind: KindLine},
	})
	if n := s.Remove(map[string]bool{"a": true, "c": true}); n != 2 {
		t.Fatalf("Remove returned %d, want 2", n)
	}
	if s.Len() != 1 || s.Entities()[0].ID != "b" {
		t.Fatalf("unexpected remainder: %+v", s.Entities())
	}
}

func TestTranslateOnlyTouchesSelectedKindFields(t *testing.T) {
	s := NewStore([]Entity{
		{ID: "l", Kind: KindLine, Start: geom.Pt{X: 1, Y: 1}, End: geom.Pt{X: 2, Y: 2}},
		{ID: "t", Kind: KindText, Position: geom.Pt{X: 5, Y: 5}},
		{ID: "skip", Kind: KindLine, Start: geom.Pt{X: 7, Y: 7}},
	})
	s.Translate(map[string]bool{"l": true, "t": true}, geom.Pt{X: 10, Y: -1})
	ents := s.Entities()
	if ents[0].Start.X != 11 || ents[0].Start.Y != 0 || ents[0].End.X != 12 {
		t.Fatalf("line not translated: %+v", ents[0])
	}
	if ents[1].Position.X != 15 || ents[1].Position.Y != 4 {
		t.Fatalf("text anchor not translated: %+v", ents[1])
	}
	if ents[2].Start.X != 7 {
		t.Fatalf("unselected entity moved: %+v", ents[2])
	}
}

func TestUnknownKindPassesThrough(t *testing.T) {
	e := Entity{ID: "x", Kind: "ARC", Start: geom.Pt{X: 1}}
	if got := e.Translate(geom.Pt{X: 5, Y: 5}); got.Start.X != 1 {
		t.Fatalf("unknown kind should not be translated: %+v", got)
	}
	if pts := e.Points(); pts != nil {
		t.Fatalf("unknown kind has no defining points, got %+v", pts)
	}
}
