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
	"github.com/google/uuid"

	"draftview/internal/geom"
)

// Store is the authoritative in-memory entity list for the currently open
// drawing. It is exclusively owned by the viewport engine; the host only ever
// receives snapshots. All mutating methods keep list order stable, which is
// also the hit-test and draw order.
type Store struct {
	entities []Entity
}

// NewStore ingests the given entities and returns a store owning the result.
func NewStore(entities []Entity) *Store {
	s := &Store{}
	s.Ingest(entities)
	return s
}

// Ingest replaces the store contents with the given list, assigning a fresh
// unique id to any entity missing one. Existing ids are preserved, so calling
// Ingest again with an already-ingested list is id-stable. A duplicated
// incoming id keeps its first occurrence and the later one is re-identified,
// so id uniqueness holds across the store.
func (s *Store) Ingest(entities []Entity) {
	seen := make(map[string]bool, len(entities))
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.ID == "" || seen[e.ID] {
			e.ID = uuid.NewString()
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	s.entities = out
}

// Len returns the number of entities.
func (s *Store) Len() int { return len(s.entities) }

// Entities returns the live list. Callers must treat it as read-only; use
// Snapshot for a copy that may escape the engine.
func (s *Store) Entities() []Entity { return s.entities }

// Snapshot returns an independent copy of the entity list with the transient
// selected flag cleared, suitable for handing back to the host.
func (s *Store) Snapshot() []Entity {
	out := make([]Entity, len(s.entities))
	for i, e := range s.entities {
		e.Selected = false
		out[i] = e
	}
	return out
}

// IDs returns the set of currently-present entity ids.
func (s *Store) IDs() map[string]bool {
	ids := make(map[string]bool, len(s.entities))
	for _, e := range s.entities {
		ids[e.ID] = true
	}
	return ids
}

// ApplySelection sets each entity's selected flag from the given id set.
func (s *Store) ApplySelection(ids map[string]bool) {
	for i := range s.entities {
		s.entities[i].Selected = ids[s.entities[i].ID]
	}
}

// Remove drops all entities whose id is in the given set and reports how many
// were removed. The caller (selection manager) is responsible for dropping the
// same ids from its selection set.
func (s *Store) Remove(ids map[string]bool) int {
	if len(ids) == 0 {
		return 0
	}
	out := s.entities[:0]
	removed := 0
	for _, e := range s.entities {
		if ids[e.ID] {
			removed++
			continue
		}
		out = append(out, e)
	}
	s.entities = out
	return removed
}

// Translate shifts every entity whose id is in the set by delta (world units).
// Entities outside the set pass through untouched.
func (s *Store) Translate(ids map[string]bool, delta geom.Pt) {
	if len(ids) == 0 || (delta.X == 0 && delta.Y == 0) {
		return
	}
	for i := range s.entities {
		if ids[s.entities[i].ID] {
			s.entities[i] = s.entities[i].Translate(delta)
		}
	}
}
