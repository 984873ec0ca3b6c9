/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"draftview/internal/entity"
	"draftview/internal/geom"
)

// Selection owns the set of selected entity ids. Every id it holds must
// reference a currently-present entity; Reconcile enforces that after
// removals.
type Selection struct {
	ids map[string]bool
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Single replaces the selection with the one id.
func (s *Selection) Single(id string) {
	s.ids = map[string]bool{id: true}
}

// Add grows the selection by one id (multi-select modifier held).
func (s *Selection) Add(id string) { s.ids[id] = true }

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = make(map[string]bool) }

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return s.ids[id] }

// Count returns the number of selected ids.
func (s *Selection) Count() int { return len(s.ids) }

// IDs returns a copy of the selection set.
func (s *Selection) IDs() map[string]bool {
	out := make(map[string]bool, len(s.ids))
	for id := range s.ids {
		out[id] = true
	}
	return out
}

// SelectBox selects every entity with any defining point inside the
// world-space rect: both endpoints count for a line, the anchor for text.
// With additive false the selection is replaced, otherwise unioned.
func (s *Selection) SelectBox(rect geom.Rect, entities []entity.Entity, additive bool) {
	if !additive {
		s.ids = make(map[string]bool)
	}
	for _, e := range entities {
		for _, p := range e.Points() {
			if rect.Contains(p) {
				s.ids[e.ID] = true
				break
			}
		}
	}
}

// Reconcile drops any id that no longer references a present entity.
func (s *Selection) Reconcile(present map[string]bool) {
	for id := range s.ids {
		if !present[id] {
			delete(s.ids, id)
		}
	}
}
