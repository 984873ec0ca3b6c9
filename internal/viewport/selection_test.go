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
	"testing"

	"draftview/internal/entity"
	"draftview/internal/geom"
)

func TestSingleAndAdditive(t *testing.T) {
	s := NewSelection()
	s.Single("a")
	s.Single("b")
	if s.Count() != 1 || !s.Has("b") {
		t.Fatalf("Single should replace, got %v", s.IDs())
	}
	s.Add("c")
	if s.Count() != 2 || !s.Has("b") || !s.Has("c") {
		t.Fatalf("Add should union, got %v", s.IDs())
	}
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("Clear left %d ids", s.Count())
	}
}

func TestSelectBoxTextAnchor(t *testing.T) {
	ents := []entity.Entity{{ID: "t1", Kind: entity.KindText, Position: geom.Pt{}, Text: "AB"}}
	s := NewSelection()
	s.SelectBox(geom.R(geom.Pt{X: -1, Y: -1}, geom.Pt{X: 1, Y: 1}), ents, false)
	if !s.Has("t1") {
		t.Fatalf("box covering the anchor should select the text")
	}
	s.SelectBox(geom.R(geom.Pt{X: 5, Y: 5}, geom.Pt{X: 6, Y: 6}), ents, false)
	if s.Count() != 0 {
		t.Fatalf("box away from the anchor should select nothing, got %v", s.IDs())
	}
}

func TestSelectBoxLineEndpoints(t *testing.T) {
	ents := []entity.Entity{
		{ID: "l1", Kind: entity.KindLine, Start: geom.Pt{X: 0, Y: 0}, End: geom.Pt{X: 100, Y: 0}},
		{ID: "l2", Kind: entity.KindLine, Start: geom.Pt{X: 50, Y: 50}, End: geom.Pt{X: 60, Y: 50}},
	}
	s := NewSelection()
	// Any endpoint inside counts; l1's start corner qualifies, l2 does not.
	s.SelectBox(geom.R(geom.Pt{X: -5, Y: -5}, geom.Pt{X: 5, Y: 5}), ents, false)
	if !s.Has("l1") || s.Has("l2") {
		t.Fatalf("unexpected box selection: %v", s.IDs())
	}
}

func TestSelectBoxAdditiveUnions(t *testing.T) {
	ents := []entity.Entity{
		{ID: "a", Kind: entity.KindText, Position: geom.Pt{X: 0, Y: 0}},
		{ID: "b", Kind: entity.KindText, Position: geom.Pt{X: 100, Y: 100}},
	}
	s := NewSelection()
	s.Single("a")
	s.SelectBox(geom.R(geom.Pt{X: 99, Y: 99}, geom.Pt{X: 101, Y: 101}), ents, true)
	if !s.Has("a") || !s.Has("b") {
		t.Fatalf("additive box should keep prior selection: %v", s.IDs())
	}
	s.SelectBox(geom.R(geom.Pt{X: 99, Y: 99}, geom.Pt{X: 101, Y: 101}), ents, false)
	if s.Has("a") || !s.Has("b") {
		t.Fatalf("non-additive box should replace: %v", s.IDs())
	}
}

func TestReconcileDropsMissingIDs(t *testing.T) {
	s := NewSelection()
	s.Add("alive")
	s.Add("gone")
	s.Reconcile(map[string]bool{"alive": true})
	if s.Has("gone") || !s.Has("alive") {
		t.Fatalf("reconcile mismatch: %v", s.IDs())
	}
}
