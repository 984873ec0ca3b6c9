/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package entity defines the drawing data model: a flat list of drafting
// entities exchanged with the host as a JSON document. Entities are a closed
// tagged variant over line segments and point-anchored text labels; consumers
// switch on Kind and treat anything else as an inert record so a newer
// document can still round-trip through an older viewer.
package entity

import "draftview/internal/geom"

// Kind tags the variant of an entity record.
type Kind string

const (
	KindLine Kind = "LINE"
	KindText Kind = "TEXT"
)

// Entity is one drawable drafting object.
//
// ID is opaque and unique within a collection; it is assigned at ingest when
// the source data lacks one and never reassigned afterwards. Selected is
// transient UI state, derived from the selection set — it is not part of the
// drawing and is dropped from saved documents.
type Entity struct {
	ID       string  `json:"id,omitempty"`
	Kind     Kind    `json:"kind"`
	Start    geom.Pt `json:"start,omitempty"`    // Line
	End      geom.Pt `json:"end,omitempty"`      // Line
	Position geom.Pt `json:"position,omitempty"` // Text anchor
	Text     string  `json:"text,omitempty"`     // Text label, may be empty
	Selected bool    `json:"-"`
}

// Points returns the defining world-space points of the entity: both endpoints
// for a line, the anchor for text. Unknown kinds have no defining points.
func (e Entity) Points() []geom.Pt {
	switch e.Kind {
	case KindLine:
		return []geom.Pt{e.Start, e.End}
	case KindText:
		return []geom.Pt{e.Position}
	default:
		return nil
	}
}

// Translate returns a copy of the entity shifted by delta in world space.
// Unknown kinds pass through unchanged.
func (e Entity) Translate(delta geom.Pt) Entity {
	switch e.Kind {
	case KindLine:
		e.Start = e.Start.Add(delta)
		e.End = e.End.Add(delta)
	case KindText:
		e.Position = e.Position.Add(delta)
	}
	return e
}

// Document is the entity collection as exchanged with the host: the same
// shape it was given is handed back after every structural mutation.
type Document struct {
	Name     string   `json:"name,omitempty"`
	Entities []Entity `json:"entities"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Name: d.Name}
	out.Entities = append([]Entity(nil), d.Entities...)
	return out
}
