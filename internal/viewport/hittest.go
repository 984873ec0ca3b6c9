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

const (
	// avgGlyphWidthPx estimates label extent for text hit boxes; labels are
	// drawn at a fixed pixel size, so both values are divided by the current
	// scale to get world units.
	avgGlyphWidthPx = 8.0
	labelHeightPx   = 14.0
)

// HitTest returns the id of the first entity under the given screen point, in
// store order. The pixel tolerance is converted to world units so the pick
// radius stays visually constant across zoom levels. Unknown kinds never
// match. The second return is false when nothing is hit.
func HitTest(entities []entity.Entity, screen geom.Pt, t Transform, tolerancePx float64) (string, bool) {
	w := t.ScreenToWorld(screen)
	tol := tolerancePx / t.Scale
	for _, e := range entities {
		if hitEntity(e, w, tol, t.Scale) {
			return e.ID, true
		}
	}
	return "", false
}

func hitEntity(e entity.Entity, w geom.Pt, tol, scale float64) bool {
	switch e.Kind {
	case entity.KindLine:
		return geom.SegmentDist(w, e.Start, e.End) <= tol
	case entity.KindText:
		return textBox(e, scale).Contains(w)
	default:
		return false
	}
}

// textBox is the world-space pick box for a label: anchored at the position,
// extending rightward by the estimated text width and upward by the label
// height (world Y-up).
func textBox(e entity.Entity, scale float64) geom.Rect {
	width := float64(len([]rune(e.Text))) * avgGlyphWidthPx / scale
	height := labelHeightPx / scale
	return geom.Rect{
		MinX: e.Position.X,
		MinY: e.Position.Y,
		MaxX: e.Position.X + width,
		MaxY: e.Position.Y + height,
	}
}
