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
	"math"
	"testing"

	"draftview/internal/geom"
)

func almostEqual(a, b geom.Pt) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestWorldScreenRoundTrip(t *testing.T) {
	cases := []struct {
		tf Transform
		p  geom.Pt
	}{
		{Transform{Scale: 1, Pan: geom.Pt{}}, geom.Pt{X: 3, Y: 4}},
		{Transform{Scale: 2.5, Pan: geom.Pt{X: 400, Y: 300}}, geom.Pt{X: -17.25, Y: 42.5}},
		{Transform{Scale: 0.001, Pan: geom.Pt{X: -9, Y: 12000}}, geom.Pt{X: 1e6, Y: -1e6}},
	}
	for _, c := range cases {
		got := c.tf.ScreenToWorld(c.tf.WorldToScreen(c.p))
		if !almostEqual(got, c.p) {
			t.Fatalf("round trip %+v via %+v = %+v", c.p, c.tf, got)
		}
	}
}

func TestWorldToScreenFlipsY(t *testing.T) {
	tf := Transform{Scale: 2, Pan: geom.Pt{X: 100, Y: 100}}
	s := tf.WorldToScreen(geom.Pt{X: 0, Y: 10})
	// World Y-up: a point above the origin lands above (smaller screen Y).
	if s.Y >= 100 {
		t.Fatalf("expected screen Y < pan Y, got %v", s.Y)
	}
	if s.X != 100 {
		t.Fatalf("expected screen X unchanged at world X=0, got %v", s.X)
	}
}

func TestZoomAtKeepsPointerStationary(t *testing.T) {
	tf := Transform{Scale: 1.5, Pan: geom.Pt{X: 40, Y: 60}}
	pointer := geom.Pt{X: 321, Y: 123}
	before := tf.ScreenToWorld(pointer)
	for _, factor := range []float64{1.05, 1 / 1.05, 3, 0.25} {
		z := tf.ZoomAt(pointer, factor, 0, 0)
		after := z.ScreenToWorld(pointer)
		if !almostEqual(before, after) {
			t.Fatalf("factor %v moved world point under pointer: %+v -> %+v", factor, before, after)
		}
		if z.Scale <= 0 {
			t.Fatalf("scale must stay positive, got %v", z.Scale)
		}
	}
}

func TestZoomAtClampsButKeepsInvariant(t *testing.T) {
	tf := Transform{Scale: 1, Pan: geom.Pt{}}
	pointer := geom.Pt{X: 50, Y: 50}
	before := tf.ScreenToWorld(pointer)
	z := tf.ZoomAt(pointer, 100, 0, 4)
	if z.Scale != 4 {
		t.Fatalf("scale = %v, want clamp at 4", z.Scale)
	}
	if !almostEqual(before, z.ScreenToWorld(pointer)) {
		t.Fatalf("pointer invariant broken under clamping")
	}
	z = tf.ZoomAt(pointer, 1e-9, 0.5, 0)
	if z.Scale != 0.5 {
		t.Fatalf("scale = %v, want clamp at 0.5", z.Scale)
	}
}

func TestNewTransformRejectsNonPositiveScale(t *testing.T) {
	if tf := NewTransform(0, geom.Pt{}); tf.Scale != 1 {
		t.Fatalf("zero scale should fall back to 1, got %v", tf.Scale)
	}
	if tf := NewTransform(-2, geom.Pt{}); tf.Scale != 1 {
		t.Fatalf("negative scale should fall back to 1, got %v", tf.Scale)
	}
}
