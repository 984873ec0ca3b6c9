/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"draftview/internal/entity"
)

// ExportPNG writes the document to a raster PNG at outPath.
func ExportPNG(doc entity.Document, outPath string, opt Options) error {
	opt = opt.withDefaults()
	tf := fitView(doc.Entities, opt)

	w := int(math.Round(opt.Width))
	h := int(math.Round(opt.Height))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// Background white
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	black := color.RGBA{0, 0, 0, 255}
	highlight := color.RGBA{30, 102, 208, 255}

	for _, e := range doc.Entities {
		col := black
		if opt.Selected && e.Selected {
			col = highlight
		}
		switch e.Kind {
		case entity.KindLine:
			a := tf.WorldToScreen(e.Start)
			b := tf.WorldToScreen(e.End)
			strokeLine(img, a.X, a.Y, b.X, b.Y, col)
		case entity.KindText:
			p := tf.WorldToScreen(e.Position)
			drawLabel(img, int(math.Round(p.X)), int(math.Round(p.Y)), e.Text, col)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// strokeLine rasterizes a 1px segment with a basic DDA walk.
func strokeLine(img *image.RGBA, x0, y0, x1, y1 float64, col color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.SetRGBA(int(math.Round(x0)), int(math.Round(y0)), col)
		return
	}
	sx := dx / float64(steps)
	sy := dy / float64(steps)
	x, y := x0, y0
	for i := 0; i <= steps; i++ {
		img.SetRGBA(int(math.Round(x)), int(math.Round(y)), col)
		x += sx
		y += sy
	}
}

// drawLabel renders text with the fixed-size basicfont face; (x, y) is the baseline origin.
func drawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
