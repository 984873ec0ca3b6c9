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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"draftview/internal/entity"
)

// ExportPDF writes the document to a single-page vector PDF at outPath.
// Built-in Helvetica keeps text vector without embedding fonts.
func ExportPDF(doc entity.Document, outPath string, opt Options) error {
	opt = opt.withDefaults()
	tf := fitView(doc.Entities, opt)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: opt.Width, Ht: opt.Height},
		OrientationStr: "",
	})
	title := doc.Name
	if title == "" {
		title = "Drawing"
	}
	pdf.SetTitle(title, false)
	pdf.SetAuthor("DraftView", false)
	pdf.SetFont("Helvetica", "", opt.FontSize)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: opt.Width, Ht: opt.Height})

	for _, e := range doc.Entities {
		if opt.Selected && e.Selected {
			pdf.SetDrawColor(30, 102, 208)
			pdf.SetTextColor(30, 102, 208)
		} else {
			pdf.SetDrawColor(0, 0, 0)
			pdf.SetTextColor(0, 0, 0)
		}
		switch e.Kind {
		case entity.KindLine:
			a := tf.WorldToScreen(e.Start)
			b := tf.WorldToScreen(e.End)
			pdf.SetLineWidth(opt.LineWidth)
			pdf.Line(a.X, a.Y, b.X, b.Y)
		case entity.KindText:
			p := tf.WorldToScreen(e.Position)
			pdf.Text(p.X, p.Y, e.Text)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
