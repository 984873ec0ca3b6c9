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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema validates the structural shape of a drawing document before
// decoding. It is deliberately permissive about entity kinds and coordinate
// fields: unknown kinds are legal (forward compatibility) and missing
// coordinates decode as 0 rather than failing ingestion.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["entities"],
  "properties": {
    "name": {"type": "string"},
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind"],
        "properties": {
          "id": {"type": "string"},
          "kind": {"type": "string", "minLength": 1},
          "start": {"$ref": "#/definitions/point"},
          "end": {"$ref": "#/definitions/point"},
          "position": {"$ref": "#/definitions/point"},
          "text": {"type": "string"}
        }
      }
    }
  },
  "definitions": {
    "point": {
      "type": "object",
      "properties": {
        "x": {"type": "number"},
        "y": {"type": "number"}
      }
    }
  }
}`

// DecodeDocument validates raw JSON against the document schema and decodes
// it. Validation errors are joined into a single error so callers can show one
// message per bad file.
func DecodeDocument(raw []byte) (Document, error) {
	res, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return Document{}, fmt.Errorf("validate document: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return Document{}, fmt.Errorf("invalid drawing document: %s", strings.Join(msgs, "; "))
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// EncodeDocument marshals a document in the human-readable form used for
// drawing files and host hand-offs.
func EncodeDocument(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}
