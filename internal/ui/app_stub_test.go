//go:build !fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strings"
	"testing"
)

func TestRunWithoutFyneTagFails(t *testing.T) {
	err := Run("drawing.json")
	if err == nil {
		t.Fatal("expected an error from the stub build")
	}
	if !strings.Contains(err.Error(), "-tags fyne") {
		t.Fatalf("error should point at the build tag, got: %v", err)
	}
}
