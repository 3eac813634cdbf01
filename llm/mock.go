// Copyright 2025 Reposcope Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Mock is an Invoker that answers locally with a prompt preview. Used
// when no API key is configured and in tests; it never fails.
type Mock struct{}

const mockPreviewLen = 200

// Invoke implements Invoker.
func (Mock) Invoke(ctx context.Context, req Request) (string, error) {
	preview := req.Prompt
	if utf8.RuneCountInString(preview) > mockPreviewLen {
		runes := []rune(preview)
		preview = string(runes[:mockPreviewLen]) + "..."
	}
	return fmt.Sprintf("[mock response for model %s]\n\nPrompt preview:\n%s", req.Model, preview), nil
}
