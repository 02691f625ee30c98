// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"strings"

	"github.com/pdiddy/textract/pkg/types"
)

// Flatten joins the top candidate of every observation with newlines, in
// recognizer order. Unlike Classify it applies no structural heuristics:
// images are emitted as plain text, only PDF pages become markdown.
func Flatten(observations []types.Observation) string {
	lines := make([]string, 0, len(observations))
	for _, o := range observations {
		if text, ok := o.Text(); ok {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}
