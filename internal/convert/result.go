// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"

	"github.com/pdiddy/textract/pkg/types"
)

// BatchResult holds the paths handled by a run, grouped by outcome, in the
// order the inputs were listed.
type BatchResult struct {
	Processed []string
	Skipped   []string
	Failed    []string
}

// Add files rec under its status.
func (r *BatchResult) Add(rec types.FileRecord) {
	switch rec.Status {
	case types.StatusProcessed:
		r.Processed = append(r.Processed, rec.Path)
	case types.StatusFailed:
		r.Failed = append(r.Failed, rec.Path)
	default:
		r.Skipped = append(r.Skipped, rec.Path)
	}
}

// Total returns the number of inputs seen.
func (r BatchResult) Total() int {
	return len(r.Processed) + len(r.Skipped) + len(r.Failed)
}

// HasFailures reports whether any input failed recognition.
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// AllFailed reports whether the run failed every input it attempted.
func (r BatchResult) AllFailed() bool {
	return len(r.Failed) > 0 && len(r.Processed) == 0
}

// PrintReport writes the processed and skipped file lists to w. Failed
// files are listed with the skipped ones, after them.
func (r BatchResult) PrintReport(w io.Writer) {
	fmt.Fprintln(w, "\nProcessed files:")
	for _, p := range r.Processed {
		fmt.Fprintln(w, p)
	}
	fmt.Fprintln(w, "\nSkipped files:")
	for _, p := range r.Skipped {
		fmt.Fprintln(w, p)
	}
	for _, p := range r.Failed {
		fmt.Fprintln(w, p)
	}
	fmt.Fprintf(w, "\nBatch summary: %d processed, %d skipped, %d failed (total: %d)\n",
		len(r.Processed), len(r.Skipped), len(r.Failed), r.Total())
}
