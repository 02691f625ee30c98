// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileKind classifies an input by how it is recognized.
type FileKind string

const (
	KindImage       FileKind = "image"
	KindPDF         FileKind = "pdf"
	KindBase64      FileKind = "base64"
	KindUnsupported FileKind = "unsupported"
)

// FileStatus indicates the outcome of processing one input.
type FileStatus string

const (
	StatusProcessed FileStatus = "processed"
	StatusSkipped   FileStatus = "skipped"
	StatusFailed    FileStatus = "failed"
)

// FileRecord describes one processed input. The batch driver produces it and
// the run ledger persists it.
type FileRecord struct {
	// Path is the input path, or "<base64-input>" for inline payloads.
	Path string `json:"path" yaml:"path"`

	Kind   FileKind   `json:"kind" yaml:"kind"`
	Status FileStatus `json:"status" yaml:"status"`

	// Digest is the hex SHA-256 of the input bytes. Empty when the input
	// could not be read.
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`

	// Pages is the number of PDF pages, or 1 for images.
	Pages int `json:"pages" yaml:"pages"`

	// Chars is the length in bytes of the recognized output.
	Chars int `json:"chars" yaml:"chars"`

	// OutputPath is set when the result was written to a file.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Error holds the failure reason for StatusFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}
