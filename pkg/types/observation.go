// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BoundingBox locates a recognized line on its page. All values are
// fractions (0..1) of the page width or height, origin at the top-left.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Candidate is one transcription hypothesis for a line.
type Candidate struct {
	Text string `json:"text" yaml:"text"`

	// Confidence is in 0..1; zero means the backend did not report one.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Observation is one recognized text line as produced by an OCR backend.
// Candidates are ranked best first. Observations arrive in reading order
// and consumers must not re-sort them.
type Observation struct {
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
	Box        BoundingBox `json:"box" yaml:"box"`
}

// Text returns the top-ranked candidate. ok is false when the backend
// produced no candidate for the line.
func (o Observation) Text() (text string, ok bool) {
	if len(o.Candidates) == 0 {
		return "", false
	}
	return o.Candidates[0].Text, true
}

// NewObservation builds a single-candidate observation.
func NewObservation(text string, box BoundingBox) Observation {
	return Observation{
		Candidates: []Candidate{{Text: text}},
		Box:        box,
	}
}
