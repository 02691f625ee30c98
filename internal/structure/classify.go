// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/textract/pkg/types"
)

// Classifier assigns structural roles to recognized lines. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	minHeight     float64
	headingPrefix string
	bullets       []string
	marker        string
	terminators   []string
}

// NewClassifier builds a classifier. Zero-valued fields of cfg take their
// defaults from types.DefaultClassifierConfig.
func NewClassifier(cfg types.ClassifierConfig) *Classifier {
	def := types.DefaultClassifierConfig()
	if cfg.HeadingMinHeight <= 0 {
		cfg.HeadingMinHeight = def.HeadingMinHeight
	}
	if cfg.HeadingLevel <= 0 {
		cfg.HeadingLevel = def.HeadingLevel
	}
	if len(cfg.BulletPrefixes) == 0 {
		cfg.BulletPrefixes = def.BulletPrefixes
	}
	if cfg.ListMarker == "" {
		cfg.ListMarker = def.ListMarker
	}
	if len(cfg.SentenceTerminators) == 0 {
		cfg.SentenceTerminators = def.SentenceTerminators
	}
	return &Classifier{
		minHeight:     cfg.HeadingMinHeight,
		headingPrefix: "\n\n" + strings.Repeat("#", cfg.HeadingLevel) + " ",
		bullets:       cfg.BulletPrefixes,
		marker:        cfg.ListMarker,
		terminators:   cfg.SentenceTerminators,
	}
}

// Classify converts a page's observations into fragments, one per
// observation that carries a candidate, in input order.
func (c *Classifier) Classify(observations []types.Observation) []Fragment {
	frags := make([]Fragment, 0, len(observations))
	for _, o := range observations {
		text, ok := o.Text()
		if !ok {
			continue
		}
		frags = append(frags, c.ClassifyLine(text, o.Box.Height))
	}
	return frags
}

// ClassifyLine classifies a single line from its text and its height as a
// fraction of the page. The first matching rule wins:
// tall line starting uppercase -> heading; bullet prefix -> list item;
// sentence terminator -> paragraph break; anything else -> continuation.
func (c *Classifier) ClassifyLine(text string, height float64) Fragment {
	switch {
	case height > c.minHeight && startsUpper(text):
		return Heading(c.headingPrefix + text)
	case c.isBullet(text):
		_, size := utf8.DecodeRuneInString(text)
		return ListItem(c.marker + text[size:])
	case c.endsSentence(text):
		return Paragraph(text + "\n\n")
	default:
		return Paragraph(text + " ")
	}
}

func (c *Classifier) isBullet(text string) bool {
	for _, b := range c.bullets {
		if b != "" && strings.HasPrefix(text, b) {
			return true
		}
	}
	return false
}

func (c *Classifier) endsSentence(text string) bool {
	for _, t := range c.terminators {
		if t != "" && strings.HasSuffix(text, t) {
			return true
		}
	}
	return false
}

// startsUpper reports whether the first rune is an uppercase letter.
// Empty input has no first rune.
func startsUpper(text string) bool {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsUpper(r)
}
