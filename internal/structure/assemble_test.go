// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"testing"

	"github.com/pdiddy/textract/pkg/types"
)

func TestAssemblerPage(t *testing.T) {
	tests := []struct {
		name     string
		cohesive bool
		frags    []Fragment
		want     string
	}{
		{
			name:  "empty page",
			frags: nil,
			want:  "",
		},
		{
			name:  "heading followed by blank line",
			frags: []Fragment{Heading("\n\n## Chapter One")},
			want:  "\n\n## Chapter One\n\n",
		},
		{
			name:  "paragraphs carry their own spacing",
			frags: []Fragment{Paragraph("This is a sentence.\n\n"), Paragraph("Continued here ")},
			want:  "This is a sentence.\n\nContinued here ",
		},
		{
			name:  "every list item followed by blank line",
			frags: []Fragment{ListItem("- a"), ListItem("- b")},
			want:  "- a\n\n- b\n\n",
		},
		{
			name:     "cohesive lists join consecutive items",
			cohesive: true,
			frags:    []Fragment{ListItem("- a"), ListItem("- b"), Paragraph("after ")},
			want:     "- a\n- b\n\nafter ",
		},
		{
			name:  "unknown role gets a newline",
			frags: []Fragment{{Role: Role(99), Text: "odd"}},
			want:  "odd\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assembler{CohesiveLists: tt.cohesive}.Page(tt.frags)
			if got != tt.want {
				t.Errorf("Page() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyThenAssemble(t *testing.T) {
	c := NewClassifier(types.DefaultClassifierConfig())
	var a Assembler

	input := []types.Observation{
		obs("This is a sentence.", 0.01),
		obs("Continued here", 0.01),
	}
	got := a.Page(c.Classify(input))
	want := "This is a sentence.\n\nContinued here "
	if got != want {
		t.Errorf("markdown = %q, want %q", got, want)
	}

	if got := a.Page(c.Classify(nil)); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}

func TestAssemblerDocument(t *testing.T) {
	var a Assembler
	got := a.Document([]string{"\n\n## One\n\n", "", "text "})
	want := "\n\n## One\n\ntext "
	if got != want {
		t.Errorf("Document() = %q, want %q", got, want)
	}
	if got := a.Document(nil); got != "" {
		t.Errorf("Document(nil) = %q, want empty", got)
	}
}
