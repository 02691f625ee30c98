// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure turns one page of recognized lines into markdown.
//
// A Classifier assigns each line a Role (heading, list item, paragraph) and
// pre-renders its text; an Assembler joins the fragments of a page with the
// spacing each role needs. Flatten is the unstructured sibling used for plain
// images: it joins lines with newlines and applies no heuristics.
package structure

// Role is the structural role of a recognized line.
type Role int

const (
	RoleParagraph Role = iota
	RoleHeading
	RoleListItem
)

func (r Role) String() string {
	switch r {
	case RoleHeading:
		return "heading"
	case RoleListItem:
		return "list"
	case RoleParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Fragment is a classified line. Text is already rendered for its role
// (heading prefix, bullet normalization, paragraph spacing).
type Fragment struct {
	Role Role
	Text string
}

// Heading returns a heading fragment.
func Heading(text string) Fragment { return Fragment{Role: RoleHeading, Text: text} }

// ListItem returns a list item fragment.
func ListItem(text string) Fragment { return Fragment{Role: RoleListItem, Text: text} }

// Paragraph returns a paragraph fragment.
func Paragraph(text string) Fragment { return Fragment{Role: RoleParagraph, Text: text} }
