// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import "strings"

// Assembler concatenates classified fragments into markdown.
type Assembler struct {
	// CohesiveLists joins consecutive list items with one newline instead
	// of a blank line.
	CohesiveLists bool
}

// Page renders one page's fragments. Headings and list items are followed by
// a blank line; paragraphs already carry their own spacing.
func (a Assembler) Page(frags []Fragment) string {
	var b strings.Builder
	for i, f := range frags {
		b.WriteString(f.Text)
		switch f.Role {
		case RoleHeading:
			b.WriteString("\n\n")
		case RoleListItem:
			if a.CohesiveLists && i+1 < len(frags) && frags[i+1].Role == RoleListItem {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		case RoleParagraph:
		default:
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Document joins page markdown in page order. Pages carry their own
// trailing spacing, so no separator is added.
func (a Assembler) Document(pages []string) string {
	return strings.Join(pages, "")
}
