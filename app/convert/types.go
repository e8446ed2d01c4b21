package convert

import (
	"fmt"
	"strings"

	"github.com/deepvdocs/docstage/app/schema"
)

// Frontmatter holds the document header fields in render order.
type Frontmatter struct {
	Title       string
	Slug        string
	Category    string
	Subcategory string
	Description string
	Tags        []string
	Difficulty  string
	ReadTime    int
	LastUpdated string
	Featured    bool
}

// Document is a finished staging document. It is assembled once and never
// mutated after being handed to the orchestrator.
type Document struct {
	Frontmatter Frontmatter
	Body        string
	Filename    string
	SourceID    string
	UniqueID    string
	Metrics     schema.Metrics
}

// Render emits the complete staging document text: YAML frontmatter between
// --- delimiters, a blank line, then the markdown body.
func (d *Document) Render() string {
	fm := d.Frontmatter
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", quote(fm.Title))
	fmt.Fprintf(&b, "slug: %s\n", quote(fm.Slug))
	fmt.Fprintf(&b, "category: %s\n", quote(fm.Category))
	fmt.Fprintf(&b, "subcategory: %s\n", quote(fm.Subcategory))
	fmt.Fprintf(&b, "description: %s\n", quote(fm.Description))
	if len(fm.Tags) == 0 {
		b.WriteString("tags: []\n")
	} else {
		b.WriteString("tags:\n")
		for _, tag := range fm.Tags {
			fmt.Fprintf(&b, "  - %s\n", quote(tag))
		}
	}
	fmt.Fprintf(&b, "difficulty: %s\n", quote(fm.Difficulty))
	fmt.Fprintf(&b, "readTime: %d\n", fm.ReadTime)
	fmt.Fprintf(&b, "lastUpdated: %s\n", quote(fm.LastUpdated))
	fmt.Fprintf(&b, "featured: %t\n", fm.Featured)
	b.WriteString("---\n\n")
	b.WriteString(d.Body)
	if !strings.HasSuffix(d.Body, "\n") {
		b.WriteString("\n")
	}

	return b.String()
}

// quote emits a YAML double-quoted scalar. Backslashes must be escaped
// before quotes or a title like `\d+` produces an invalid escape sequence.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
