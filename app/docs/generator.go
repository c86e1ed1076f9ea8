package docs

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Generator renders a discoverability document as flat Markdown-style text.
// The format is load-bearing: external agents and the Differ parse entry
// lines with a line-based pattern, so every entry renders exactly as
// "- [title](url): description" on its own line.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(docConfig *Config, sections []Section) string {
	var buf bytes.Buffer

	buf.WriteString("# ")
	buf.WriteString(docConfig.Title)
	buf.WriteString("\n")

	if docConfig.Description != "" {
		buf.WriteString("\n> ")
		buf.WriteString(docConfig.Description)
		buf.WriteString("\n")
	}

	for _, section := range sections {
		buf.WriteString("\n## ")
		buf.WriteString(section.Heading)
		buf.WriteString("\n")

		for _, entry := range section.Entries {
			// an empty description still renders the trailing ": "
			buf.WriteString(fmt.Sprintf("- [%s](%s): %s\n", entry.Title, entry.URL, entry.Description))
		}
	}

	return buf.String()
}

// truncateSnippet cuts a description to at most limit runes and appends an
// ellipsis when it was longer. The cut is by fixed length, not word
// boundary. Text is NFC-normalized first so the cut cannot split a base
// character from its combining marks.
func truncateSnippet(s string, limit int) string {
	s = norm.NFC.String(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
