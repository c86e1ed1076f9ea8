package docs

import (
	"regexp"
	"strings"
)

// entryPattern matches document entry lines. The description after the
// closing paren is not part of the match; extraction ignores it.
var entryPattern = regexp.MustCompile(`^- \[(.*)\]\(([^)]+)\)`)

// Differ extracts entry records from document texts and computes the
// added/removed sets between two versions, keyed by URL.
type Differ struct{}

func NewDiffer() *Differ {
	return &Differ{}
}

// ExtractEntries parses every line matching the entry pattern, in document
// order. Lines that do not match are skipped, not errors. When the same URL
// appears twice, the first occurrence wins.
func (d *Differ) ExtractEntries(text string) []Entry {
	var entries []Entry
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		entries = append(entries, Entry{Title: m[1], URL: m[2]})
	}

	return entries
}

// Run diffs two document texts. added holds entries of newText whose URL is
// absent from oldText, in new-document order; removed holds entries of
// oldText whose URL is absent from newText, in old-document order. An empty
// oldText is a valid baseline: everything in newText is added. A title
// change under an unchanged URL is invisible to the diff.
func (d *Differ) Run(oldText, newText string) Diff {
	oldEntries := d.ExtractEntries(oldText)
	newEntries := d.ExtractEntries(newText)

	oldByURL := make(map[string]bool, len(oldEntries))
	for _, e := range oldEntries {
		oldByURL[e.URL] = true
	}
	newByURL := make(map[string]bool, len(newEntries))
	for _, e := range newEntries {
		newByURL[e.URL] = true
	}

	var diff Diff
	for _, e := range newEntries {
		if !oldByURL[e.URL] {
			diff.Added = append(diff.Added, e)
		}
	}
	for _, e := range oldEntries {
		if !newByURL[e.URL] {
			diff.Removed = append(diff.Removed, e)
		}
	}

	return diff
}
