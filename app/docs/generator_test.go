package docs

import (
	"strings"
	"testing"
)

func TestGeneratorRun(t *testing.T) {
	generator := NewGenerator()

	docConfig := &Config{
		Kind:        "llms",
		Title:       "My Blog",
		Description: "Personal notes on engineering",
	}
	sections := []Section{
		{
			Heading: "Popular Posts",
			Entries: []Entry{
				{Title: "Going Faster", URL: "https://blog.test/posts/1", Description: "Profiling a Go service"},
				{Title: "Second Post", URL: "https://blog.test/posts/2", Description: "Follow-up notes"},
			},
		},
		{
			Heading: "Recent FAQs",
			Entries: []Entry{
				{Title: "What is this?", URL: "https://blog.test/faq/1", Description: ""},
			},
		},
	}

	text := generator.Run(docConfig, sections)

	want := "# My Blog\n" +
		"\n> Personal notes on engineering\n" +
		"\n## Popular Posts\n" +
		"- [Going Faster](https://blog.test/posts/1): Profiling a Go service\n" +
		"- [Second Post](https://blog.test/posts/2): Follow-up notes\n" +
		"\n## Recent FAQs\n" +
		"- [What is this?](https://blog.test/faq/1): \n"

	if text != want {
		t.Errorf("Unexpected document text:\n%q\nwant:\n%q", text, want)
	}
}

func TestGeneratorRunNoDescription(t *testing.T) {
	generator := NewGenerator()

	text := generator.Run(&Config{Kind: "llms", Title: "Title Only"}, nil)
	if text != "# Title Only\n" {
		t.Errorf("Expected bare title document, got %q", text)
	}
	if strings.Contains(text, ">") {
		t.Error("Empty description should not render a blockquote line")
	}
}

func TestGeneratorRunEmptySection(t *testing.T) {
	generator := NewGenerator()

	text := generator.Run(&Config{Kind: "llms", Title: "T"}, []Section{{Heading: "Empty"}})
	if !strings.Contains(text, "\n## Empty\n") {
		t.Errorf("Expected section heading to render even without entries, got %q", text)
	}
}

func TestTruncateSnippet(t *testing.T) {
	if got := truncateSnippet("short", 100); got != "short" {
		t.Errorf("Expected unchanged text, got %q", got)
	}

	if got := truncateSnippet("abcdefgh", 5); got != "abcde..." {
		t.Errorf("Expected abcde..., got %q", got)
	}

	// exact fit keeps the text as-is
	if got := truncateSnippet("abcde", 5); got != "abcde" {
		t.Errorf("Expected abcde, got %q", got)
	}
}

func TestTruncateSnippetRunes(t *testing.T) {
	// Cuts count runes, not bytes
	if got := truncateSnippet("한국어 블로그 포스트", 3); got != "한국어..." {
		t.Errorf("Expected 한국어..., got %q", got)
	}
}
