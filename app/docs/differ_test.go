package docs

import (
	"testing"
)

func docText(lines ...string) string {
	text := "# Doc\n\n## Section\n"
	for _, line := range lines {
		text += line + "\n"
	}
	return text
}

func TestExtractEntries(t *testing.T) {
	differ := NewDiffer()

	text := docText(
		"- [Post A](https://blog.test/posts/a): first",
		"not an entry line",
		"- [Post B](https://blog.test/posts/b): second",
	)

	entries := differ.ExtractEntries(text)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Post A" || entries[0].URL != "https://blog.test/posts/a" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Title != "Post B" {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}
}

func TestExtractEntriesDuplicateURLFirstWins(t *testing.T) {
	differ := NewDiffer()

	text := docText(
		"- [First Title](https://blog.test/posts/a): x",
		"- [Second Title](https://blog.test/posts/a): y",
	)

	entries := differ.ExtractEntries(text)
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry for duplicate URL, got %d", len(entries))
	}
	if entries[0].Title != "First Title" {
		t.Errorf("Expected first occurrence to win, got %q", entries[0].Title)
	}
}

func TestDiffIdenticalTexts(t *testing.T) {
	differ := NewDiffer()

	text := docText("- [Post A](https://blog.test/posts/a): x")
	diff := differ.Run(text, text)
	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("Expected empty diff for identical texts, got %+v", diff)
	}
}

func TestDiffAddedAndRemoved(t *testing.T) {
	differ := NewDiffer()

	oldText := docText(
		"- [Post A](https://blog.test/posts/a): x",
		"- [Post B](https://blog.test/posts/b): y",
	)
	newText := docText(
		"- [Post A](https://blog.test/posts/a): x",
		"- [Post C](https://blog.test/posts/c): z",
	)

	diff := differ.Run(oldText, newText)
	if len(diff.Added) != 1 || diff.Added[0].URL != "https://blog.test/posts/c" {
		t.Errorf("Expected Post C added, got %+v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].URL != "https://blog.test/posts/b" {
		t.Errorf("Expected Post B removed, got %+v", diff.Removed)
	}
}

func TestDiffEmptyBaseline(t *testing.T) {
	differ := NewDiffer()

	newText := docText(
		"- [Post A](https://blog.test/posts/a): x",
		"- [Post B](https://blog.test/posts/b): y",
	)

	diff := differ.Run("", newText)
	if len(diff.Added) != 2 {
		t.Fatalf("Expected all entries added against empty baseline, got %d", len(diff.Added))
	}
	if len(diff.Removed) != 0 {
		t.Errorf("Expected nothing removed against empty baseline, got %d", len(diff.Removed))
	}
	// order follows the new document
	if diff.Added[0].URL != "https://blog.test/posts/a" || diff.Added[1].URL != "https://blog.test/posts/b" {
		t.Errorf("Expected document order preserved, got %+v", diff.Added)
	}
}

func TestDiffTitleChangeSameURLInvisible(t *testing.T) {
	differ := NewDiffer()

	oldText := docText("- [Old Title](https://blog.test/posts/a): x")
	newText := docText("- [New Title](https://blog.test/posts/a): x")

	diff := differ.Run(oldText, newText)
	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("Title change under the same URL should not show in the diff, got %+v", diff)
	}
}
