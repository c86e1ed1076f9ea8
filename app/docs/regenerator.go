package docs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hanulkim/blog-discovery/app/content"
	"github.com/hanulkim/blog-discovery/app/database"
	"github.com/hanulkim/blog-discovery/app/discovery"
)

type Result struct {
	Text    string
	Diff    Diff
	Version string
}

// Regenerator rebuilds a discoverability document from the current content
// and popularity data, diffs it against the stored previous version and
// persists the new text. The read-diff-write sequence runs under a single
// writer lock; the version token on the write guards against writers outside
// this process. A conflicting write persists nothing and surfaces
// database.ErrVersionConflict.
type Regenerator struct {
	engine      *discovery.Service
	contents    database.ContentStore
	documents   database.DocumentStore
	configCache *ConfigCache
	generator   *Generator
	differ      *Differ
	baseURL     string
	mu          sync.Mutex
}

func NewRegenerator(engine *discovery.Service, contents database.ContentStore,
	documents database.DocumentStore, configCache *ConfigCache, baseURL string) *Regenerator {
	return &Regenerator{
		engine:      engine,
		contents:    contents,
		documents:   documents,
		configCache: configCache,
		generator:   NewGenerator(),
		differ:      NewDiffer(),
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (r *Regenerator) Run(kind string) (*Result, error) {
	docConfig, err := r.configCache.GetConfig(kind)
	if err != nil {
		return nil, err
	}

	sections, err := r.buildSections(docConfig)
	if err != nil {
		return nil, err
	}

	text := r.generator.Run(docConfig, sections)

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, err := r.documents.GetDocument(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous document: %w", err)
	}

	// a missing previous document is an empty baseline, not a failure
	prevText, prevVersion := "", ""
	if prev != nil {
		prevText, prevVersion = prev.Content, prev.Version
	}

	diff := r.differ.Run(prevText, text)

	version, err := r.documents.PutDocument(kind, text, prevVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	return &Result{Text: text, Diff: diff, Version: version}, nil
}

func (r *Regenerator) buildSections(docConfig *Config) ([]Section, error) {
	sections := make([]Section, 0, len(docConfig.Sections))

	for _, sc := range docConfig.Sections {
		t, err := content.ParseType(sc.Type)
		if err != nil {
			return nil, err
		}

		var items []content.Item
		switch sc.Order {
		case OrderRecent:
			items, err = r.contents.GetPublishedByType(t)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch %s items: %w", t, err)
			}
			if len(items) > sc.Limit {
				items = items[:sc.Limit]
			}
		default:
			items, err = r.engine.GetPopularOfType(t, sc.WindowDays, sc.Limit)
			if err != nil {
				return nil, err
			}
		}

		entries := make([]Entry, len(items))
		for i, item := range items {
			entries[i] = Entry{
				Title:       item.Title,
				URL:         r.entryURL(item),
				Description: truncateSnippet(item.Summary, docConfig.Settings.SnippetLength),
			}
		}

		sections = append(sections, Section{Heading: sc.Heading, Entries: entries})
	}

	return sections, nil
}

func (r *Regenerator) entryURL(item content.Item) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, item.Type.URLPath(), item.ID)
}
