package docs

// Document generation types

// Entry is the atomic unit of a discoverability document: one line of the
// form "- [title](url): description". Diffs key on URL only.
type Entry struct {
	Title       string
	URL         string
	Description string
}

type Section struct {
	Heading string
	Entries []Entry
}

// Diff is the structural difference between two document versions. Entries
// whose title changed but whose URL stayed the same appear in neither set.
type Diff struct {
	Added   []Entry
	Removed []Entry
}

// Configuration types

type Config struct {
	Kind        string // Derived from filename (without .yml extension)
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Settings    ConfigSettings `yaml:"settings"`
	Sections    []ConfigSection `yaml:"sections"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	SnippetLength   int  `yaml:"snippet_length"`   // runes
}

type ConfigSection struct {
	Heading    string `yaml:"heading"`
	Type       string `yaml:"type"`
	Limit      int    `yaml:"limit"`
	Order      string `yaml:"order"`       // popular or recent
	WindowDays int    `yaml:"window_days"` // popularity window, popular order only
}

const (
	OrderPopular = "popular"
	OrderRecent  = "recent"
)
