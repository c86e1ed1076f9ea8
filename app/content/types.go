package content

import (
	"fmt"
	"time"
)

// Type discriminates the kinds of rankable content. Ids are only unique
// within a type, so identity is always the (Type, ID) pair.
type Type string

const (
	TypePost  Type = "post"
	TypeFaq   Type = "faq"
	TypeClass Type = "class"
	TypeLog   Type = "log"
)

// AllTypes returns the participating content types in declared order. The
// order matters: quota remainders and shortfall redistribution in mixed
// ranking follow it.
func AllTypes() []Type {
	return []Type{TypePost, TypeFaq, TypeClass, TypeLog}
}

// ParseType validates a type string coming from URLs or configuration.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePost, TypeFaq, TypeClass, TypeLog:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown content type: %q", s)
}

// URLPath returns the public path segment for the type, used when building
// entry URLs in generated documents.
func (t Type) URLPath() string {
	switch t {
	case TypePost:
		return "posts"
	case TypeFaq:
		return "faq"
	case TypeClass:
		return "classes"
	case TypeLog:
		return "logs"
	default:
		return string(t)
	}
}

// Identity uniquely identifies a content item across types.
type Identity struct {
	Type Type
	ID   string
}

func (id Identity) String() string {
	return string(id.Type) + "/" + id.ID
}

// Item is the common projection over posts, FAQs, classes and life-logs.
// Title carries the question text for FAQ items.
type Item struct {
	ID        string
	Type      Type
	Title     string
	Summary   string
	Tags      []string
	Published bool
	CreatedAt time.Time
}

func (i Item) Identity() Identity {
	return Identity{Type: i.Type, ID: i.ID}
}
