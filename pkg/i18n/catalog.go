package i18n

import (
	"fmt"
	"strings"
)

// Entry is one node of a catalog tree: either a Leaf or a Branch.
type Entry interface {
	entry()
}

// Leaf is a message template.
type Leaf string

// Branch maps a key segment to a nested entry.
type Branch map[string]Entry

func (Leaf) entry()   {}
func (Branch) entry() {}

// Catalog is the immutable message tree of one locale.
type Catalog struct {
	locale string
	root   Branch
}

// NewCatalog wraps root as the catalog for locale. A nil root yields an empty catalog.
func NewCatalog(locale string, root Branch) *Catalog {
	if root == nil {
		root = Branch{}
	}
	return &Catalog{locale: locale, root: root}
}

// Locale returns the locale the catalog was loaded for. Empty catalogs created
// after every fallback failed report an empty locale.
func (c *Catalog) Locale() string {
	if c == nil {
		return ""
	}
	return c.locale
}

// Len returns the number of top-level entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.root)
}

// Lookup resolves a dotted key to its template.
// It reports false when a segment is missing, when an intermediate node is a
// Leaf, or when the terminal node is a Branch.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil || key == "" {
		return "", false
	}

	var node Entry = c.root
	for part := range strings.SplitSeq(key, ".") {
		branch, ok := node.(Branch)
		if !ok {
			return "", false
		}
		next, ok := branch[part]
		if !ok {
			return "", false
		}
		node = next
	}

	switch v := node.(type) {
	case Leaf:
		return string(v), true
	case Branch:
		return "", false
	default:
		return "", false
	}
}

// Has reports whether key resolves to a template.
func (c *Catalog) Has(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// buildBranch converts a decoded YAML or JSON mapping into a Branch.
// Scalars that are not strings are skipped so that lookups on them miss.
func buildBranch(raw map[string]any) Branch {
	b := make(Branch, len(raw))
	for k, v := range raw {
		if e, ok := buildEntry(v); ok {
			b[k] = e
		}
	}
	return b
}

func buildEntry(v any) (Entry, bool) {
	switch val := v.(type) {
	case string:
		return Leaf(val), true
	case map[string]any:
		return buildBranch(val), true
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			m[fmt.Sprint(k)] = inner
		}
		return buildBranch(m), true
	default:
		return nil, false
	}
}
