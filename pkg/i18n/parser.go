package i18n

import (
	"context"
	"path/filepath"
	"strings"
)

// Parser decodes the content of one catalog file into its key tree.
type Parser interface {
	// Parse processes the given content and returns the root Branch of the catalog.
	Parse(ctx context.Context, content []byte) (Branch, error)

	// SupportsFileExtension checks if the parser supports a given file extension.
	// The extension may or may not include a leading dot.
	SupportsFileExtension(ext string) bool
}

// NewParserForFile returns a parser based on the file extension, or nil.
func NewParserForFile(filename string) Parser {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")

	switch strings.ToLower(ext) {
	case "json":
		return NewJSONParser()
	case "yaml", "yml":
		return NewYAMLParser()
	default:
		return nil
	}
}
