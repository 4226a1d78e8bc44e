package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// TranslationAdapter defines how the catalog of a single locale is loaded.
type TranslationAdapter interface {
	Load(ctx context.Context, locale string) (Branch, error)
}

// MapAdapter is a simple adapter that uses an in-memory map as the catalog source.
// Keys of Data are locale identifiers.
type MapAdapter struct {
	Data map[string]map[string]any
}

// Load implements the TranslationAdapter interface
func (a *MapAdapter) Load(_ context.Context, locale string) (Branch, error) {
	raw, ok := a.Data[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocaleNotFound, locale)
	}
	return buildBranch(raw), nil
}

// FSAdapter reads `<dir>/<locale>.<ext>` files from a file system, trying the
// extensions in the order yaml, yml, json.
type FSAdapter struct {
	fsys    fs.FS
	dir     string
	parsers []Parser
}

// NewFSAdapter creates an adapter over fsys. It works with embed.FS as well as os.DirFS.
func NewFSAdapter(fsys fs.FS, dir string) *FSAdapter {
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{
		fsys:    fsys,
		dir:     dir,
		parsers: []Parser{NewYAMLParser(), NewJSONParser()},
	}
}

// NewDirectoryAdapter creates an adapter over a directory on the local file system.
func NewDirectoryAdapter(dir string) *FSAdapter {
	return NewFSAdapter(os.DirFS(dir), ".")
}

var catalogExtensions = []string{"yaml", "yml", "json"}

// Load implements the TranslationAdapter interface
func (a *FSAdapter) Load(ctx context.Context, locale string) (Branch, error) {
	if !validLocaleName(locale) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
	}

	for _, ext := range catalogExtensions {
		name := path.Join(a.dir, locale+"."+ext)

		content, err := a.readFile(ctx, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(content) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
		}

		parser := a.parserFor(ext)
		if parser == nil {
			continue
		}
		return parser.Parse(ctx, content)
	}

	return nil, fmt.Errorf("%w: %s", ErrLocaleNotFound, locale)
}

func (a *FSAdapter) parserFor(ext string) Parser {
	for _, p := range a.parsers {
		if p.SupportsFileExtension(ext) {
			return p
		}
	}
	return nil
}

// readFile reads name while respecting context cancellation.
func (a *FSAdapter) readFile(ctx context.Context, name string) ([]byte, error) {
	done := make(chan struct{})
	var content []byte
	var readErr error

	go func() {
		content, readErr = fs.ReadFile(a.fsys, name)
		close(done)
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Join(ErrLoadingFileCancelled, ctx.Err())
	case <-done:
	}

	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, readErr
		}
		return nil, errors.Join(ErrFailedToReadFile, readErr)
	}
	return content, nil
}
