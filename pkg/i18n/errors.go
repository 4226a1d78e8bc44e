package i18n

import "errors"

// Loading failures are wrapped with ErrCatalogLoad so callers can tell a degraded
// catalog apart from a missing key.
var (
	ErrCatalogLoad = errors.New("failed to load locale catalog")

	// Parsing
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")
	ErrJSONParsingCancelled = errors.New("json parsing cancelled")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON content")
	ErrInvalidCatalog       = errors.New("catalog root must be a mapping")

	// Sources
	ErrLocaleNotFound       = errors.New("no catalog file for locale")
	ErrInvalidLocale        = errors.New("invalid locale identifier")
	ErrLoadingFileCancelled = errors.New("loading catalog file cancelled")
	ErrFailedToReadFile     = errors.New("failed to read catalog file")
	ErrEmptyFile            = errors.New("catalog file is empty")
)
