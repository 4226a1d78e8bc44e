package i18n

import (
	"io"
	"log/slog"
)

// Option is a function that configures a Store instance.
type Option func(*Store)

// WithDefaultLanguage sets the locale used when the requested one cannot be loaded.
func WithDefaultLanguage(lang string) Option {
	return func(s *Store) {
		if lang != "" {
			s.defaultLang = NormalizeLocale(lang)
		}
	}
}

// WithLogger provides a customizable logger for the store.
// If not specified, a discard logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMissingTranslationsLogging controls whether missing keys are logged.
// Default is false to avoid excessive logging.
func WithMissingTranslationsLogging(log bool) Option {
	return func(s *Store) {
		s.missingLogMode = log
	}
}

// WithNoLogging is a convenience option that disables all logging.
func WithNoLogging() Option {
	return func(s *Store) {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		s.missingLogMode = false
	}
}
