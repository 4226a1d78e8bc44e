package i18n

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// Store owns the active catalog and swaps it atomically on language change.
type Store struct {
	adapter        TranslationAdapter
	defaultLang    string
	missingLogMode bool
	logger         *slog.Logger
	active         atomic.Pointer[Catalog]
}

// NewStore creates a store and loads the catalog for locale.
// Load failures never surface here; see Load for the fallback order.
func NewStore(ctx context.Context, adapter TranslationAdapter, locale string, options ...Option) *Store {
	s := &Store{
		adapter:     adapter,
		defaultLang: DefaultLanguage,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(s)
	}

	s.active.Store(s.Load(ctx, locale))
	return s
}

// Load resolves the catalog for locale: the locale itself, then its base
// language, then the default language, and finally an empty catalog.
// Every failed attempt is logged and wrapped with ErrCatalogLoad.
func (s *Store) Load(ctx context.Context, locale string) *Catalog {
	if s.adapter == nil {
		s.logger.WarnContext(ctx, "No catalog adapter configured, using empty catalog")
		return NewCatalog("", nil)
	}

	for _, candidate := range fallbackChain(locale, s.defaultLang) {
		root, err := s.adapter.Load(ctx, candidate)
		if err == nil {
			if candidate != NormalizeLocale(locale) {
				s.logger.InfoContext(ctx, "Using fallback locale catalog",
					slog.String("requested", locale),
					slog.String("locale", candidate),
				)
			}
			return NewCatalog(candidate, root)
		}

		err = errors.Join(ErrCatalogLoad, err)
		level := slog.LevelWarn
		if errors.Is(err, ErrLocaleNotFound) {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "Locale catalog unavailable",
			slog.String("locale", candidate),
			slog.Any("error", err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	s.logger.WarnContext(ctx, "No locale catalog could be loaded, rendering keys verbatim",
		slog.String("requested", locale),
	)
	return NewCatalog("", nil)
}

// SetLanguage loads the catalog for locale and replaces the active one in a
// single atomic swap. Renders that already captured the previous catalog finish
// against it.
func (s *Store) SetLanguage(ctx context.Context, locale string) *Catalog {
	c := s.Load(ctx, locale)
	prev := s.active.Swap(c)
	s.logger.InfoContext(ctx, "Active locale changed",
		slog.String("from", prev.Locale()),
		slog.String("to", c.Locale()),
	)
	return c
}

// Catalog returns the active catalog snapshot.
func (s *Store) Catalog() *Catalog {
	return s.active.Load()
}

// Language returns the locale of the active catalog.
func (s *Store) Language() string {
	return s.Catalog().Locale()
}

// T renders key against the active catalog.
// The catalog pointer is read once, so one call never mixes two catalogs.
func (s *Store) T(key string, params Params) string {
	c := s.active.Load()
	if s.missingLogMode && !c.Has(key) {
		s.logger.Warn("Translation not found",
			slog.String("locale", c.Locale()),
			slog.String("key", key),
		)
	}
	return Render(c, key, params)
}
