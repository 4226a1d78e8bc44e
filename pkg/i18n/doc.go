// Package i18n loads per-locale message catalogs and renders localized strings
// from them.
//
// A catalog is a tree of dotted keys read from one file per locale
// (`<dir>/<locale>.yaml`, `.yml` or `.json`). The tree is represented as a
// tagged union of Leaf templates and Branch mappings so traversal never relies
// on runtime type assertions against decoded YAML.
//
// # Loading and fallback
//
// Store.Load never fails. It tries the requested locale, then the base language
// of the requested locale (`fr-CA` -> `fr`), then DefaultLanguage. When every
// attempt fails an empty catalog is returned and every render degrades to the
// key itself. Failures are logged, not returned.
//
// The active catalog is held behind an atomic pointer. SetLanguage loads the new
// catalog completely before swapping it in, so a concurrent render observes
// either the old catalog or the new one, never a mix.
//
// # Rendering
//
//	store := i18n.NewStore(ctx, i18n.NewDirectoryAdapter("./locales"), "fr",
//		i18n.WithLogger(log),
//	)
//
//	title := store.T("discord.cmd.missing.title", i18n.Params{"count": 3})
//
// Templates use `{name}` placeholders. Substitution is a single left-to-right
// pass: substituted values are never expanded again, and placeholders without a
// matching parameter are kept verbatim.
package i18n
