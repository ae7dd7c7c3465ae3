// Package convert orchestrates verse conversion: it resolves a verse
// reference, tries the override path, and falls back to the default
// ruleset, recording transformation provenance along the way.
package convert

import (
	"regexp"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/overrides"
	"github.com/restoredword/restoredkjv/core/rules"
	"github.com/restoredword/restoredkjv/internal/logging"
)

// Config holds the immutable per-run conversion settings.
type Config struct {
	// OverridesPath is the override-store file.
	OverridesPath string
	// Strict disables the ambiguous "Lord" substitution tier.
	Strict bool
	// EnforceWitnesses rejects overrides with an empty witness set.
	EnforceWitnesses bool
	// VerseAware enables override lookup and reference detection.
	VerseAware bool
	// ShortNameMode gates short-form rewriting.
	ShortNameMode overrides.ShortNameMode
	// HallelujahHeuristic enables the "Praise ye the LORD" rewrite.
	HallelujahHeuristic bool
}

// DefaultConfig returns the default conversion settings.
func DefaultConfig() Config {
	return Config{
		OverridesPath: "overrides.json",
		VerseAware:    true,
		ShortNameMode: overrides.ShortNameKJVOnly,
	}
}

// Verse is one unit of input text with its location.
type Verse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// Location implements books.VerseLocator.
func (v *Verse) Location() (string, int, int) {
	return v.Book, v.Chapter, v.Verse
}

// Result pairs a verse's original and converted text.
type Result struct {
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	Original  string `json:"original"`
	Converted string `json:"converted"`
}

// Options adjusts a single Convert call.
type Options struct {
	// VerseRef is an explicit verse reference. When empty and the
	// converter is verse-aware, one is parsed from the leading text.
	VerseRef string
	// Strict overrides the configured strict mode when non-nil.
	Strict *bool
}

// Converter converts KJV text to restored names. It is single-threaded:
// one converter, one conversion at a time.
type Converter struct {
	config   Config
	ruleset  *rules.Ruleset
	store    *overrides.Store
	resolver *overrides.Resolver
	trace    *Trace
}

// New creates a converter, eagerly loading the override store named by the
// configuration.
func New(config Config) *Converter {
	if config.OverridesPath == "" {
		config.OverridesPath = "overrides.json"
	}
	store := overrides.Open(config.OverridesPath)
	return NewWithStore(config, store)
}

// NewWithStore creates a converter over an already-open store.
func NewWithStore(config Config, store *overrides.Store) *Converter {
	return &Converter{
		config:   config,
		ruleset:  rules.Default(),
		store:    store,
		resolver: overrides.NewResolver(store),
		trace:    NewTrace(),
	}
}

// Store returns the converter's override store.
func (c *Converter) Store() *overrides.Store {
	return c.store
}

// Config returns the configuration the converter was built with.
func (c *Converter) Config() Config {
	return c.config
}

// Trace returns the provenance trace accumulated since the last reset.
func (c *Converter) Trace() *Trace {
	return c.trace
}

// ResetTrace clears the provenance trace, as at batch start.
func (c *Converter) ResetTrace() {
	c.trace.Reset()
}

// Convert converts text using the configured defaults.
func (c *Converter) Convert(text string) string {
	return c.ConvertWith(text, Options{})
}

// ConvertVerse converts one verse with an explicit location. The book name
// is normalized so override lookups accept common aliases.
func (c *Converter) ConvertVerse(text, book string, chapter, verse int) string {
	ref := Ref{Book: books.Normalize(book), Chapter: chapter, Verse: verse}
	return c.ConvertWith(text, Options{VerseRef: ref.Key()})
}

// ConvertWith converts text, honoring per-call options. Every path is
// terminal in one pass: an accepted override returns immediately and the
// ruleset never additionally runs over its output.
func (c *Converter) ConvertWith(text string, opts Options) string {
	strict := c.config.Strict
	if opts.Strict != nil {
		strict = *opts.Strict
	}

	verseRef := opts.VerseRef
	if c.config.VerseAware && verseRef == "" {
		if ref, ok := FindRef(text); ok {
			verseRef = ref.Key()
		}
	}

	if c.config.VerseAware && verseRef != "" {
		policy := overrides.Policy{
			EnforceWitnesses: c.config.EnforceWitnesses,
			ShortNameMode:    c.config.ShortNameMode,
		}
		if mapping, record, ok := c.resolver.Resolve(verseRef, policy); ok {
			result := applyMapping(text, mapping)
			c.trace.recordOverride(verseRef, mapping, record.Witnesses)
			logging.OverrideApplied(verseRef, record.Witnesses)
			return result
		}
	}

	// Flag ambiguous "Lord" for audit before any substitution runs, even
	// when strict mode will leave it untouched.
	if rules.HasAmbiguousLord(text) {
		c.trace.recordAmbiguousLord(verseRef, text)
	}

	result := text
	if c.config.ShortNameMode != overrides.ShortNameOff {
		result, _ = rules.JahToYah(result)
	}

	if c.config.HallelujahHeuristic {
		var changed bool
		result, changed = rules.HallelujahHeuristic(result)
		if changed {
			c.trace.recordHeuristic(verseRef, HeuristicHallelujah)
		}
	}

	return c.ruleset.Apply(result, strict)
}

// ConvertBatch converts a list of verses, resetting the provenance trace
// first and accumulating it across the whole batch.
func (c *Converter) ConvertBatch(verses []Verse, opts Options) []Result {
	c.trace.Reset()

	results := make([]Result, 0, len(verses))
	for _, v := range verses {
		ref := Ref{Book: books.Normalize(v.Book), Chapter: v.Chapter, Verse: v.Verse}
		converted := c.ConvertWith(v.Text, Options{
			VerseRef: ref.Key(),
			Strict:   opts.Strict,
		})
		results = append(results, Result{
			Book:      v.Book,
			Chapter:   v.Chapter,
			Verse:     v.Verse,
			Original:  v.Text,
			Converted: converted,
		})
	}
	return results
}

// applyMapping applies an accepted override mapping. The full-text shape
// replaces the entire output; the keyed shape applies each pair as an exact
// whole-word substitution in mapping order, with pattern metacharacters in
// the original escaped so unusual override content cannot corrupt matching.
func applyMapping(text string, m *overrides.Mapping) string {
	if m.IsFull {
		return m.Full
	}
	result := text
	for _, p := range m.Pairs {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(p.Original) + `\b`)
		if err != nil {
			continue
		}
		result = re.ReplaceAllLiteralString(result, p.Replacement)
	}
	return result
}
