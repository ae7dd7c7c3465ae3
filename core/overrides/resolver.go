package overrides

import (
	"regexp"

	"github.com/restoredword/restoredkjv/core/errors"
)

// ShortNameMode controls how aggressively the short exclamation form "YAH"
// may replace the longer canonical name, gated by witness count.
type ShortNameMode string

// Short-name modes.
const (
	// ShortNameKJVOnly applies short forms only where the KJV itself
	// attests them. No extra witness requirement on overrides.
	ShortNameKJVOnly ShortNameMode = "kjv-only"
	// ShortNameWitnessed requires both primary witnesses before an
	// override may introduce the short form.
	ShortNameWitnessed ShortNameMode = "witnessed"
	// ShortNameOff disables short-form rewriting.
	ShortNameOff ShortNameMode = "off"
)

// ParseShortNameMode validates a mode string. The legacy underscore spelling
// "kjv_only" is accepted.
func ParseShortNameMode(s string) (ShortNameMode, error) {
	switch s {
	case string(ShortNameKJVOnly), "kjv_only":
		return ShortNameKJVOnly, nil
	case string(ShortNameWitnessed):
		return ShortNameWitnessed, nil
	case string(ShortNameOff):
		return ShortNameOff, nil
	default:
		return "", errors.NewConfig("short-name-mode", s, `must be one of "kjv-only", "witnessed", "off"`)
	}
}

// Mapping is the normalized replacement shape handed to the converter: the
// two persisted record shapes are unified here so nothing downstream
// branches on raw shape again.
type Mapping struct {
	// IsFull marks a full-verse replacement; Full then holds the entire
	// output text and Pairs is empty.
	IsFull bool
	Full   string
	Pairs  Replacements
}

// normalize unifies a record's persisted shape into a Mapping. Returns false
// when the record carries no usable replacement content.
func (r *Record) normalize() (*Mapping, bool) {
	reps := r.Replacements
	if reps == nil {
		// Legacy shape: a single full-verse replacement string. Empty
		// means absent.
		if r.Replacement == "" {
			return nil, false
		}
		reps = Replacements{{Original: FullTextKey, Replacement: r.Replacement}}
	}
	// The reserved key is exclusive: when present, every other entry in
	// the same mapping is ignored.
	if full, ok := reps.Get(FullTextKey); ok {
		return &Mapping{IsFull: true, Full: full}, true
	}
	if len(reps) == 0 {
		return nil, false
	}
	return &Mapping{Pairs: reps}, true
}

var (
	yahWordRe    = regexp.MustCompile(`\bYAH\b`)
	yahuahWordRe = regexp.MustCompile(`\bYAHUAH\b`)
)

// usesShortForm reports whether a replacement value introduces the short
// exclamation form: it equals "YAH", or contains it as a standalone word
// without also containing the long form "YAHUAH" as a standalone word.
func usesShortForm(value string) bool {
	if value == "YAH" {
		return true
	}
	return yahWordRe.MatchString(value) && !yahuahWordRe.MatchString(value)
}

// HasBothPrimaryWitnesses reports whether the witness set contains both
// primary provenance sources.
func HasBothPrimaryWitnesses(witnesses []string) bool {
	var cepher, dabar bool
	for _, w := range witnesses {
		switch w {
		case WitnessCepher:
			cepher = true
		case WitnessDabarYahuah:
			dabar = true
		}
	}
	return cepher && dabar
}

// Resolver decides whether a stored override should override the default
// ruleset for a given verse. Rejection at any step means the caller proceeds
// exactly as if no override existed.
type Resolver struct {
	store *Store
}

// NewResolver creates a resolver over a store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Policy carries the flags the trust gate evaluates.
type Policy struct {
	// EnforceWitnesses rejects overrides whose witness set is empty.
	EnforceWitnesses bool
	// ShortNameMode gates short-form replacement values.
	ShortNameMode ShortNameMode
}

// Resolve looks up a verse override and runs the trust gate. The returned
// record carries the witness set for provenance recording. ok is false when
// no override applies and conversion should fall through to the ruleset.
func (r *Resolver) Resolve(verseRef string, policy Policy) (mapping *Mapping, record *Record, ok bool) {
	rec, found := r.store.Get(verseRef)
	if !found {
		return nil, nil, false
	}

	m, usable := rec.normalize()
	if !usable {
		return nil, nil, false
	}

	// Strict audit mode refuses unattested overrides.
	if policy.EnforceWitnesses && len(rec.Witnesses) == 0 {
		return nil, nil, false
	}

	// In witnessed mode a short-form replacement value is trusted only
	// when both primary witnesses attest it. One offending value rejects
	// the whole override, never part of it.
	if policy.ShortNameMode == ShortNameWitnessed {
		if m.IsFull {
			if usesShortForm(m.Full) && !HasBothPrimaryWitnesses(rec.Witnesses) {
				return nil, nil, false
			}
		} else {
			for _, p := range m.Pairs {
				if usesShortForm(p.Replacement) && !HasBothPrimaryWitnesses(rec.Witnesses) {
					return nil, nil, false
				}
			}
		}
	}

	return m, rec, true
}
