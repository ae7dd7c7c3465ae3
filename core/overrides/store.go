// Package overrides manages per-verse replacement overrides: a durable
// JSON-backed store keyed by verse reference, and the resolver that decides
// whether a stored override is trusted over the default ruleset.
package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/restoredword/restoredkjv/core/errors"
	"github.com/restoredword/restoredkjv/internal/logging"
)

// Witness is a provenance tag asserting that an override's content is
// attested by a named external source.
type Witness = string

// The witness enumeration. Values outside it are dropped silently on write
// and tolerated on read.
const (
	WitnessCepher      Witness = "cepher"
	WitnessDabarYahuah Witness = "dabar_yahuah"
	WitnessKJVToken    Witness = "kjv_token"
)

// FullTextKey is the reserved replacements key meaning "replace the entire
// verse text". Legacy single-string records are normalized to it.
const FullTextKey = "__full_text__"

// FilterWitnesses drops values outside the witness enumeration, preserving
// the order of the valid ones.
func FilterWitnesses(witnesses []string) []string {
	var valid []string
	for _, w := range witnesses {
		switch w {
		case WitnessCepher, WitnessDabarYahuah, WitnessKJVToken:
			valid = append(valid, w)
		}
	}
	return valid
}

// Pair is one original-to-replacement entry.
type Pair struct {
	Original    string
	Replacement string
}

// Replacements is an ordered original-to-replacement mapping. Order is
// preserved through JSON so replacement application stays reproducible.
type Replacements []Pair

// Get returns the replacement for an original, if present.
func (r Replacements) Get(original string) (string, bool) {
	for _, p := range r {
		if p.Original == original {
			return p.Replacement, true
		}
	}
	return "", false
}

// MarshalJSON emits the mapping as a JSON object in entry order.
func (r Replacements) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Original)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Replacement)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving its document order.
func (r *Replacements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("replacements: expected JSON object, got %v", tok)
	}

	var pairs Replacements
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("replacements: non-string key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("replacements: value for %q: %w", key, err)
		}
		pairs = append(pairs, Pair{Original: key, Replacement: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = pairs
	return nil
}

// Record is one per-verse override as persisted. It carries either the
// legacy single-replacement shape or the current keyed mapping; the resolver
// normalizes both into a Mapping at the store boundary.
type Record struct {
	// Replacement is the legacy full-verse replacement text.
	Replacement string `json:"replacement,omitempty"`

	// Replacements is the current keyed mapping shape.
	Replacements Replacements `json:"replacements,omitempty"`

	// Witnesses holds the filtered provenance tags.
	Witnesses []string `json:"witnesses"`

	// RequireWitness is a legacy flag, kept for file compatibility.
	RequireWitness bool `json:"require_witness,omitempty"`

	// Note is free-form, informational only.
	Note string `json:"note,omitempty"`
}

// UnmarshalJSON tolerates a replacements field of unknown shape: the record
// still loads, just without a usable mapping, so resolution falls through to
// the default ruleset instead of failing the whole store.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Replacement    string          `json:"replacement"`
		Replacements   json.RawMessage `json:"replacements"`
		Witnesses      []string        `json:"witnesses"`
		RequireWitness bool            `json:"require_witness"`
		Note           string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Replacement = raw.Replacement
	r.Witnesses = raw.Witnesses
	r.RequireWitness = raw.RequireWitness
	r.Note = raw.Note
	r.Replacements = nil
	if len(raw.Replacements) > 0 {
		var reps Replacements
		if err := reps.UnmarshalJSON(raw.Replacements); err == nil {
			r.Replacements = reps
		}
	}
	return nil
}

// Store is a durable verse-reference to override-record map backed by a
// single JSON file. Every mutation persists synchronously; after any
// mutating call returns, the backing file reflects the in-memory state.
//
// The store takes no file lock: concurrent processes mutating the same
// backing file race and the last writer wins.
type Store struct {
	path    string
	records map[string]*Record
}

// Open loads the store at path. A missing file starts an empty store;
// malformed content is logged as a warning and also starts empty. Open
// never fails.
func Open(path string) *Store {
	s := &Store{
		path:    path,
		records: make(map[string]*Record),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.StoreWarning(s.path, err)
		}
		return
	}
	records := make(map[string]*Record)
	if err := json.Unmarshal(data, &records); err != nil {
		logging.StoreWarning(s.path, err)
		return
	}
	s.records = records
}

// Save serializes the full in-memory map, overwriting the backing file.
// The parent directory is created if absent.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIO("create directory for", s.path, err)
		}
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal override store")
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.NewIO("write", s.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of stored overrides.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns the record for a verse reference.
func (s *Store) Get(verseRef string) (*Record, bool) {
	rec, ok := s.records[verseRef]
	return rec, ok
}

// Has reports whether a record exists for a verse reference.
func (s *Store) Has(verseRef string) bool {
	_, ok := s.records[verseRef]
	return ok
}

// Refs returns all stored verse references, sorted for stable listing.
func (s *Store) Refs() []string {
	refs := make([]string, 0, len(s.records))
	for ref := range s.records {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// Add stores a record for a verse reference, replacing any prior record,
// and persists immediately. Witness values outside the enumeration are
// dropped.
func (s *Store) Add(verseRef string, rec Record) error {
	rec.Witnesses = FilterWitnesses(rec.Witnesses)
	if rec.Witnesses == nil {
		rec.Witnesses = []string{}
	}
	s.records[verseRef] = &rec
	return s.Save()
}

// AddLegacy stores a legacy single-replacement record.
func (s *Store) AddLegacy(verseRef, replacement string, witnesses []string, requireWitness bool) error {
	return s.Add(verseRef, Record{
		Replacement:    replacement,
		Witnesses:      witnesses,
		RequireWitness: requireWitness,
	})
}

// AddKeyed stores a record with a keyed replacements mapping.
func (s *Store) AddKeyed(verseRef string, replacements Replacements, witnesses []string, note string) error {
	return s.Add(verseRef, Record{
		Replacements: replacements,
		Witnesses:    witnesses,
		Note:         note,
	})
}

// Remove deletes the record for a verse reference and reports whether one
// existed. The store is persisted only if something was removed.
func (s *Store) Remove(verseRef string) (bool, error) {
	if _, ok := s.records[verseRef]; !ok {
		return false, nil
	}
	delete(s.records, verseRef)
	return true, s.Save()
}
