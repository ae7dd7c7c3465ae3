package convert

import (
	"github.com/google/uuid"

	"github.com/restoredword/restoredkjv/core/overrides"
)

// Heuristic kinds recorded in the trace.
const (
	// HeuristicHallelujah marks a "Praise ye the LORD" rewrite.
	HeuristicHallelujah = "hallelujah_heuristic"
)

// unknownRef labels trace entries for text with no verse reference.
const unknownRef = "unknown"

// AppliedOverride records one accepted override for audit reporting.
type AppliedOverride struct {
	VerseRef     string                 `json:"verse_ref"`
	Replacements overrides.Replacements `json:"replacements"`
	Witnesses    []string               `json:"witnesses"`
}

// HeuristicApplication records one heuristic that changed text.
type HeuristicApplication struct {
	VerseRef string `json:"verse_ref"`
	Kind     string `json:"type"`
}

// AmbiguousLord records an ambiguous title-case "Lord" occurrence flagged
// for audit, independent of whether strict mode suppressed its substitution.
type AmbiguousLord struct {
	VerseRef string `json:"verse_ref"`
	Text     string `json:"text"`
}

// Trace is the per-run provenance record: which overrides and heuristics
// fired and which ambiguous tokens were seen. It is append-only during a run
// and reset at batch start. For identical input and configuration the
// recorded lists are identical; only RunID differs between runs.
type Trace struct {
	RunID            string                 `json:"run_id"`
	AppliedOverrides []AppliedOverride      `json:"applied_overrides,omitempty"`
	Heuristics       []HeuristicApplication `json:"heuristic_replacements,omitempty"`
	AmbiguousLords   []AmbiguousLord        `json:"ambiguous_lord_occurrences,omitempty"`
}

// NewTrace creates an empty trace with a fresh run ID.
func NewTrace() *Trace {
	return &Trace{RunID: uuid.NewString()}
}

// Reset clears the trace for a new batch under a fresh run ID.
func (t *Trace) Reset() {
	t.RunID = uuid.NewString()
	t.AppliedOverrides = nil
	t.Heuristics = nil
	t.AmbiguousLords = nil
}

func (t *Trace) recordOverride(verseRef string, m *overrides.Mapping, witnesses []string) {
	reps := m.Pairs
	if m.IsFull {
		reps = overrides.Replacements{{Original: overrides.FullTextKey, Replacement: m.Full}}
	}
	t.AppliedOverrides = append(t.AppliedOverrides, AppliedOverride{
		VerseRef:     verseRef,
		Replacements: reps,
		Witnesses:    witnesses,
	})
}

func (t *Trace) recordHeuristic(verseRef, kind string) {
	if verseRef == "" {
		verseRef = unknownRef
	}
	t.Heuristics = append(t.Heuristics, HeuristicApplication{VerseRef: verseRef, Kind: kind})
}

func (t *Trace) recordAmbiguousLord(verseRef, text string) {
	if verseRef == "" {
		verseRef = unknownRef
	}
	t.AmbiguousLords = append(t.AmbiguousLords, AmbiguousLord{VerseRef: verseRef, Text: text})
}
