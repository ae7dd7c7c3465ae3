// Package assemble converts a complete verse corpus into an ordered Bible
// document and emits it as plain text or EPUB, with a hashed build manifest
// and an optional compressed archive.
package assemble

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/checklist"
	"github.com/restoredword/restoredkjv/core/convert"
	"github.com/restoredword/restoredkjv/core/errors"
	"github.com/restoredword/restoredkjv/internal/logging"
)

// Verse is one converted verse in the assembled document.
type Verse struct {
	Number   int    `json:"verse"`
	Text     string `json:"text"`
	Original string `json:"original_text"`
}

// Chapter groups the verses of one chapter.
type Chapter struct {
	Number int     `json:"number"`
	Verses []Verse `json:"verses"`
}

// Book groups the chapters of one book, in canonical order.
type Book struct {
	Name     string    `json:"name"`
	Number   int       `json:"number"`
	Chapters []Chapter `json:"chapters"`
}

// Document is a fully assembled, converted Bible.
type Document struct {
	Title   string `json:"title"`
	Version string `json:"version"`
	Books   []Book `json:"books"`
}

// Stats counts what one assembly run processed.
type Stats struct {
	TotalVerses       int `json:"total_verses"`
	BooksProcessed    int `json:"books_processed"`
	ChaptersProcessed int `json:"chapters_processed"`
	AppliedOverrides  int `json:"applied_overrides"`
	AmbiguousLords    int `json:"ambiguous_lords"`
}

// Assembler builds documents by running every verse through a converter.
type Assembler struct {
	conv  *convert.Converter
	stats Stats
}

// New creates an assembler over a converter.
func New(c *convert.Converter) *Assembler {
	return &Assembler{conv: c}
}

// Stats returns the counters from the most recent Assemble call.
func (a *Assembler) Stats() Stats {
	return a.stats
}

// Assemble sorts the verses into canonical order, converts each one, and
// builds the document structure. The converter's trace is reset at the
// start so the resulting provenance covers exactly this run.
func (a *Assembler) Assemble(title, version string, verses []convert.Verse) (*Document, error) {
	if len(verses) == 0 {
		return nil, errors.NewValidation("verses", "no verses to assemble")
	}

	a.stats = Stats{}
	a.conv.ResetTrace()

	sorted := make([]*convert.Verse, len(verses))
	for i := range verses {
		v := verses[i]
		v.Book = books.Normalize(v.Book)
		sorted[i] = &v
	}
	books.SortVerses(sorted)

	doc := &Document{Title: title, Version: version}

	for _, v := range sorted {
		book := a.currentBook(doc, v.Book)
		chapter := a.currentChapter(book, v.Chapter)

		converted := a.conv.ConvertVerse(v.Text, v.Book, v.Chapter, v.Verse)
		chapter.Verses = append(chapter.Verses, Verse{
			Number:   v.Verse,
			Text:     converted,
			Original: v.Text,
		})
		a.stats.TotalVerses++
	}

	trace := a.conv.Trace()
	a.stats.AppliedOverrides = len(trace.AppliedOverrides)
	a.stats.AmbiguousLords = len(trace.AmbiguousLords)

	logging.Info("assembled document",
		"books", a.stats.BooksProcessed,
		"chapters", a.stats.ChaptersProcessed,
		"verses", a.stats.TotalVerses)
	return doc, nil
}

func (a *Assembler) currentBook(doc *Document, name string) *Book {
	if n := len(doc.Books); n > 0 && doc.Books[n-1].Name == name {
		return &doc.Books[n-1]
	}
	a.stats.BooksProcessed++
	doc.Books = append(doc.Books, Book{Name: name, Number: a.stats.BooksProcessed})
	return &doc.Books[len(doc.Books)-1]
}

func (a *Assembler) currentChapter(book *Book, number int) *Chapter {
	if n := len(book.Chapters); n > 0 && book.Chapters[n-1].Number == number {
		return &book.Chapters[n-1]
	}
	a.stats.ChaptersProcessed++
	book.Chapters = append(book.Chapters, Chapter{Number: number})
	logging.BuildProgress(book.Name, number)
	return &book.Chapters[len(book.Chapters)-1]
}

// Report is the build report for one assembly run.
type Report struct {
	Title         string                         `json:"title"`
	Version       string                         `json:"version"`
	RunID         string                         `json:"run_id"`
	GeneratedDate string                         `json:"generated_date"`
	Statistics    Stats                          `json:"statistics"`
	Overrides     []convert.AppliedOverride      `json:"applied_overrides,omitempty"`
	Heuristics    []convert.HeuristicApplication `json:"heuristic_replacements,omitempty"`
	Ambiguous     []convert.AmbiguousLord        `json:"ambiguous_lord_occurrences,omitempty"`
}

// Report builds the run report from the converter's trace.
func (a *Assembler) Report(title, version string) *Report {
	trace := a.conv.Trace()
	return &Report{
		Title:         title,
		Version:       version,
		RunID:         trace.RunID,
		GeneratedDate: time.Now().Format(time.RFC3339),
		Statistics:    a.stats,
		Overrides:     trace.AppliedOverrides,
		Heuristics:    trace.Heuristics,
		Ambiguous:     trace.AmbiguousLords,
	}
}

// CheckUnwitnessed scans the source verses for tokens that need a manual
// decision and reports the ones with no override on file. Builds run with
// --fail-on-unwitnessed abort when any remain.
func (a *Assembler) CheckUnwitnessed(verses []convert.Verse) []checklist.Item {
	scan := make([]checklist.Verse, len(verses))
	for i, v := range verses {
		scan[i] = checklist.Verse{Book: v.Book, Chapter: v.Chapter, Verse: v.Verse, Text: v.Text}
	}

	store := a.conv.Store()
	var unwitnessed []checklist.Item
	for _, item := range checklist.Generate(scan) {
		if !store.Has(item.Ref) {
			unwitnessed = append(unwitnessed, item)
		}
	}
	return unwitnessed
}

// ErrUnwitnessed wraps the refs that block a --fail-on-unwitnessed build.
func ErrUnwitnessed(items []checklist.Item) error {
	refs := make([]string, len(items))
	for i, item := range items {
		refs[i] = item.Ref
	}
	return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("%d verses need overrides: %v", len(items), refs))
}

// newRunID generates the identifier stamped into manifests.
func newRunID() string {
	return uuid.NewString()
}
