package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/errors"
)

// Ref identifies one verse.
type Ref struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
}

// Key returns the canonical override-store key, "Book Chapter:Verse".
func (r *Ref) Key() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Location implements books.VerseLocator.
func (r *Ref) Location() (string, int, int) {
	return r.Book, r.Chapter, r.Verse
}

// refGrammar is the participle grammar for verse references: an optional
// leading numeral for numbered books, one or two book-name words, then
// chapter:verse. Examples: "Genesis 1:1", "1 John 3:16", "Song 2:4".
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookNum   string `parser:"@Int?"`
	BookWord  string `parser:"@Ident"`
	BookWord2 string `parser:"@Ident?"`
	Chapter   int    `parser:"@Int"`
	Colon     string `parser:"':'"`
	Verse     int    `parser:"@Int"`
}

// refLexer defines the lexer for verse references.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// refParser is the participle parser for verse references.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses an exact verse-reference string like "1 John 3:16". The
// book name is normalized to its canonical spelling.
func ParseRef(s string) (*Ref, error) {
	parsed, err := refParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return nil, errors.NewParse("verse reference", "", err.Error())
	}

	book := parsed.BookWord
	if parsed.BookWord2 != "" {
		book += " " + parsed.BookWord2
	}
	if parsed.BookNum != "" {
		book = parsed.BookNum + " " + book
	}

	return &Ref{
		Book:    books.Normalize(book),
		Chapter: parsed.Chapter,
		Verse:   parsed.Verse,
	}, nil
}

// refScanRe locates the first verse-reference candidate inside free text:
// an optional numeral, one or two words, then chapter:verse.
var refScanRe = regexp.MustCompile(`\b(?:\d+\s+)?[A-Za-z]+(?:\s+[A-Za-z]+)?\s+\d+:\d+`)

// FindRef scans text for the first verse reference and parses it. The first
// match wins; text with no match yields no reference.
func FindRef(text string) (*Ref, bool) {
	candidate := refScanRe.FindString(text)
	if candidate == "" {
		return nil, false
	}
	ref, err := ParseRef(candidate)
	if err != nil {
		return nil, false
	}
	return ref, true
}
