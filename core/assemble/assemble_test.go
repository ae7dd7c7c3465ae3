package assemble

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/restoredword/restoredkjv/core/convert"
	"github.com/restoredword/restoredkjv/core/overrides"
)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	config := convert.DefaultConfig()
	config.OverridesPath = filepath.Join(t.TempDir(), "overrides.json")
	return New(convert.New(config))
}

func testVerses() []convert.Verse {
	return []convert.Verse{
		// Deliberately out of canonical order.
		{Book: "Exodus", Chapter: 1, Verse: 1, Text: "Now these are the names of the children of Israel."},
		{Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was without form, and void."},
		{Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created the heaven and the earth."},
		{Book: "Genesis", Chapter: 2, Verse: 1, Text: "Thus the heavens and the earth were finished."},
	}
}

func TestAssembleOrdersAndConverts(t *testing.T) {
	a := newTestAssembler(t)

	doc, err := a.Assemble("The Restored Names KJV", "1.0", testVerses())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(doc.Books) != 2 {
		t.Fatalf("got %d books, want 2", len(doc.Books))
	}
	if doc.Books[0].Name != "Genesis" || doc.Books[1].Name != "Exodus" {
		t.Errorf("book order = %s, %s", doc.Books[0].Name, doc.Books[1].Name)
	}
	if len(doc.Books[0].Chapters) != 2 {
		t.Fatalf("Genesis chapters = %d, want 2", len(doc.Books[0].Chapters))
	}

	first := doc.Books[0].Chapters[0].Verses[0]
	if first.Number != 1 {
		t.Errorf("first verse number = %d", first.Number)
	}
	if first.Text != "In the beginning YAHUAH created the heaven and the earth." {
		t.Errorf("converted text = %q", first.Text)
	}
	if first.Original != "In the beginning God created the heaven and the earth." {
		t.Errorf("original text = %q", first.Original)
	}

	stats := a.Stats()
	if stats.TotalVerses != 4 || stats.BooksProcessed != 2 || stats.ChaptersProcessed != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	a := newTestAssembler(t)
	if _, err := a.Assemble("Title", "1.0", nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestAssembleReport(t *testing.T) {
	a := newTestAssembler(t)
	if _, err := a.Assemble("The Restored Names KJV", "1.0", testVerses()); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	report := a.Report("The Restored Names KJV", "1.0")
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.GeneratedDate == "" {
		t.Error("GeneratedDate is empty")
	}
	if report.Statistics.TotalVerses != 4 {
		t.Errorf("TotalVerses = %d", report.Statistics.TotalVerses)
	}
}

func TestWriteText(t *testing.T) {
	a := newTestAssembler(t)
	doc, err := a.Assemble("The Restored Names KJV", "1.0", testVerses())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	var out strings.Builder
	if err := WriteText(&out, doc); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	text := out.String()

	if !strings.HasPrefix(text, "The Restored Names KJV\n") {
		t.Errorf("missing title page: %q", text[:40])
	}
	if !strings.Contains(text, "GENESIS\n") {
		t.Error("missing book heading")
	}
	if !strings.Contains(text, "Genesis 1\n1 In the beginning YAHUAH created the heaven and the earth.\n") {
		t.Error("missing chapter heading or numbered verse")
	}
	if strings.Index(text, "GENESIS") > strings.Index(text, "EXODUS") {
		t.Error("books out of canonical order")
	}
}

func TestCheckUnwitnessed(t *testing.T) {
	a := newTestAssembler(t)

	verses := []convert.Verse{
		{Book: "Psalms", Chapter: 68, Verse: 4, Text: "Extol him by his name JAH."},
		{Book: "Psalms", Chapter: 110, Verse: 1, Text: "The LORD said unto my Lord."},
		{Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was without form."},
	}

	items := a.CheckUnwitnessed(verses)
	if len(items) != 1 {
		t.Fatalf("got %d unwitnessed items, want 1: %+v", len(items), items)
	}
	if items[0].Ref != "Psalms 68:4" {
		t.Errorf("Ref = %q", items[0].Ref)
	}

	// An override on file clears the item.
	err := a.conv.Store().AddKeyed("Psalms 68:4",
		overrides.Replacements{{Original: "JAH", Replacement: "YAH"}},
		[]string{overrides.WitnessKJVToken}, "")
	if err != nil {
		t.Fatalf("AddKeyed: %v", err)
	}
	if items := a.CheckUnwitnessed(verses); len(items) != 0 {
		t.Errorf("items after override = %+v", items)
	}
}

func TestErrUnwitnessed(t *testing.T) {
	a := newTestAssembler(t)
	items := a.CheckUnwitnessed([]convert.Verse{
		{Book: "Psalms", Chapter: 68, Verse: 4, Text: "Extol him by his name JAH."},
	})
	err := ErrUnwitnessed(items)
	if err == nil {
		t.Fatal("ErrUnwitnessed returned nil")
	}
	if !strings.Contains(err.Error(), "Psalms 68:4") {
		t.Errorf("error = %v, want offending ref named", err)
	}
}
