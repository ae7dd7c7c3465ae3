package witness

import (
	"testing"

	"github.com/restoredword/restoredkjv/core/overrides"
)

func TestCheckVerseNotFound(t *testing.T) {
	c := NewChecker(Bible{}, Bible{})
	result := c.CheckVerse("Genesis 1:1", "In the beginning God created.")

	if result.Found() {
		t.Error("Found() = true for verse absent from both witnesses")
	}
	if len(result.Witnesses) != 0 {
		t.Errorf("Witnesses = %v, want empty", result.Witnesses)
	}
	if result.Suggested != nil {
		t.Errorf("Suggested = %v, want nil", result.Suggested)
	}
}

func TestCheckVerseBothWitnesses(t *testing.T) {
	cepher := Bible{"Genesis 2:4": "These are the generations, in the day that YAHUAH ELOHIYM made the earth."}
	dabar := Bible{"Genesis 2:4": "In the day that YAHUAH ELOHIYM made the earth and the heavens."}
	c := NewChecker(cepher, dabar)

	result := c.CheckVerse("Genesis 2:4", "In the day that the LORD God made the earth.")

	if len(result.Witnesses) != 2 {
		t.Fatalf("Witnesses = %v, want both", result.Witnesses)
	}
	if result.Witnesses[0] != overrides.WitnessCepher || result.Witnesses[1] != overrides.WitnessDabarYahuah {
		t.Errorf("Witnesses = %v", result.Witnesses)
	}

	// Both witnesses carry YAHUAH, so LORD and God both map to it.
	if got, ok := result.Suggested.Get("LORD"); !ok || got != "YAHUAH" {
		t.Errorf("LORD suggestion = %q, %v", got, ok)
	}
	if got, ok := result.Suggested.Get("God"); !ok || got != "YAHUAH" {
		t.Errorf("God suggestion = %q, %v", got, ok)
	}
}

func TestCheckVerseShortFormAgreement(t *testing.T) {
	// Both witnesses use only the short form.
	cepher := Bible{"Psalms 68:4": "Sing unto YAH, extol him."}
	dabar := Bible{"Psalms 68:4": "Extol him by his name YAH."}
	c := NewChecker(cepher, dabar)

	result := c.CheckVerse("Psalms 68:4", "Extol him that rideth upon the heavens by the LORD.")

	if got, ok := result.Suggested.Get("LORD"); !ok || got != "YAH" {
		t.Errorf("LORD suggestion = %q, %v, want YAH", got, ok)
	}
}

func TestCheckVerseSingleWitnessIsConservative(t *testing.T) {
	cepher := Bible{"Isaiah 12:2": "YAHUAH is my strength and my song."}
	c := NewChecker(cepher, nil)

	result := c.CheckVerse("Isaiah 12:2", "The LORD JEHOVAH is my strength.")
	if got, ok := result.Suggested.Get("LORD"); !ok || got != "YAHUAH" {
		t.Errorf("single-witness LORD suggestion = %q, %v, want YAHUAH", got, ok)
	}

	// God requires both witnesses; a single witness never suggests it.
	result = c.CheckVerse("Isaiah 12:2", "God is my strength.")
	if _, ok := result.Suggested.Get("God"); ok {
		t.Error("God suggested on a single witness")
	}
}

func TestCheckVerseMessianicNamesAcceptEitherWitness(t *testing.T) {
	dabar := Bible{"John 1:17": "Grace and truth came by YAHUSHA HA'MASHIACH."}
	c := NewChecker(nil, dabar)

	result := c.CheckVerse("John 1:17", "Grace and truth came by Jesus Christ.")

	if got, ok := result.Suggested.Get("Jesus"); !ok || got != "YAHUSHA" {
		t.Errorf("Jesus suggestion = %q, %v", got, ok)
	}
	if got, ok := result.Suggested.Get("Christ"); !ok || got != "HA'MASHIACH" {
		t.Errorf("Christ suggestion = %q, %v", got, ok)
	}
}

func TestCheckVerseHolySpirit(t *testing.T) {
	cepher := Bible{"Acts 2:4": "They were all filled with the RUACH HAQODESH."}
	c := NewChecker(cepher, nil)

	result := c.CheckVerse("Acts 2:4", "And they were all filled with the Holy Ghost.")

	if got, ok := result.Suggested.Get("Holy Ghost"); !ok || got != "RUACH HAQODESH" {
		t.Errorf("Holy Ghost suggestion = %q, %v", got, ok)
	}
	if got, ok := result.Suggested.Get("Holy Spirit"); !ok || got != "RUACH HAQODESH" {
		t.Errorf("Holy Spirit suggestion = %q, %v", got, ok)
	}
}

func TestCheckBatch(t *testing.T) {
	cepher := Bible{"Genesis 1:1": "In the beginning ELOHIYM created."}
	c := NewChecker(cepher, nil)

	results := c.CheckBatch([]Verse{
		{Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning God created."},
		{Book: "Genesis", Chapter: 1, Verse: 2, Text: "And the earth was without form."},
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Found() {
		t.Error("Genesis 1:1 should be found")
	}
	if results[1].Found() {
		t.Error("Genesis 1:2 should not be found")
	}
}

func TestGenerateOverrides(t *testing.T) {
	cepher := Bible{
		"Genesis 2:4": "YAHUAH ELOHIYM made the earth.",
		"John 1:17":   "Grace came by YAHUSHA.",
	}
	dabar := Bible{
		"Genesis 2:4": "YAHUAH ELOHIYM made the heavens.",
	}
	c := NewChecker(cepher, dabar)

	results := c.CheckBatch([]Verse{
		{Book: "Genesis", Chapter: 2, Verse: 4, Text: "The LORD God made the earth."},
		{Book: "John", Chapter: 1, Verse: 17, Text: "Grace came by Jesus."},
		{Book: "Genesis", Chapter: 1, Verse: 2, Text: "The earth was without form."},
	})

	// minWitnesses=1 keeps both confirmed verses.
	generated := c.GenerateOverrides(results, 1)
	if len(generated) != 2 {
		t.Fatalf("minWitnesses=1: got %d overrides, want 2: %v", len(generated), generated)
	}
	rec := generated["Genesis 2:4"]
	if len(rec.Witnesses) != 2 {
		t.Errorf("Genesis 2:4 witnesses = %v", rec.Witnesses)
	}
	if rec.Note == "" {
		t.Error("generated record should carry a note")
	}

	// minWitnesses=2 drops the single-witness verse.
	generated = c.GenerateOverrides(results, 2)
	if len(generated) != 1 {
		t.Fatalf("minWitnesses=2: got %d overrides, want 1", len(generated))
	}
	if _, ok := generated["John 1:17"]; ok {
		t.Error("single-witness verse survived minWitnesses=2")
	}
}
