package checklist

import (
	"testing"

	"github.com/restoredword/restoredkjv/core/overrides"
)

func TestScanVerse(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		needs []string
	}{
		{
			name:  "title case Lord alone",
			text:  "And they said, Believe on the Lord Jesus Christ.",
			needs: []string{NeedLordDecision},
		},
		{
			name:  "Lord beside all caps LORD is not ambiguous",
			text:  "The LORD said unto my Lord, Sit thou at my right hand.",
			needs: nil,
		},
		{
			name:  "praise formula",
			text:  "Praise ye the LORD. Praise, O ye servants.",
			needs: []string{NeedHallelujahDecision},
		},
		{
			name:  "praise formula is case insensitive",
			text:  "praise ye the lord for his mercy.",
			needs: []string{NeedHallelujahDecision},
		},
		{
			name:  "JAH token",
			text:  "Extol him that rideth upon the heavens by his name JAH.",
			needs: []string{NeedJahReview},
		},
		{
			name:  "lowercase jah without boundary match",
			text:  "Hallelujah was sung by the congregation.",
			needs: nil,
		},
		{
			name:  "nothing sensitive",
			text:  "In the beginning God created the heaven and the earth.",
			needs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ScanVerse(tt.text, "Psalms", 68, 4)
			if len(items) != len(tt.needs) {
				t.Fatalf("got %d items, want %d: %+v", len(items), len(tt.needs), items)
			}
			for i, need := range tt.needs {
				if items[i].Needs != need {
					t.Errorf("item %d: Needs = %q, want %q", i, items[i].Needs, need)
				}
				if items[i].Ref != "Psalms 68:4" {
					t.Errorf("item %d: Ref = %q, want %q", i, items[i].Ref, "Psalms 68:4")
				}
			}
		})
	}
}

func TestScanVerseWitnessRequirements(t *testing.T) {
	items := ScanVerse("The Lord is my shepherd.", "Psalms", 23, 1)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	want := []string{overrides.WitnessCepher, overrides.WitnessDabarYahuah}
	got := items[0].WitnessesRequired
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("WitnessesRequired = %v, want %v", got, want)
	}

	items = ScanVerse("Sing praises to his name JAH.", "Psalms", 68, 4)
	if len(items) != 1 || len(items[0].WitnessesRequired) != 1 || items[0].WitnessesRequired[0] != overrides.WitnessKJVToken {
		t.Errorf("JAH item witnesses = %+v, want [%s]", items, overrides.WitnessKJVToken)
	}
}

func TestGenerateDeduplicatesAndSorts(t *testing.T) {
	verses := []Verse{
		{Book: "Revelation", Chapter: 19, Verse: 1, Text: "I heard the Lord speak."},
		{Book: "Genesis", Chapter: 18, Verse: 3, Text: "My Lord, if now I have found favour."},
		// Same ref and same need as the first entry.
		{Book: "Revelation", Chapter: 19, Verse: 1, Text: "Again the Lord spoke."},
	}

	items := Generate(verses)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	// Sorted lexicographically by ref.
	if items[0].Ref != "Genesis 18:3" || items[1].Ref != "Revelation 19:1" {
		t.Errorf("refs = %q, %q", items[0].Ref, items[1].Ref)
	}
}

func TestGenerateNormalizesBookNames(t *testing.T) {
	verses := []Verse{
		{Book: "Psalm", Chapter: 68, Verse: 4, Text: "Extol him by his name JAH."},
	}
	items := Generate(verses)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Ref != "Psalms 68:4" {
		t.Errorf("Ref = %q, want %q", items[0].Ref, "Psalms 68:4")
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	items := Generate(nil)
	if items == nil {
		t.Fatal("Generate(nil) returned nil, want empty slice")
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}
