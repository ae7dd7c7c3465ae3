// Package checklist scans verse text for tokens that need a human
// decision before conversion: title-case "Lord", hallelujah heuristic
// candidates, and the KJV's own "JAH" token.
package checklist

import (
	"regexp"
	"sort"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/overrides"
)

// Item is one entry in the review checklist. WitnessesRequired names the
// witnesses an override for this verse should carry.
type Item struct {
	Ref               string   `json:"ref"`
	Needs             string   `json:"needs"`
	Suggested         string   `json:"suggested"`
	WitnessesRequired []string `json:"witnesses_required"`
}

// Needs values emitted by Scan.
const (
	NeedLordDecision       = "Lord decision"
	NeedHallelujahDecision = "Hallelujah heuristic decision"
	NeedJahReview          = "JAH token review"
)

var (
	lordTitleRe = regexp.MustCompile(`\bLord\b`)
	lordUpperRe = regexp.MustCompile(`\bLORD\b`)
	praiseRe    = regexp.MustCompile(`(?i)Praise ye the LORD`)
	jahRe       = regexp.MustCompile(`\bJAH\b`)
)

// ScanVerse returns the checklist items triggered by a single verse.
func ScanVerse(text, book string, chapter, verse int) []Item {
	ref := books.Ref(book, chapter, verse)
	var items []Item

	// Title-case Lord with no all-caps LORD in the same verse is the
	// genuinely ambiguous case.
	if lordTitleRe.MatchString(text) && !lordUpperRe.MatchString(text) {
		items = append(items, Item{
			Ref:               ref,
			Needs:             NeedLordDecision,
			Suggested:         "YAHUAH (if OT quote) or ADON (if NT reference)",
			WitnessesRequired: []string{overrides.WitnessCepher, overrides.WitnessDabarYahuah},
		})
	}

	if praiseRe.MatchString(text) {
		items = append(items, Item{
			Ref:               ref,
			Needs:             NeedHallelujahDecision,
			Suggested:         "Hallelu-YAH (if appropriate)",
			WitnessesRequired: []string{},
		})
	}

	if jahRe.MatchString(text) {
		items = append(items, Item{
			Ref:               ref,
			Needs:             NeedJahReview,
			Suggested:         "YAH (KJV contains JAH)",
			WitnessesRequired: []string{overrides.WitnessKJVToken},
		})
	}

	return items
}

// Verse is the minimal shape Generate scans.
type Verse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// Generate scans a batch of verses, deduplicates repeated (ref, needs)
// pairs, and returns the items in canonical book order.
func Generate(verses []Verse) []Item {
	type key struct {
		ref   string
		needs string
	}
	seen := make(map[key]bool)
	items := make([]Item, 0)

	for _, v := range verses {
		book := books.Normalize(v.Book)
		for _, item := range ScanVerse(v.Text, book, v.Chapter, v.Verse) {
			k := key{item.Ref, item.Needs}
			if seen[k] {
				continue
			}
			seen[k] = true
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Ref < items[j].Ref
	})
	return items
}
