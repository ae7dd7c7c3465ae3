package witness

import (
	"regexp"
	"strings"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/overrides"
	"github.com/restoredword/restoredkjv/internal/logging"
)

// restoredNames are the names whose presence in witness texts is analyzed,
// in suggestion priority order.
var restoredNames = []string{
	"YAHUAH", "YAH", "YAHUSHA", "HA'MASHIACH", "RUACH HAQODESH", "ELOHIYM", "ADON",
}

var (
	checkLordRe   = regexp.MustCompile(`\bLORD\b`)
	checkGodRe    = regexp.MustCompile(`(?i)\bGod\b`)
	checkJesusRe  = regexp.MustCompile(`\bJesus\b`)
	checkChristRe = regexp.MustCompile(`\bChrist\b`)
	checkHolyRe   = regexp.MustCompile(`\bHoly\s+(?:Spirit|Ghost)\b`)
)

// Presence records which witnesses contain a restored name.
type Presence struct {
	Cepher      bool `json:"cepher"`
	DabarYahuah bool `json:"dabar_yahuah"`
}

func (p Presence) both() bool { return p.Cepher && p.DabarYahuah }
func (p Presence) any() bool  { return p.Cepher || p.DabarYahuah }

// Result is the outcome of checking one verse against the witness texts.
type Result struct {
	VerseRef    string                 `json:"verse_ref"`
	CepherText  string                 `json:"cepher_text,omitempty"`
	DabarText   string                 `json:"dabar_yahuah_text,omitempty"`
	Witnesses   []string               `json:"witnesses"`
	NameMatches map[string]Presence    `json:"name_matches,omitempty"`
	Suggested   overrides.Replacements `json:"suggested_replacements,omitempty"`
}

// Found reports whether at least one witness contains the verse.
func (r Result) Found() bool { return len(r.Witnesses) > 0 }

// Checker compares KJV verse text against loaded witness Bibles.
type Checker struct {
	cepher Bible
	dabar  Bible
}

// NewChecker builds a checker over already-loaded witness texts. Either
// Bible may be nil.
func NewChecker(cepher, dabar Bible) *Checker {
	return &Checker{cepher: cepher, dabar: dabar}
}

// LoadChecker loads witness files by path and builds a checker. Empty paths
// are skipped.
func LoadChecker(cepherPath, dabarPath string) (*Checker, error) {
	c := &Checker{}
	if cepherPath != "" {
		bible, err := Load(cepherPath)
		if err != nil {
			return nil, err
		}
		c.cepher = bible
		logging.Debug("loaded witness text", "witness", overrides.WitnessCepher, "verses", len(bible))
	}
	if dabarPath != "" {
		bible, err := Load(dabarPath)
		if err != nil {
			return nil, err
		}
		c.dabar = bible
		logging.Debug("loaded witness text", "witness", overrides.WitnessDabarYahuah, "verses", len(bible))
	}
	return c, nil
}

// CheckVerse looks the verse up in both witnesses, analyzes restored-name
// usage, and suggests replacements for the KJV text.
func (c *Checker) CheckVerse(verseRef, kjvText string) Result {
	result := Result{
		VerseRef:  verseRef,
		Witnesses: []string{},
	}

	if text, ok := c.cepher[verseRef]; ok {
		result.CepherText = text
		result.Witnesses = append(result.Witnesses, overrides.WitnessCepher)
	}
	if text, ok := c.dabar[verseRef]; ok {
		result.DabarText = text
		result.Witnesses = append(result.Witnesses, overrides.WitnessDabarYahuah)
	}

	if !result.Found() {
		return result
	}

	result.NameMatches = c.analyzeNames(result.CepherText, result.DabarText)
	result.Suggested = c.suggest(kjvText, result.NameMatches, result.Witnesses)
	return result
}

// analyzeNames reports, for each restored name, which witness texts contain
// it as a plain substring.
func (c *Checker) analyzeNames(cepherText, dabarText string) map[string]Presence {
	matches := make(map[string]Presence, len(restoredNames))
	for _, name := range restoredNames {
		matches[name] = Presence{
			Cepher:      cepherText != "" && containsName(cepherText, name),
			DabarYahuah: dabarText != "" && containsName(dabarText, name),
		}
	}
	return matches
}

// suggest proposes replacements for the KJV text based on which names the
// witnesses actually use. The divine-name suggestions (LORD, God) demand
// both witnesses agree; the Messianic names accept either.
func (c *Checker) suggest(kjvText string, matches map[string]Presence, witnesses []string) overrides.Replacements {
	var suggestions overrides.Replacements

	add := func(from, to string) {
		suggestions = append(suggestions, overrides.Pair{Original: from, Replacement: to})
	}

	if checkLordRe.MatchString(kjvText) {
		switch {
		case matches["YAHUAH"].both():
			add("LORD", "YAHUAH")
		case matches["YAH"].both():
			add("LORD", "YAH")
		case len(witnesses) == 1 && c.singleWitnessHas(matches["YAHUAH"], witnesses[0]):
			add("LORD", "YAHUAH")
		}
	}

	if checkGodRe.MatchString(kjvText) {
		switch {
		case matches["YAHUAH"].both():
			add("God", "YAHUAH")
		case matches["ELOHIYM"].both():
			add("God", "ELOHIYM")
		}
	}

	if checkJesusRe.MatchString(kjvText) && matches["YAHUSHA"].any() {
		add("Jesus", "YAHUSHA")
	}
	if checkChristRe.MatchString(kjvText) && matches["HA'MASHIACH"].any() {
		add("Christ", "HA'MASHIACH")
	}
	if checkHolyRe.MatchString(kjvText) && matches["RUACH HAQODESH"].any() {
		add("Holy Spirit", "RUACH HAQODESH")
		add("Holy Ghost", "RUACH HAQODESH")
	}

	return suggestions
}

func (c *Checker) singleWitnessHas(p Presence, witness string) bool {
	switch witness {
	case overrides.WitnessCepher:
		return p.Cepher
	case overrides.WitnessDabarYahuah:
		return p.DabarYahuah
	}
	return false
}

// Verse is one KJV verse submitted to CheckBatch.
type Verse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// CheckBatch checks each verse in order and returns one result per verse.
func (c *Checker) CheckBatch(verses []Verse) []Result {
	results := make([]Result, 0, len(verses))
	for _, v := range verses {
		ref := books.Ref(v.Book, v.Chapter, v.Verse)
		results = append(results, c.CheckVerse(ref, v.Text))
	}
	return results
}

// GenerateOverrides turns check results into override records, keeping only
// verses confirmed by at least minWitnesses witnesses with at least one
// suggested replacement.
func (c *Checker) GenerateOverrides(results []Result, minWitnesses int) map[string]overrides.Record {
	generated := make(map[string]overrides.Record)
	for _, r := range results {
		if len(r.Witnesses) < minWitnesses || len(r.Suggested) == 0 {
			continue
		}
		generated[r.VerseRef] = overrides.Record{
			Replacements: r.Suggested,
			Witnesses:    r.Witnesses,
			Note:         "Auto-generated from witness check",
		}
	}
	return generated
}

func containsName(text, name string) bool {
	return strings.Contains(text, name)
}
