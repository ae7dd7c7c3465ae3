// Package rules implements the name-substitution ruleset that rewrites
// conventional English names and titles into restored Hebrew names.
//
// The ruleset is an ordered table of typed rules evaluated in four tiers:
// whole phrases first, then single tokens, then the ambiguous "Lord" token,
// then short-form normalization. Each tier runs over the output of the
// previous tier and never re-scans text a rule has already inserted. All
// matching is word-boundary exact, so a rule targeting "God" never fires
// inside "Godly".
package rules

import (
	"regexp"
	"strings"
)

// Tier identifies the evaluation stage a rule belongs to.
type Tier int

const (
	// TierPhrase matches multi-word phrases before any single-word rule.
	TierPhrase Tier = iota
	// TierToken matches single words.
	TierToken
	// TierAmbiguous is the "Lord" rule, suppressed in strict mode.
	TierAmbiguous
	// TierShortForm normalizes short exclamation forms.
	TierShortForm
)

// CasePolicy controls how a rule treats letter case.
type CasePolicy int

const (
	// MatchFold matches case-insensitively.
	MatchFold CasePolicy = iota
	// MatchExact matches the source spelling exactly.
	MatchExact
	// MatchPreserve matches case-insensitively and selects the replacement
	// casing (all-upper, title, all-lower) from the matched token.
	MatchPreserve
)

// Rule is one entry in the ordered substitution table.
type Rule struct {
	Tier        Tier
	Source      string
	Replacement string
	Case        CasePolicy

	re *regexp.Regexp
}

// compile builds the word-boundary matcher for the rule. Phrase sources may
// contain spaces, which match any run of whitespace. Short-form sources also
// match the fused spelling ("Hallelujah" as well as "Hallelu jah"), so the
// space matches zero or more whitespace characters there.
func (r *Rule) compile() {
	src := regexp.QuoteMeta(r.Source)
	if r.Tier == TierShortForm {
		src = strings.ReplaceAll(src, " ", `\s*`)
	} else {
		src = strings.ReplaceAll(src, " ", `\s+`)
	}
	pattern := `\b` + src + `\b`
	if r.Case != MatchExact {
		pattern = `(?i)` + pattern
	}
	r.re = regexp.MustCompile(pattern)
}

// Ruleset is the compiled, ordered substitution table.
type Ruleset struct {
	rules []Rule
}

// defaultTable is the KJV restored-names table. Order matters: phrases run
// before tokens so compound names are never fragmented, and the exact-case
// GOD rule runs before the folded God rule so the all-caps and title-case
// spellings map to different restored names.
var defaultTable = []Rule{
	{Tier: TierPhrase, Source: "Jesus Christ", Replacement: "YAHUSHA HA'MASHIACH", Case: MatchFold},
	{Tier: TierPhrase, Source: "Holy Ghost", Replacement: "RUACH HAQODESH", Case: MatchFold},
	{Tier: TierPhrase, Source: "Holy Spirit", Replacement: "RUACH HAQODESH", Case: MatchFold},

	{Tier: TierToken, Source: "Jesus", Replacement: "YAHUSHA", Case: MatchFold},
	{Tier: TierToken, Source: "Christ", Replacement: "HA'MASHIACH", Case: MatchFold},
	{Tier: TierToken, Source: "GOD", Replacement: "ELOHIYM", Case: MatchExact},
	{Tier: TierToken, Source: "God", Replacement: "YAHUAH", Case: MatchFold},
	{Tier: TierToken, Source: "LORD", Replacement: "YAHUAH", Case: MatchExact},
	{Tier: TierToken, Source: "Messiah", Replacement: "HA'MASHIACH", Case: MatchFold},

	// Title-case Lord only. The all-caps spelling is consumed by the LORD
	// token rule above; lowercase "lord" passes through untouched.
	{Tier: TierAmbiguous, Source: "Lord", Replacement: "ADON", Case: MatchExact},

	{Tier: TierShortForm, Source: "Hallelu jah", Replacement: "HalleluYAH", Case: MatchFold},
	{Tier: TierShortForm, Source: "Hallelu YAH", Replacement: "HalleluYAH", Case: MatchFold},
}

// defaultRuleset is compiled once at package init.
var defaultRuleset = New(defaultTable)

// New compiles a ruleset from an ordered rule table.
func New(table []Rule) *Ruleset {
	rs := &Ruleset{rules: make([]Rule, len(table))}
	copy(rs.rules, table)
	for i := range rs.rules {
		rs.rules[i].compile()
	}
	return rs
}

// Default returns the KJV restored-names ruleset.
func Default() *Ruleset {
	return defaultRuleset
}

// Rules returns the ordered rule table.
func (rs *Ruleset) Rules() []Rule {
	return rs.rules
}

// Apply runs every tier over text in order. In strict mode the ambiguous
// "Lord" tier is a no-op and the token passes through unchanged.
func (rs *Ruleset) Apply(text string, strict bool) string {
	result := text
	for i := range rs.rules {
		rule := &rs.rules[i]
		if rule.Tier == TierAmbiguous && strict {
			continue
		}
		result = rule.apply(result)
	}
	return result
}

// ApplyTier runs only the rules of a single tier, in table order.
func (rs *Ruleset) ApplyTier(text string, tier Tier) string {
	result := text
	for i := range rs.rules {
		if rs.rules[i].Tier == tier {
			result = rs.rules[i].apply(result)
		}
	}
	return result
}

func (r *Rule) apply(text string) string {
	if r.Case == MatchPreserve {
		return r.re.ReplaceAllStringFunc(text, func(matched string) string {
			return preserveCase(matched, r.Replacement)
		})
	}
	return r.re.ReplaceAllString(text, r.Replacement)
}

// preserveCase casts replacement into the casing class of the matched token:
// all-upper, title, or all-lower.
func preserveCase(matched, replacement string) string {
	switch {
	case matched == strings.ToUpper(matched):
		return strings.ToUpper(replacement)
	case isTitleCase(matched):
		return titleCase(replacement)
	default:
		return strings.ToLower(replacement)
	}
}

func isTitleCase(s string) bool {
	if len(s) < 2 {
		return false
	}
	return s[:1] == strings.ToUpper(s[:1]) && s[1:] == strings.ToLower(s[1:])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// jahRule rewrites the KJV token "JAH" (Psalm 68:4) to "YAH", preserving the
// matched casing.
var jahRule = func() *Rule {
	r := &Rule{Tier: TierShortForm, Source: "JAH", Replacement: "YAH", Case: MatchPreserve}
	r.compile()
	return r
}()

// JahToYah applies the case-preserving JAH to YAH rewrite and reports
// whether anything changed.
func JahToYah(text string) (string, bool) {
	result := jahRule.apply(text)
	return result, result != text
}

// The hallelujah heuristic matches its source literally, exact case, unlike
// the rest of the short-form tier. Relaxing it would change which verses
// trigger the heuristic.
var hallelujahPatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`Praise ye the LORD\.`), "Hallelu-YAH."},
	{regexp.MustCompile(`Praise ye the LORD\b`), "Hallelu-YAH"},
}

// HallelujahHeuristic replaces "Praise ye the LORD" (with or without the
// trailing period) with "Hallelu-YAH", preserving the period. Reports
// whether anything changed.
func HallelujahHeuristic(text string) (string, bool) {
	result := text
	for _, p := range hallelujahPatterns {
		result = p.re.ReplaceAllString(result, p.replacement)
	}
	return result, result != text
}

var (
	lordTitleRe = regexp.MustCompile(`\bLord\b`)
	lordUpperRe = regexp.MustCompile(`\bLORD\b`)
)

// HasAmbiguousLord reports whether text contains the title-case "Lord"
// without the all-caps spelling, the case flagged for manual review.
func HasAmbiguousLord(text string) bool {
	return lordTitleRe.MatchString(text) && !lordUpperRe.MatchString(text)
}
