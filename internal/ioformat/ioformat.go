// Package ioformat reads and writes the conversion pipeline's three wire
// formats (plain text, verse JSON, pipe) and builds per-run reports.
package ioformat

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/restoredword/restoredkjv/core/convert"
	"github.com/restoredword/restoredkjv/core/errors"
	"github.com/restoredword/restoredkjv/core/overrides"
)

// Format selects the wire format for conversion input and output.
type Format string

const (
	// FormatPlain is free text converted as one block.
	FormatPlain Format = "plain"
	// FormatJSON is an array of verse objects.
	FormatJSON Format = "json"
	// FormatPipe is one verse per line.
	FormatPipe Format = "pipe"
)

// ParseFormat validates a format name from a flag.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPlain:
		return FormatPlain, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPipe:
		return FormatPipe, nil
	default:
		return "", errors.NewUnsupported("format "+s, "expected plain, json, or pipe")
	}
}

// OpenInput opens the input file, or wraps stdin when path is empty.
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open input", path, err)
	}
	return f, nil
}

// CreateOutput creates the output file, or wraps stdout when path is empty.
// The stdout wrapper's Close is a no-op.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create output", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// ReadVerses decodes a JSON array of verse objects.
func ReadVerses(r io.Reader) ([]convert.Verse, error) {
	var verses []convert.Verse
	if err := json.NewDecoder(r).Decode(&verses); err != nil {
		return nil, errors.NewParse("json", "input", fmt.Sprintf("expected a JSON array of verse objects: %v", err))
	}
	return verses, nil
}

// ReadLines reads pipe-format input, dropping blank lines.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read lines", "input", err)
	}
	return lines, nil
}

// Report summarizes one conversion run: counts per format plus the full
// provenance trace.
type Report struct {
	Format     Format `json:"format"`
	StrictMode bool   `json:"strict_mode"`
	RunID      string `json:"run_id"`

	// Plain format.
	InputLength  int  `json:"input_length,omitempty"`
	OutputLength int  `json:"output_length,omitempty"`
	Changed      bool `json:"changed,omitempty"`

	// JSON and pipe formats.
	VerseCount     int `json:"verse_count,omitempty"`
	LineCount      int `json:"line_count,omitempty"`
	ChangedCount   int `json:"changed_count,omitempty"`
	UnchangedCount int `json:"unchanged_count,omitempty"`

	AppliedOverrides  []convert.AppliedOverride `json:"applied_overrides,omitempty"`
	ReplacementCounts map[string]int            `json:"replacement_counts,omitempty"`

	Heuristics      []convert.HeuristicApplication `json:"heuristic_replacements,omitempty"`
	HeuristicCounts map[string]int                 `json:"heuristic_counts,omitempty"`

	AmbiguousLords        []convert.AmbiguousLord `json:"ambiguous_lord_occurrences,omitempty"`
	AmbiguousLordCount    int                     `json:"ambiguous_lord_count,omitempty"`
	AmbiguousLordBehavior string                  `json:"ambiguous_lord_behavior,omitempty"`
}

// Runner converts input in a chosen format and reports on the run.
type Runner struct {
	conv *convert.Converter
}

// NewRunner wraps a converter.
func NewRunner(c *convert.Converter) *Runner {
	return &Runner{conv: c}
}

// Convert reads input, converts it in the given format, writes the result,
// and returns a report built from the converter's trace.
func (r *Runner) Convert(format Format, in io.Reader, out io.Writer, strict *bool) (*Report, error) {
	switch format {
	case FormatPlain:
		return r.convertPlain(in, out, strict)
	case FormatJSON:
		return r.convertJSON(in, out, strict)
	case FormatPipe:
		return r.convertPipe(in, out, strict)
	default:
		return nil, errors.NewUnsupported("format "+string(format), "expected plain, json, or pipe")
	}
}

func (r *Runner) convertPlain(in io.Reader, out io.Writer, strict *bool) (*Report, error) {
	r.conv.ResetTrace()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.NewIO("read input", "input", err)
	}
	text := string(data)
	converted := r.conv.ConvertWith(text, convert.Options{Strict: strict})
	if _, err := io.WriteString(out, converted); err != nil {
		return nil, errors.NewIO("write output", "output", err)
	}

	report := r.buildReport(FormatPlain, strict)
	report.InputLength = len(text)
	report.OutputLength = len(converted)
	report.Changed = text != converted
	return report, nil
}

func (r *Runner) convertJSON(in io.Reader, out io.Writer, strict *bool) (*Report, error) {
	verses, err := ReadVerses(in)
	if err != nil {
		return nil, err
	}

	results := r.conv.ConvertBatch(verses, convert.Options{Strict: strict})

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return nil, errors.NewIO("write output", "output", err)
	}

	changed := 0
	for _, res := range results {
		if res.Original != res.Converted {
			changed++
		}
	}

	report := r.buildReport(FormatJSON, strict)
	report.VerseCount = len(verses)
	report.ChangedCount = changed
	report.UnchangedCount = len(verses) - changed
	return report, nil
}

func (r *Runner) convertPipe(in io.Reader, out io.Writer, strict *bool) (*Report, error) {
	r.conv.ResetTrace()

	lines, err := ReadLines(in)
	if err != nil {
		return nil, err
	}

	changed := 0
	w := bufio.NewWriter(out)
	for _, line := range lines {
		converted := r.conv.ConvertWith(line, convert.Options{Strict: strict})
		if converted != line {
			changed++
		}
		if _, err := w.WriteString(converted + "\n"); err != nil {
			return nil, errors.NewIO("write output", "output", err)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, errors.NewIO("write output", "output", err)
	}

	report := r.buildReport(FormatPipe, strict)
	report.LineCount = len(lines)
	report.ChangedCount = changed
	report.UnchangedCount = len(lines) - changed
	return report, nil
}

// buildReport folds the converter's trace into report counts.
func (r *Runner) buildReport(format Format, strict *bool) *Report {
	trace := r.conv.Trace()
	effectiveStrict := r.conv.Config().Strict
	if strict != nil {
		effectiveStrict = *strict
	}

	report := &Report{
		Format:     format,
		StrictMode: effectiveStrict,
		RunID:      trace.RunID,
	}

	if len(trace.AppliedOverrides) > 0 {
		report.AppliedOverrides = trace.AppliedOverrides
		counts := make(map[string]int)
		for _, applied := range trace.AppliedOverrides {
			for _, pair := range applied.Replacements {
				if pair.Original == overrides.FullTextKey {
					continue
				}
				counts[pair.Original+" -> "+pair.Replacement]++
			}
		}
		if len(counts) > 0 {
			report.ReplacementCounts = counts
		}
	}

	if len(trace.Heuristics) > 0 {
		report.Heuristics = trace.Heuristics
		counts := make(map[string]int)
		for _, h := range trace.Heuristics {
			counts[h.Kind]++
		}
		report.HeuristicCounts = counts
	}

	if len(trace.AmbiguousLords) > 0 {
		report.AmbiguousLords = trace.AmbiguousLords
		report.AmbiguousLordCount = len(trace.AmbiguousLords)
		if effectiveStrict {
			report.AmbiguousLordBehavior = "preserved"
		} else {
			report.AmbiguousLordBehavior = "converted_to_ADON"
		}
	}

	return report
}
