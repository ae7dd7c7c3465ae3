// Command restored converts KJV text to restored names. It provides
// commands for converting text, generating review checklists, managing
// per-verse overrides, checking overrides against witness texts, and
// building complete Bible outputs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/restoredword/restoredkjv/core/assemble"
	"github.com/restoredword/restoredkjv/core/checklist"
	"github.com/restoredword/restoredkjv/core/convert"
	"github.com/restoredword/restoredkjv/core/overrides"
	"github.com/restoredword/restoredkjv/core/witness"
	"github.com/restoredword/restoredkjv/internal/ioformat"
	"github.com/restoredword/restoredkjv/internal/logging"
	"github.com/restoredword/restoredkjv/internal/validation"
)

const version = "0.2.0"

// CLI defines the command-line interface for restored.
var CLI struct {
	// Global flags
	Overrides string `help:"Override store path" default:"overrides.json" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug|info|warn|error)" default:"warn"`
	LogFormat string `name:"log-format" help:"Log format (text|json)" default:"text" enum:"text,json"`

	// Command groups (noun-first organization)
	Convert   ConvertCmd    `cmd:"" help:"Convert KJV text to restored names"`
	Checklist ChecklistCmd  `cmd:"" help:"Generate a manual-review checklist from verse JSON"`
	Override  OverrideGroup `cmd:"" help:"Override store operations (add, remove, list)"`
	Witness   WitnessGroup  `cmd:"" help:"Witness text operations"`
	Build     BuildCmd      `cmd:"" help:"Build a complete converted Bible"`
	Version   VersionCmd    `cmd:"" help:"Print version information"`
}

// ConversionFlags are the converter settings shared by convert and build.
type ConversionFlags struct {
	Strict              bool   `help:"Preserve ambiguous title-case Lord instead of substituting ADON"`
	EnforceWitnesses    bool   `name:"enforce-witnesses" help:"Reject overrides that carry no witnesses"`
	NoVerseAware        bool   `name:"no-verse-aware" help:"Disable verse reference detection and override lookup"`
	ShortNameMode       string `name:"short-name-mode" help:"Short-form YAH policy (kjv-only|witnessed|off)" default:"kjv-only"`
	HallelujahHeuristic bool   `name:"hallelujah-heuristic" help:"Rewrite 'Praise ye the LORD' as 'Hallelu-YAH'"`
}

// converter builds a convert.Converter from the shared flags.
func (f *ConversionFlags) converter() (*convert.Converter, error) {
	mode, err := overrides.ParseShortNameMode(f.ShortNameMode)
	if err != nil {
		return nil, err
	}
	config := convert.Config{
		OverridesPath:       CLI.Overrides,
		Strict:              f.Strict,
		EnforceWitnesses:    f.EnforceWitnesses,
		VerseAware:          !f.NoVerseAware,
		ShortNameMode:       mode,
		HallelujahHeuristic: f.HallelujahHeuristic,
	}
	return convert.New(config), nil
}

// ConvertCmd converts text from stdin or a file.
type ConvertCmd struct {
	ConversionFlags `embed:""`

	Format string `help:"Input/output format (plain|json|pipe)" default:"plain"`
	In     string `help:"Input file (default stdin)" type:"path"`
	Out    string `help:"Output file (default stdout)" type:"path"`
	Report string `help:"Write a conversion report to this file" type:"path"`
}

func (c *ConvertCmd) Run() error {
	format, err := ioformat.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	conv, err := c.converter()
	if err != nil {
		return err
	}

	in, err := ioformat.OpenInput(c.In)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := ioformat.CreateOutput(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	report, err := ioformat.NewRunner(conv).Convert(format, in, out, nil)
	if err != nil {
		return err
	}

	if c.Report != "" {
		if err := writeJSONFile(c.Report, report); err != nil {
			return err
		}
	}
	return nil
}

// ChecklistCmd scans verse JSON for tokens needing manual review.
type ChecklistCmd struct {
	In  string `help:"Input verse JSON file (default stdin)" type:"path"`
	Out string `help:"Output checklist file (default stdout)" type:"path"`
}

func (c *ChecklistCmd) Run() error {
	in, err := ioformat.OpenInput(c.In)
	if err != nil {
		return err
	}
	defer in.Close()

	var verses []checklist.Verse
	if err := json.NewDecoder(in).Decode(&verses); err != nil {
		return fmt.Errorf("reading verses: %w", err)
	}

	items := checklist.Generate(verses)

	out, err := ioformat.CreateOutput(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}

// OverrideGroup contains override store operations.
type OverrideGroup struct {
	Add    OverrideAddCmd    `cmd:"" help:"Add or replace an override for a verse"`
	Remove OverrideRemoveCmd `cmd:"" help:"Remove an override"`
	List   OverrideListCmd   `cmd:"" help:"List stored overrides"`
}

// OverrideAddCmd adds an override record.
type OverrideAddCmd struct {
	Ref            string   `arg:"" help:"Verse reference, e.g. 'Psalms 68:4'"`
	Text           string   `help:"Full replacement text for the verse"`
	Replace        []string `help:"Keyed replacement as ORIGINAL=RESTORED (repeatable, applied in order)" placeholder:"K=V"`
	Witness        []string `help:"Witness for this override (cepher|dabar_yahuah|kjv_token, repeatable)"`
	RequireWitness bool     `name:"require-witness" help:"Mark this override as requiring witnesses"`
	Note           string   `help:"Reviewer note"`
}

func (c *OverrideAddCmd) Run() error {
	if c.Text == "" && len(c.Replace) == 0 {
		return fmt.Errorf("an override needs --text or at least one --replace")
	}
	if c.Text != "" && len(c.Replace) > 0 {
		return fmt.Errorf("--text and --replace are mutually exclusive")
	}

	store := overrides.Open(CLI.Overrides)

	if c.Text != "" {
		if err := store.AddLegacy(c.Ref, c.Text, c.Witness, c.RequireWitness); err != nil {
			return err
		}
	} else {
		var pairs overrides.Replacements
		for _, kv := range c.Replace {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --replace %q, want ORIGINAL=RESTORED", kv)
			}
			pairs = append(pairs, overrides.Pair{Original: k, Replacement: v})
		}
		if err := store.AddKeyed(c.Ref, pairs, c.Witness, c.Note); err != nil {
			return err
		}
	}

	fmt.Printf("override stored for %s (%d total)\n", c.Ref, store.Len())
	return nil
}

// OverrideRemoveCmd removes an override record.
type OverrideRemoveCmd struct {
	Ref string `arg:"" help:"Verse reference to remove"`
}

func (c *OverrideRemoveCmd) Run() error {
	store := overrides.Open(CLI.Overrides)
	removed, err := store.Remove(c.Ref)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("no override for %s\n", c.Ref)
		return nil
	}
	fmt.Printf("override removed for %s\n", c.Ref)
	return nil
}

// OverrideListCmd lists stored overrides.
type OverrideListCmd struct {
	JSON bool `help:"Emit the full records as JSON"`
}

func (c *OverrideListCmd) Run() error {
	store := overrides.Open(CLI.Overrides)
	refs := store.Refs()

	if c.JSON {
		records := make(map[string]*overrides.Record, len(refs))
		for _, ref := range refs {
			rec, _ := store.Get(ref)
			records[ref] = rec
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(records)
	}

	if len(refs) == 0 {
		fmt.Println("no overrides stored")
		return nil
	}
	for _, ref := range refs {
		rec, _ := store.Get(ref)
		witnesses := "none"
		if len(rec.Witnesses) > 0 {
			witnesses = strings.Join(rec.Witnesses, ", ")
		}
		fmt.Printf("%-20s witnesses: %s\n", ref, witnesses)
	}
	return nil
}

// WitnessGroup contains witness text operations.
type WitnessGroup struct {
	Check WitnessCheckCmd `cmd:"" help:"Check verses against witness texts and suggest overrides"`
}

// WitnessCheckCmd compares KJV verses with witness Bibles.
type WitnessCheckCmd struct {
	Cepher       string `help:"Cepher witness file (.json, .xml, .osis, .db)" type:"path"`
	Dabar        string `help:"Dabar Yahuah witness file" type:"path"`
	In           string `help:"Input verse JSON file (default stdin)" type:"path"`
	Out          string `help:"Write check results to this file (default stdout)" type:"path"`
	Generate     string `help:"Write suggested overrides to this file" type:"path"`
	MinWitnesses int    `name:"min-witnesses" help:"Witnesses required to generate an override" default:"1"`
}

func (c *WitnessCheckCmd) Run() error {
	if c.Cepher == "" && c.Dabar == "" {
		return fmt.Errorf("at least one witness file is required (--cepher or --dabar)")
	}

	checker, err := witness.LoadChecker(c.Cepher, c.Dabar)
	if err != nil {
		return err
	}

	in, err := ioformat.OpenInput(c.In)
	if err != nil {
		return err
	}
	defer in.Close()

	var verses []witness.Verse
	if err := json.NewDecoder(in).Decode(&verses); err != nil {
		return fmt.Errorf("reading verses: %w", err)
	}

	results := checker.CheckBatch(verses)

	out, err := ioformat.CreateOutput(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return err
	}

	if c.Generate != "" {
		generated := checker.GenerateOverrides(results, c.MinWitnesses)
		if err := writeJSONFile(c.Generate, generated); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "generated %d overrides to %s\n", len(generated), c.Generate)
	}
	return nil
}

// BuildCmd assembles a complete converted Bible with outputs, a report,
// and a hashed manifest.
type BuildCmd struct {
	ConversionFlags `embed:""`

	In                string `required:"" help:"Input verse JSON file" type:"existingfile"`
	OutDir            string `name:"out-dir" required:"" help:"Output directory" type:"path"`
	Title             string `help:"Document title" default:"The Restored Names KJV"`
	BibleVersion      string `name:"bible-version" help:"Version string stamped into outputs" default:"1.0"`
	Text              bool   `help:"Write plain text output" default:"true" negatable:""`
	Epub              bool   `help:"Write EPUB output"`
	Archive           bool   `help:"Pack outputs into a .tar.xz archive"`
	FailOnUnwitnessed bool   `name:"fail-on-unwitnessed" help:"Abort if any flagged verse has no override"`
}

func (c *BuildCmd) Run() error {
	if err := validation.ValidateOutputDir(c.OutDir); err != nil {
		return err
	}

	conv, err := c.converter()
	if err != nil {
		return err
	}

	f, err := os.Open(c.In)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	verses, err := ioformat.ReadVerses(f)
	f.Close()
	if err != nil {
		return err
	}

	assembler := assemble.New(conv)

	if c.FailOnUnwitnessed {
		if items := assembler.CheckUnwitnessed(verses); len(items) > 0 {
			return assemble.ErrUnwitnessed(items)
		}
	}

	doc, err := assembler.Assemble(c.Title, c.BibleVersion, verses)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var outputs []string

	if c.Text {
		path := filepath.Join(c.OutDir, "bible.txt")
		if err := writeWith(path, func(w *os.File) error { return assemble.WriteText(w, doc) }); err != nil {
			return err
		}
		outputs = append(outputs, path)
	}

	if c.Epub {
		path := filepath.Join(c.OutDir, "bible.epub")
		if err := writeWith(path, func(w *os.File) error { return assemble.WriteEPUB(w, doc, "") }); err != nil {
			return err
		}
		outputs = append(outputs, path)
	}

	reportPath := filepath.Join(c.OutDir, "report.json")
	if err := writeJSONFile(reportPath, assembler.Report(c.Title, c.BibleVersion)); err != nil {
		return err
	}
	outputs = append(outputs, reportPath)

	manifest := assemble.NewManifest(c.Title, c.BibleVersion)
	for _, path := range outputs {
		if err := manifest.AddFile(path); err != nil {
			return err
		}
	}
	manifestPath := filepath.Join(c.OutDir, "manifest.json")
	if err := manifest.Write(manifestPath); err != nil {
		return err
	}

	if c.Archive {
		archivePath := filepath.Join(c.OutDir, "build.tar.xz")
		if err := assemble.Archive(archivePath, append(outputs, manifestPath)); err != nil {
			return err
		}
	}

	stats := assembler.Stats()
	fmt.Printf("built %d books, %d chapters, %d verses into %s\n",
		stats.BooksProcessed, stats.ChaptersProcessed, stats.TotalVerses, c.OutDir)
	if stats.AppliedOverrides > 0 {
		fmt.Printf("applied %d overrides\n", stats.AppliedOverrides)
	}
	if stats.AmbiguousLords > 0 {
		fmt.Printf("flagged %d ambiguous Lord occurrences (see report.json)\n", stats.AmbiguousLords)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("restored version %s\n", version)
	return nil
}

// Helper functions

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeWith(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("restored"),
		kong.Description("Restored Names KJV - name restoration toolchain"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), parseLogFormat(CLI.LogFormat))

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

func parseLogFormat(name string) logging.Format {
	if name == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
