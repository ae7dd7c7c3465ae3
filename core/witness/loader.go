// Package witness loads witness Bible texts and checks override content
// against them. A witness text confirms that a restored name actually
// appears in an independent translation before an override carrying that
// witness is trusted.
package witness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/restoredword/restoredkjv/core/books"
	"github.com/restoredword/restoredkjv/core/errors"
	"github.com/restoredword/restoredkjv/core/sqlite"
)

// Bible maps verse references ("Genesis 1:1") to verse text.
type Bible map[string]string

// Precompiled queries for the two supported XML layouts.
var (
	osisVerseQuery      = xpath.MustCompile("//verse[@osisID]")
	zefaniaBookQuery    = xpath.MustCompile("//BIBLEBOOK[@bname]")
	zefaniaChapterQuery = xpath.MustCompile("CHAPTER[@cnumber]")
	zefaniaVerseQuery   = xpath.MustCompile("VERS[@vnumber]")
)

// verseRecord is the JSON shape for one verse in an array-form witness file.
type verseRecord struct {
	Ref     string `json:"ref"`
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

func (v verseRecord) key() string {
	if v.Ref != "" {
		return v.Ref
	}
	if v.Book == "" {
		return ""
	}
	return books.Ref(v.Book, v.Chapter, v.Verse)
}

// Load reads a witness Bible, choosing the parser by file extension:
// .json, .xml/.osis, or .db/.sqlite/.sqlite3.
func Load(path string) (Bible, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".xml", ".osis":
		return LoadXML(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	default:
		return nil, errors.NewUnsupported("witness format "+filepath.Ext(path), "expected .json, .xml, .osis, .db, or .sqlite")
	}
}

// LoadJSON reads a witness Bible from JSON. Two shapes are accepted: an
// array of verse objects (with either a "ref" field or book/chapter/verse
// fields) or an object keyed by verse reference.
func LoadJSON(path string) (Bible, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read witness file", path, err)
	}

	bible := make(Bible)

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []verseRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.NewParse("json", path, fmt.Sprintf("invalid witness JSON: %v", err))
		}
		for _, rec := range records {
			if key := rec.key(); key != "" {
				bible[key] = rec.Text
			}
		}
		return bible, nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, errors.NewParse("json", path, fmt.Sprintf("invalid witness JSON: %v", err))
	}
	for ref, text := range keyed {
		bible[ref] = text
	}
	return bible, nil
}

// LoadXML reads a witness Bible from OSIS or Zefania XML. OSIS verses carry
// an osisID attribute ("Gen.1.1"); Zefania nests VERS elements under
// BIBLEBOOK and CHAPTER.
func LoadXML(path string) (Bible, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open witness file", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, errors.NewParse("xml", path, fmt.Sprintf("invalid witness XML: %v", err))
	}

	bible := make(Bible)

	// OSIS: <verse osisID="Gen.1.1">text</verse>
	for _, node := range xmlquery.QuerySelectorAll(doc, osisVerseQuery) {
		ref, ok := parseOSISRef(node.SelectAttr("osisID"))
		if !ok {
			continue
		}
		if text := strings.TrimSpace(node.InnerText()); text != "" {
			bible[ref] = text
		}
	}
	if len(bible) > 0 {
		return bible, nil
	}

	// Zefania: <BIBLEBOOK bname="Genesis"><CHAPTER cnumber="1"><VERS vnumber="1">
	for _, book := range xmlquery.QuerySelectorAll(doc, zefaniaBookQuery) {
		name := books.Normalize(book.SelectAttr("bname"))
		for _, chapter := range xmlquery.QuerySelectorAll(book, zefaniaChapterQuery) {
			cnum, err := strconv.Atoi(chapter.SelectAttr("cnumber"))
			if err != nil {
				continue
			}
			for _, vers := range xmlquery.QuerySelectorAll(chapter, zefaniaVerseQuery) {
				vnum, err := strconv.Atoi(vers.SelectAttr("vnumber"))
				if err != nil {
					continue
				}
				if text := strings.TrimSpace(vers.InnerText()); text != "" {
					bible[books.Ref(name, cnum, vnum)] = text
				}
			}
		}
	}

	if len(bible) == 0 {
		return nil, errors.NewParse("xml", path, "no verses found (expected OSIS or Zefania XML)")
	}
	return bible, nil
}

// LoadSQLite reads a witness Bible from a SQLite database with a verses
// table (book, chapter, verse, text columns).
func LoadSQLite(path string) (Bible, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewIO("open witness database", path, err)
	}

	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open witness database", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT book, chapter, verse, text FROM verses`)
	if err != nil {
		return nil, errors.NewParse("sqlite", path, fmt.Sprintf("query verses table: %v", err))
	}
	defer rows.Close()

	bible := make(Bible)
	for rows.Next() {
		var book, text string
		var chapter, verse int
		if err := rows.Scan(&book, &chapter, &verse, &text); err != nil {
			return nil, errors.NewParse("sqlite", path, fmt.Sprintf("scan verse row: %v", err))
		}
		bible[books.Ref(book, chapter, verse)] = text
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewParse("sqlite", path, fmt.Sprintf("read verse rows: %v", err))
	}
	return bible, nil
}

// osisBooks maps OSIS book codes to canonical KJV book names.
var osisBooks = map[string]string{
	"Gen": "Genesis", "Exod": "Exodus", "Lev": "Leviticus", "Num": "Numbers",
	"Deut": "Deuteronomy", "Josh": "Joshua", "Judg": "Judges", "Ruth": "Ruth",
	"1Sam": "1 Samuel", "2Sam": "2 Samuel", "1Kgs": "1 Kings", "2Kgs": "2 Kings",
	"1Chr": "1 Chronicles", "2Chr": "2 Chronicles", "Ezra": "Ezra", "Neh": "Nehemiah",
	"Esth": "Esther", "Job": "Job", "Ps": "Psalms", "Prov": "Proverbs",
	"Eccl": "Ecclesiastes", "Song": "Song of Solomon", "Isa": "Isaiah", "Jer": "Jeremiah",
	"Lam": "Lamentations", "Ezek": "Ezekiel", "Dan": "Daniel", "Hos": "Hosea",
	"Joel": "Joel", "Amos": "Amos", "Obad": "Obadiah", "Jonah": "Jonah",
	"Mic": "Micah", "Nah": "Nahum", "Hab": "Habakkuk", "Zeph": "Zephaniah",
	"Hag": "Haggai", "Zech": "Zechariah", "Mal": "Malachi",
	"Matt": "Matthew", "Mark": "Mark", "Luke": "Luke", "John": "John",
	"Acts": "Acts", "Rom": "Romans", "1Cor": "1 Corinthians", "2Cor": "2 Corinthians",
	"Gal": "Galatians", "Eph": "Ephesians", "Phil": "Philippians", "Col": "Colossians",
	"1Thess": "1 Thessalonians", "2Thess": "2 Thessalonians",
	"1Tim": "1 Timothy", "2Tim": "2 Timothy", "Titus": "Titus", "Phlm": "Philemon",
	"Heb": "Hebrews", "Jas": "James", "1Pet": "1 Peter", "2Pet": "2 Peter",
	"1John": "1 John", "2John": "2 John", "3John": "3 John", "Jude": "Jude",
	"Rev": "Revelation",
}

// parseOSISRef converts an OSIS ID like "Gen.1.1" to a verse reference.
// Verse ranges ("Ps.68.4-5") resolve to the first verse.
func parseOSISRef(osisID string) (string, bool) {
	parts := strings.Split(osisID, ".")
	if len(parts) < 3 {
		return "", false
	}
	book, ok := osisBooks[parts[0]]
	if !ok {
		book = books.Normalize(parts[0])
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	versePart := parts[2]
	if i := strings.IndexByte(versePart, '-'); i >= 0 {
		versePart = versePart[:i]
	}
	verse, err := strconv.Atoi(versePart)
	if err != nil {
		return "", false
	}
	return books.Ref(book, chapter, verse), true
}
