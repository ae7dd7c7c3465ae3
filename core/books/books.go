// Package books provides the canonical KJV book table: ordering, name
// normalization, and Old/New Testament classification.
package books

import (
	"fmt"
	"sort"
	"strings"
)

// otCount is the number of Old Testament books at the head of the canon.
const otCount = 39

// unknownOrder sorts unrecognized books after every canonical book.
const unknownOrder = 999

// Canonical lists the 66 KJV books in canonical order.
var Canonical = []string{
	// Old Testament
	"Genesis", "Exodus", "Leviticus", "Numbers", "Deuteronomy",
	"Joshua", "Judges", "Ruth", "1 Samuel", "2 Samuel",
	"1 Kings", "2 Kings", "1 Chronicles", "2 Chronicles", "Ezra",
	"Nehemiah", "Esther", "Job", "Psalms", "Proverbs",
	"Ecclesiastes", "Song of Solomon", "Isaiah", "Jeremiah", "Lamentations",
	"Ezekiel", "Daniel", "Hosea", "Joel", "Amos",
	"Obadiah", "Jonah", "Micah", "Nahum", "Habakkuk",
	"Zephaniah", "Haggai", "Zechariah", "Malachi",
	// New Testament
	"Matthew", "Mark", "Luke", "John", "Acts",
	"Romans", "1 Corinthians", "2 Corinthians", "Galatians", "Ephesians",
	"Philippians", "Colossians", "1 Thessalonians", "2 Thessalonians", "1 Timothy",
	"2 Timothy", "Titus", "Philemon", "Hebrews", "James",
	"1 Peter", "2 Peter", "1 John", "2 John", "3 John",
	"Jude", "Revelation",
}

// aliases maps common book-name variations to canonical names.
var aliases = map[string]string{
	"1st Samuel":        "1 Samuel",
	"2nd Samuel":        "2 Samuel",
	"1st Kings":         "1 Kings",
	"2nd Kings":         "2 Kings",
	"1st Chronicles":    "1 Chronicles",
	"2nd Chronicles":    "2 Chronicles",
	"1st Corinthians":   "1 Corinthians",
	"2nd Corinthians":   "2 Corinthians",
	"1st Thessalonians": "1 Thessalonians",
	"2nd Thessalonians": "2 Thessalonians",
	"1st Timothy":       "1 Timothy",
	"2nd Timothy":       "2 Timothy",
	"1st Peter":         "1 Peter",
	"2nd Peter":         "2 Peter",
	"1st John":          "1 John",
	"2nd John":          "2 John",
	"3rd John":          "3 John",
	"Song of Songs":     "Song of Solomon",
	"Psalm":             "Psalms",
	"Ps":                "Psalms",
}

// orderIndex maps canonical names to their 0-based canonical position.
var orderIndex = func() map[string]int {
	m := make(map[string]int, len(Canonical))
	for i, name := range Canonical {
		m[name] = i
	}
	return m
}()

// lowerIndex maps lowercased canonical names back to canonical spelling.
var lowerIndex = func() map[string]string {
	m := make(map[string]string, len(Canonical))
	for _, name := range Canonical {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// Normalize converts a book name to its canonical form. Names that match no
// canonical book or alias are returned unchanged.
func Normalize(book string) string {
	book = strings.TrimSpace(book)
	if canonical, ok := aliases[book]; ok {
		return canonical
	}
	if _, ok := orderIndex[book]; ok {
		return book
	}
	if canonical, ok := lowerIndex[strings.ToLower(book)]; ok {
		return canonical
	}
	return book
}

// Order returns the 0-based canonical position of a book, or unknownOrder
// (999) for books outside the canon so they sort last.
func Order(book string) int {
	if i, ok := orderIndex[Normalize(book)]; ok {
		return i
	}
	return unknownOrder
}

// IsOldTestament reports whether the book is one of the 39 Old Testament
// books. Unknown books report false.
func IsOldTestament(book string) bool {
	if i, ok := orderIndex[Normalize(book)]; ok {
		return i < otCount
	}
	return false
}

// Ref formats a verse reference as "Book Chapter:Verse", normalizing the
// book name first. This is the key form used by the override store.
func Ref(book string, chapter, verse int) string {
	return fmt.Sprintf("%s %d:%d", Normalize(book), chapter, verse)
}

// VerseLocator identifies a verse for sorting.
type VerseLocator interface {
	Location() (book string, chapter, verse int)
}

// SortVerses sorts verses in place by canonical book order, then chapter,
// then verse number.
func SortVerses[T VerseLocator](verses []T) {
	sort.SliceStable(verses, func(i, j int) bool {
		bi, ci, vi := verses[i].Location()
		bj, cj, vj := verses[j].Location()
		oi, oj := Order(bi), Order(bj)
		if oi != oj {
			return oi < oj
		}
		if ci != cj {
			return ci < cj
		}
		return vi < vj
	})
}
