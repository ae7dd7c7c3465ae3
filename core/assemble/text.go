package assemble

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/restoredword/restoredkjv/core/errors"
)

// WriteText renders the document as plain text: a title page, then each
// book with numbered chapters and verses.
func WriteText(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, doc.Title)
	if doc.Version != "" {
		fmt.Fprintln(bw, doc.Version)
	}
	fmt.Fprintln(bw)

	for _, book := range doc.Books {
		fmt.Fprintln(bw, strings.ToUpper(book.Name))
		fmt.Fprintln(bw)
		for _, chapter := range book.Chapters {
			fmt.Fprintf(bw, "%s %d\n", book.Name, chapter.Number)
			for _, verse := range chapter.Verses {
				fmt.Fprintf(bw, "%d %s\n", verse.Number, verse.Text)
			}
			fmt.Fprintln(bw)
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.NewIO("write text output", "output", err)
	}
	return nil
}
