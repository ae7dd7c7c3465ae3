package assemble

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/restoredword/restoredkjv/core/errors"
)

const epubCSS = `body { font-family: serif; line-height: 1.5; }
h1 { text-align: center; }
h2 { margin-top: 1.5em; }
.verse-num { font-size: 0.7em; vertical-align: super; color: #666; }
`

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// WriteEPUB renders the document as an EPUB 3 file: one chapter file per
// book, verse numbers in superscript.
func WriteEPUB(w io.Writer, doc *Document, identifier string) error {
	if len(doc.Books) == 0 {
		return errors.NewValidation("document", "no books to write")
	}
	if identifier == "" {
		identifier = "urn:uuid:" + newRunID()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must come first and be stored uncompressed.
	mimetype, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return wrapEPUB(err)
	}
	if _, err := mimetype.Write([]byte("application/epub+zip")); err != nil {
		return wrapEPUB(err)
	}

	if err := writeZipFile(zw, "META-INF/container.xml", containerXML); err != nil {
		return wrapEPUB(err)
	}
	if err := writeZipFile(zw, "OEBPS/content.opf", contentOPF(doc, identifier)); err != nil {
		return wrapEPUB(err)
	}
	if err := writeZipFile(zw, "OEBPS/toc.xhtml", tocXHTML(doc)); err != nil {
		return wrapEPUB(err)
	}
	if err := writeZipFile(zw, "OEBPS/style.css", epubCSS); err != nil {
		return wrapEPUB(err)
	}
	for i, book := range doc.Books {
		name := fmt.Sprintf("OEBPS/text/book%d.xhtml", i+1)
		if err := writeZipFile(zw, name, bookXHTML(book)); err != nil {
			return wrapEPUB(err)
		}
	}

	if err := zw.Close(); err != nil {
		return wrapEPUB(err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.NewIO("write epub", "output", err)
	}
	return nil
}

func wrapEPUB(err error) error {
	return errors.Wrapf(errors.ErrInternal, "build epub: %v", err)
}

func writeZipFile(zw *zip.Writer, name, content string) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(f, content)
	return err
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func contentOPF(doc *Document, identifier string) string {
	var manifest, spine strings.Builder
	manifest.WriteString(`    <item id="toc" href="toc.xhtml" media-type="application/xhtml+xml" properties="nav"/>` + "\n")
	manifest.WriteString(`    <item id="style" href="style.css" media-type="text/css"/>` + "\n")
	for i := range doc.Books {
		id := fmt.Sprintf("book%d", i+1)
		fmt.Fprintf(&manifest, `    <item id="%s" href="text/%s.xhtml" media-type="application/xhtml+xml"/>`+"\n", id, id)
		fmt.Fprintf(&spine, `    <itemref idref="%s"/>`+"\n", id)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="BookId">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="BookId">%s</dc:identifier>
    <dc:title>%s</dc:title>
    <dc:language>en</dc:language>
    <meta property="dcterms:modified">%s</meta>
  </metadata>
  <manifest>
%s  </manifest>
  <spine>
%s  </spine>
</package>`,
		xmlEscaper.Replace(identifier),
		xmlEscaper.Replace(doc.Title),
		time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		manifest.String(),
		spine.String(),
	)
}

func tocXHTML(doc *Document) string {
	var items strings.Builder
	for i, book := range doc.Books {
		fmt.Fprintf(&items, `      <li><a href="text/book%d.xhtml">%s</a></li>`+"\n", i+1, xmlEscaper.Replace(book.Name))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>%s</title></head>
<body>
  <nav epub:type="toc">
    <h1>%s</h1>
    <ol>
%s    </ol>
  </nav>
</body>
</html>`, xmlEscaper.Replace(doc.Title), xmlEscaper.Replace(doc.Title), items.String())
}

func bookXHTML(book Book) string {
	var body strings.Builder
	fmt.Fprintf(&body, "  <h1>%s</h1>\n", xmlEscaper.Replace(book.Name))
	for _, chapter := range book.Chapters {
		fmt.Fprintf(&body, "  <h2>%s %d</h2>\n  <p>\n", xmlEscaper.Replace(book.Name), chapter.Number)
		for _, verse := range chapter.Verses {
			fmt.Fprintf(&body, `    <span class="verse-num">%d</span> %s`+"\n", verse.Number, xmlEscaper.Replace(verse.Text))
		}
		body.WriteString("  </p>\n")
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="../style.css"/>
</head>
<body>
%s</body>
</html>`, xmlEscaper.Replace(book.Name), body.String())
}
