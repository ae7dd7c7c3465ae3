package assemble

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func buildTestDocument() *Document {
	return &Document{
		Title:   "The Restored Names KJV",
		Version: "1.0",
		Books: []Book{
			{
				Name:   "Genesis",
				Number: 1,
				Chapters: []Chapter{
					{Number: 1, Verses: []Verse{
						{Number: 1, Text: "In the beginning YAHUAH created the heaven & the earth."},
						{Number: 2, Text: "And the earth was without form."},
					}},
				},
			},
			{
				Name:   "Exodus",
				Number: 2,
				Chapters: []Chapter{
					{Number: 1, Verses: []Verse{
						{Number: 1, Text: "Now these are the names."},
					}},
				},
			},
		},
	}
}

func readZipEntry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestWriteEPUB(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEPUB(&buf, buildTestDocument(), "urn:test:restored-kjv"); err != nil {
		t.Fatalf("WriteEPUB: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}

	// mimetype must be the first entry and stored uncompressed.
	if len(zr.File) == 0 || zr.File[0].Name != "mimetype" {
		t.Fatal("mimetype is not the first entry")
	}
	if zr.File[0].Method != zip.Store {
		t.Error("mimetype entry is compressed")
	}
	if got := readZipEntry(t, zr, "mimetype"); got != "application/epub+zip" {
		t.Errorf("mimetype = %q", got)
	}

	container := readZipEntry(t, zr, "META-INF/container.xml")
	if !strings.Contains(container, "OEBPS/content.opf") {
		t.Error("container.xml does not point at content.opf")
	}

	opf := readZipEntry(t, zr, "OEBPS/content.opf")
	if !strings.Contains(opf, "<dc:identifier id=\"BookId\">urn:test:restored-kjv</dc:identifier>") {
		t.Error("identifier missing from OPF")
	}
	if !strings.Contains(opf, `<itemref idref="book1"/>`) || !strings.Contains(opf, `<itemref idref="book2"/>`) {
		t.Error("spine missing book entries")
	}

	toc := readZipEntry(t, zr, "OEBPS/toc.xhtml")
	if !strings.Contains(toc, "Genesis") || !strings.Contains(toc, "Exodus") {
		t.Error("toc missing book names")
	}

	genesis := readZipEntry(t, zr, "OEBPS/text/book1.xhtml")
	if !strings.Contains(genesis, "In the beginning YAHUAH created the heaven &amp; the earth.") {
		t.Error("verse text missing or unescaped")
	}
	if !strings.Contains(genesis, `<span class="verse-num">1</span>`) {
		t.Error("verse number markup missing")
	}
}

func TestWriteEPUBGeneratesIdentifier(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEPUB(&buf, buildTestDocument(), ""); err != nil {
		t.Fatalf("WriteEPUB: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	opf := readZipEntry(t, zr, "OEBPS/content.opf")
	if !strings.Contains(opf, "urn:uuid:") {
		t.Error("no generated identifier in OPF")
	}
}

func TestWriteEPUBEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEPUB(&buf, &Document{Title: "Empty"}, ""); err == nil {
		t.Fatal("expected error for document with no books")
	}
}
