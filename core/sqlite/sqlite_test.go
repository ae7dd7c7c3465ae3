package sqlite

import (
	"path/filepath"
	"testing"
)

func TestDriverInfo(t *testing.T) {
	info := GetInfo()

	if info.DriverName == "" {
		t.Error("DriverName should not be empty")
	}
	if info.DriverType == "" {
		t.Error("DriverType should not be empty")
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}

	if info.DriverName != DriverName() {
		t.Errorf("DriverName mismatch: info=%s, func=%s", info.DriverName, DriverName())
	}
	if info.DriverType != DriverType() {
		t.Errorf("DriverType mismatch: info=%s, func=%s", info.DriverType, DriverType())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("IsCGO mismatch: info=%v, func=%v", info.IsCGO, IsCGO())
	}
}

func TestOpenRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "witness.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE verses (book TEXT, chapter INTEGER, verse INTEGER, text TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	_, err = db.Exec(`INSERT INTO verses (book, chapter, verse, text) VALUES (?, ?, ?, ?)`,
		"Genesis", 1, 1, "In the beginning ELOHIYM created the heaven and the earth.")
	if err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	var text string
	err = db.QueryRow(`SELECT text FROM verses WHERE book = ? AND chapter = ? AND verse = ?`,
		"Genesis", 1, 1).Scan(&text)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if text != "In the beginning ELOHIYM created the heaven and the earth." {
		t.Errorf("unexpected verse text: %q", text)
	}
}

func TestOpenReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "witness.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE verses (book TEXT, chapter INTEGER, verse INTEGER, text TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO verses (book, chapter, verse, text) VALUES ('Psalms', 68, 4, 'Extol him by his name YAH.')`); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}
	db.Close()

	rodb, err := OpenReadOnly(dbPath)
	if err != nil {
		t.Fatalf("failed to open read-only: %v", err)
	}
	defer rodb.Close()

	var text string
	if err := rodb.QueryRow(`SELECT text FROM verses WHERE book = 'Psalms'`).Scan(&text); err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if text != "Extol him by his name YAH." {
		t.Errorf("unexpected verse text: %q", text)
	}
}

func TestMustOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "witness.db")
	db := MustOpen(dbPath)
	db.Close()
}

func TestDriverTypeConsistency(t *testing.T) {
	switch DriverType() {
	case "purego":
		if IsCGO() {
			t.Error("IsCGO() should be false for purego driver")
		}
		if DriverName() != "sqlite" {
			t.Errorf("purego driver should use 'sqlite' name, got '%s'", DriverName())
		}
	case "cgo":
		if !IsCGO() {
			t.Error("IsCGO() should be true for cgo driver")
		}
		if DriverName() != "sqlite3" {
			t.Errorf("cgo driver should use 'sqlite3' name, got '%s'", DriverName())
		}
	default:
		t.Errorf("unknown driver type: %s", DriverType())
	}
}
