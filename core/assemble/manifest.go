package assemble

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/restoredword/restoredkjv/core/errors"
	"github.com/restoredword/restoredkjv/internal/validation"
)

// FileEntry describes one build output in the manifest.
type FileEntry struct {
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
	BLAKE3 string `json:"blake3"`
}

// Manifest records what a build produced, keyed by content hash so outputs
// can be verified after the fact.
type Manifest struct {
	Title       string      `json:"title"`
	Version     string      `json:"version"`
	RunID       string      `json:"run_id"`
	GeneratedAt string      `json:"generated_at"`
	Files       []FileEntry `json:"files"`
}

// NewManifest creates an empty manifest with a fresh run ID.
func NewManifest(title, version string) *Manifest {
	return &Manifest{
		Title:       title,
		Version:     version,
		RunID:       newRunID(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// AddFile hashes a build output and records it. The stored path is the
// file's base name: manifests describe an output directory, not a tree.
func (m *Manifest) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIO("read build output", path, err)
	}
	sum := blake3.Sum256(data)
	m.Files = append(m.Files, FileEntry{
		Path:   filepath.Base(path),
		Bytes:  int64(len(data)),
		BLAKE3: hex.EncodeToString(sum[:]),
	})
	return nil
}

// Write saves the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "marshal manifest: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.NewIO("write manifest", path, err)
	}
	return nil
}

// Verify re-hashes each recorded file under dir and returns the paths whose
// content no longer matches the manifest.
func (m *Manifest) Verify(dir string) ([]string, error) {
	var mismatched []string
	for _, entry := range m.Files {
		name, err := validation.SanitizeRelativePath(dir, entry.Path)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read build output", path, err)
		}
		sum := blake3.Sum256(data)
		if hex.EncodeToString(sum[:]) != entry.BLAKE3 {
			mismatched = append(mismatched, entry.Path)
		}
	}
	return mismatched, nil
}
