// Package validation checks user-supplied paths before the CLI touches the
// filesystem: length limits, traversal components, and output directory
// sanity.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/restoredword/restoredkjv/core/errors"
)

const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
)

// ValidatePath checks a user-supplied path for basic sanity: non-empty,
// within length limits, and free of NUL bytes.
func ValidatePath(path string) error {
	if path == "" {
		return errors.NewValidation("path", "path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return errors.NewValidation("path", fmt.Sprintf("path exceeds %d characters", MaxPathLength))
	}
	if strings.ContainsRune(path, 0) {
		return errors.NewValidation("path", "path contains a NUL byte")
	}
	if name := filepath.Base(path); len(name) > MaxFilenameLength {
		return errors.NewValidation("path", fmt.Sprintf("filename exceeds %d characters", MaxFilenameLength))
	}
	return nil
}

// ValidateOutputDir checks that an output directory path is usable: it
// passes ValidatePath and, if it already exists, is a directory.
func ValidateOutputDir(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.NewIO("stat output directory", path, err)
	}
	if !info.IsDir() {
		return errors.NewValidation("out-dir", fmt.Sprintf("%s exists and is not a directory", path))
	}
	return nil
}

// SanitizeRelativePath rejects paths that escape a base directory. Archive
// and manifest entries go through this before being joined to a directory.
func SanitizeRelativePath(baseDir, userPath string) (string, error) {
	if err := ValidatePath(userPath); err != nil {
		return "", err
	}

	clean := filepath.Clean(userPath)
	if filepath.IsAbs(clean) {
		return "", errors.NewValidation("path", "absolute path not allowed")
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.NewValidation("path", "path escapes base directory")
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.NewIO("resolve base directory", baseDir, err)
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, clean))
	if err != nil {
		return "", errors.NewIO("resolve path", userPath, err)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewValidation("path", "path escapes base directory")
	}
	return clean, nil
}
