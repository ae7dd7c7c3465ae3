package assemble

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/restoredword/restoredkjv/core/errors"
)

// Archive packs the named files into a .tar.xz at archivePath. Entries are
// stored flat under their base names.
func Archive(archivePath string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.NewIO("create archive", archivePath, err)
	}
	defer out.Close()

	xzw, err := xz.NewWriter(out)
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "init xz writer: %v", err)
	}
	tw := tar.NewWriter(xzw)

	for _, path := range files {
		if err := addToArchive(tw, path); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return errors.NewIO("finalize archive", archivePath, err)
	}
	if err := xzw.Close(); err != nil {
		return errors.NewIO("finalize archive", archivePath, err)
	}
	return nil
}

func addToArchive(tw *tar.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.NewIO("stat archive input", path, err)
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "tar header for %s: %v", path, err)
	}
	header.Name = filepath.Base(path)

	if err := tw.WriteHeader(header); err != nil {
		return errors.NewIO("write archive entry", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIO("open archive input", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return errors.NewIO("write archive entry", path, err)
	}
	return nil
}
