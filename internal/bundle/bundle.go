// Package bundle packages one extraction run into a single ZIP:
// every single-page artifact under the vendor output folder plus the
// master-log workbook when present.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Write creates zipPath from the contents of artifactsDir. reportPath
// is added under its base name when it exists; pass "" to skip it.
// Paths inside the archive are slash-separated and relative to
// artifactsDir.
func Write(zipPath, artifactsDir, reportPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	zw := zip.NewWriter(out)

	// The report gets one explicit slot under its base name; when it
	// lives inside artifactsDir the walk must not add it a second time.
	// The half-written zip itself is skipped for the same reason.
	skip := map[string]bool{}
	for _, p := range []string{reportPath, zipPath} {
		if p == "" {
			continue
		}
		if abs, aerr := filepath.Abs(p); aerr == nil {
			skip[abs] = true
		}
	}

	walkErr := filepath.WalkDir(artifactsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, aerr := filepath.Abs(path); aerr == nil && skip[abs] {
			return nil
		}
		rel, rerr := filepath.Rel(artifactsDir, path)
		if rerr != nil {
			return rerr
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if walkErr == nil && reportPath != "" {
		if _, serr := os.Stat(reportPath); serr == nil {
			walkErr = addFile(zw, reportPath, filepath.Base(reportPath))
		}
	}

	if cerr := zw.Close(); walkErr == nil {
		walkErr = cerr
	}
	if cerr := out.Close(); walkErr == nil {
		walkErr = cerr
	}
	if walkErr != nil {
		os.Remove(zipPath)
		return fmt.Errorf("write bundle: %w", walkErr)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty archive name for %s", path)
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
