package release

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/klauspost/compress/gzip"

	"github.com/aexvir/hugodist"
)

// Extract unpacks a tar.gz or zip archive into destination.
// The format is sniffed from the content, not the file name.
// Entries that would land outside of destination are rejected.
func Extract(archive, destination string) (err error) {
	hugodist.LogDetail(fmt.Sprintf("extracting %s", archive))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	header := make([]byte, 512)
	n, err := file.Read(header)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read archive header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destination, err)
	}

	switch mime := http.DetectContentType(header[:n]); mime {
	case "application/x-gzip":
		return untar(file, destination)
	case "application/zip":
		info, err := file.Stat()
		if err != nil {
			return err
		}
		return unzip(file, info.Size(), destination)
	default:
		return fmt.Errorf("unsupported format: %s", mime)
	}
}

// target joins name to destination, failing for names escaping it.
func target(destination, name string) (string, error) {
	path := filepath.Join(destination, filepath.FromSlash(name))
	rel, err := filepath.Rel(destination, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("illegal path in archive: %s", name)
	}
	return path, nil
}

// handles .tar.gz files
func untar(file io.Reader, destination string) error {
	decompressor, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer decompressor.Close()

	reader := tar.NewReader(decompressor)

	for {
		header, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		path, err := target(destination, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", path, err)
			}

		case tar.TypeReg:
			if err := write(path, reader, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			link := header.Linkname
			if !filepath.IsAbs(link) {
				link = filepath.Join(filepath.Dir(path), link)
			}
			if _, err := target(destination, mustRel(destination, link)); err != nil {
				return fmt.Errorf("illegal link in archive: %s -> %s", header.Name, header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
			}
			_ = os.Remove(path)
			if err := os.Symlink(header.Linkname, path); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", path, err)
			}
		}
	}

	return nil
}

// handles .zip files
func unzip(file io.ReaderAt, size int64, destination string) error {
	reader, err := zip.NewReader(file, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, entry := range reader.File {
		path, err := target(destination, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", path, err)
			}
			continue
		}

		contents, err := entry.Open()
		if err != nil {
			return fmt.Errorf("failed to open file %s: %w", entry.Name, err)
		}

		err = write(path, contents, entry.Mode().Perm())
		contents.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func write(path string, contents io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if _, err := io.Copy(out, contents); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy data to file %s: %w", path, err)
	}

	return out.Close()
}

func mustRel(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
