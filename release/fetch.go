package release

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/aexvir/hugodist"
)

// ErrChecksumMismatch is returned when a downloaded file doesn't match the expected digest.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Fetch downloads url into destination, verifying its sha256 digest when
// one is supplied. A destination that already exists with the expected
// digest is reused, which makes the destination directory a download cache.
// Files failing verification are removed.
func Fetch(ctx context.Context, url, destination, digest string) (err error) {
	hugodist.LogDetail(fmt.Sprintf("fetching %s", url))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	if _, err := os.Stat(destination); err == nil {
		if verr := verify(destination, digest); verr == nil {
			hugodist.LogDetail(fmt.Sprintf("using cached %s", destination))
			return nil
		}
		hugodist.LogDetail(fmt.Sprintf("cached %s is stale, downloading again", destination))
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("failed to create destination folder %s: %w", filepath.Dir(destination), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received unexpected response when downloading %s: http%d", url, resp.StatusCode)
	}

	data, finish := progress(resp.Body, resp.ContentLength)
	defer finish()

	// write to a sibling file first so an interrupted download never looks cached
	partial := destination + ".part"
	out, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", partial, err)
	}

	if _, err := io.Copy(out, data); err != nil {
		out.Close()
		os.Remove(partial)
		return fmt.Errorf("failed to copy data to file %s: %w", partial, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to write file %s: %w", partial, err)
	}

	if err := verify(partial, digest); err != nil {
		os.Remove(partial)
		return err
	}

	return os.Rename(partial, destination)
}

// verify compares the sha256 digest of a file with the expected one.
// An empty expectation accepts any file.
func verify(path, expected string) error {
	if expected == "" {
		return nil
	}

	actual, err := Digest(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: %s has sha256 %s, expected %s", ErrChecksumMismatch, filepath.Base(path), actual, expected)
	}

	return nil
}

// Digest computes the hex encoded sha256 of a file.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// progress wraps an io.Reader to display a progress bar when running in a terminal.
// Returns the wrapped reader and a function to finalize the progress display.
func progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}
