// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads the PDFs listed in a candidate-paper CSV.
//
// Rows are processed strictly in order. A row whose target file already
// exists is skipped without any network traffic; a failed download is
// logged and the batch moves on; consecutive requests are spaced by a fixed
// delay. Re-running a batch resumes where an interrupted run stopped.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litsurvey/internal/catalog"
	"github.com/pdiddy/litsurvey/internal/filename"
	"github.com/pdiddy/litsurvey/internal/httputil"
	"github.com/pdiddy/litsurvey/pkg/types"
)

// BatchResult holds the outcome of a batch download run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Invalid counts rows with no usable URL.
	Invalid int

	// Files lists the paths written by this run.
	Files []string
}

// Total returns the total number of rows processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed + r.Invalid
}

// HasFailures reports whether any download failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Download reads cfg.InputPath and downloads every row with DownloadBatch.
// A missing or unreadable input CSV is an error.
func Download(ctx context.Context, client *http.Client, cfg types.DownloadConfig, w io.Writer) (BatchResult, error) {
	tbl, err := catalog.ReadFile(cfg.InputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BatchResult{}, fmt.Errorf("input %s not found", cfg.InputPath)
		}
		return BatchResult{}, fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintf(w, "found %d papers in %s\n", len(tbl.Rows), cfg.InputPath)
	return DownloadBatch(ctx, client, tbl.Rows, cfg, httputil.NewLimiter(cfg.RateLimitDelay), w)
}

// DownloadBatch downloads each row's URL to
// cfg.OutputDir/<prefix>_<row number>_<sanitized title>.pdf, printing
// per-row status and a summary. Only a failure to create the output folder
// or a cancelled context stops the batch.
func DownloadBatch(ctx context.Context, client *http.Client, rows []catalog.Row, cfg types.DownloadConfig, limiter *rate.Limiter, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating directory %s: %w", cfg.OutputDir, err)
	}

	for i, row := range rows {
		n := i + 1
		title := row.Get(cfg.TitleColumn)
		if strings.TrimSpace(title) == "" {
			title = fmt.Sprintf("untitled_paper_%d", i)
		}

		link := strings.TrimSpace(row.Get(cfg.URLColumn))
		if link == "" {
			fmt.Fprintf(w, "warning: row %d has no URL, skipping %q\n", n, title)
			result.Invalid++
			continue
		}

		name := filename.Download(cfg.Prefix, n, title)
		path := filepath.Join(cfg.OutputDir, name)

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			result.Skipped++
			continue
		}

		pdfURL, err := PDFURL(link)
		if err != nil {
			fmt.Fprintf(w, "warning: row %d: %v, skipping\n", n, err)
			result.Invalid++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		fmt.Fprintf(w, "[%d/%d] downloading: %s\n", n, len(rows), pdfURL)
		if err := downloadFile(ctx, client, pdfURL, path, cfg.UserAgent); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "saved:   %s\n", path)
		result.Downloaded++
		result.Files = append(result.Files, path)
	}

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed, %d invalid (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Invalid, result.Total())
	return result, nil
}

// downloadFile fetches url to destPath through a temporary file in the
// same directory, so destPath only ever holds a complete response body.
func downloadFile(ctx context.Context, client *http.Client, url, destPath, userAgent string) error {
	resp, err := httputil.Get(ctx, client, url, userAgent, http.Header{"Accept": {"application/pdf"}})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
