// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   Entry
}

// ExtractToDir writes visible (or selected) entries to dstDir. Extraction is parallelized
// by MaxWorkers; on failure it returns the first encountered error.
func (r *Reader) ExtractToDir(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}
	if r.isClosed() {
		return ErrClosed
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries, err := r.selectEntries(opts.Entries)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(entries)
	if err != nil {
		return err
	}

	if err := prepareExtractDirs(dstRootAbs, workItems); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, task := range workItems {
		if task.entry.IsDir() {
			continue
		}

		g.Go(func() error {
			return r.extractPreparedEntry(gctx, dstRootAbs, task, opts)
		})
	}

	return g.Wait()
}

// selectEntries resolves names to entries; nil names selects every visible entry.
func (r *Reader) selectEntries(names []string) ([]Entry, error) {
	if names == nil {
		return r.Entries(), nil
	}

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		i, ok := r.Find(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
		}

		out = append(out, r.entries[i])
	}

	return out, nil
}

// prepareExtractWorkItems validates selected entries and prepares relative fs paths.
func prepareExtractWorkItems(entries []Entry) ([]extractWorkItem, error) {
	workItems := make([]extractWorkItem, 0, len(entries))
	for _, entry := range entries {
		normalizedPath, err := normalizeExtractEntryPath(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("normalize entry path %s: %w", entry.Name, err)
		}

		relPath := filepath.FromSlash(normalizedPath)
		relDir := filepath.Dir(relPath)
		if entry.IsDir() {
			relDir = relPath
		}
		if relDir == "." {
			relDir = ""
		}

		workItems = append(workItems, extractWorkItem{
			entry:   entry,
			relPath: relPath,
			relDir:  relDir,
		})
	}

	return workItems, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dstRootAbs string, workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath := filepath.Join(dstRootAbs, task.relDir)
		if _, exists := seen[dirPath]; exists {
			continue
		}

		seen[dirPath] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractPreparedEntry writes one prepared work item to destination root.
func (r *Reader) extractPreparedEntry(ctx context.Context, dstRootAbs string, task extractWorkItem, opts ExtractOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	outPath := filepath.Join(dstRootAbs, task.relPath)
	rc, err := r.openEntryByInfo(&task.entry)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(outPath, flags, defaultExtractPerms)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.entry.Name, err)
	}

	buf := make([]byte, extractCopyBufSize)
	written, copyErr := io.CopyBuffer(file, rc, buf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.entry.Name, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.entry.Name, closeErr)
	}

	if written != int64(task.entry.UncompressedSize) {
		return fmt.Errorf("%w: %s wrote %d bytes, want %d", ErrDecompress, task.entry.Name, written, task.entry.UncompressedSize)
	}

	if opts.OnEntryDone != nil {
		opts.OnEntryDone(task.entry, outPath)
	}

	return nil
}
