// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import "io"

// ListEntries opens a ZIP file and returns visible entry metadata without payload reads.
func ListEntries(path string, opts ReaderOptions) ([]Entry, error) {
	r, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.entries, nil
}

// ListEntriesFromReaderAt parses entry metadata from a random-access source.
func ListEntriesFromReaderAt(ra io.ReaderAt, size int64, opts ReaderOptions) ([]Entry, error) {
	r, err := NewReader(ra, size, opts)
	if err != nil {
		return nil, err
	}

	return r.entries, nil
}
