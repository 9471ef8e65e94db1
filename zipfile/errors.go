// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrInvalidEndRecord means the end-of-central-directory record is missing or malformed.
	ErrInvalidEndRecord = errors.New("invalid ZIP file: missing or bad end of central directory")
	// ErrInvalidDirectoryHeader means a central directory record has a bad signature or length.
	ErrInvalidDirectoryHeader = errors.New("invalid central directory header")
	// ErrInvalidLocalHeader means the local file header of an entry is malformed.
	ErrInvalidLocalHeader = errors.New("invalid local file header")
	// ErrUnsupportedMethod means the entry uses a compression method other than store or deflate.
	ErrUnsupportedMethod = errors.New("unsupported compression method")
	// ErrDecompress means the compressed stream is corrupt, truncated, or of unexpected length.
	ErrDecompress = errors.New("decompress entry")
	// ErrShortBuffer means the destination buffer is smaller than the entry size.
	ErrShortBuffer = errors.New("destination buffer too small for entry")
	// ErrChecksumMismatch means the extracted payload does not match the stored CRC-32.
	ErrChecksumMismatch = errors.New("entry checksum mismatch")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrClosed means the reader is already closed.
	ErrClosed = errors.New("reader already closed")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrInvalidRules means one or more entry visibility rules are invalid.
	ErrInvalidRules = errors.New("invalid entry rules")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
)
