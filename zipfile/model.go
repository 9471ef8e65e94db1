// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import "github.com/woozymasta/pathrules"

// Internal binary layout of the supported ZIP subset.
const (
	endRecordSize       = 22 // fixed end-of-central-directory record, empty comment
	dirHeaderSize       = 46 // central directory file header without variable fields
	localHeaderSize     = 30 // local file header without variable fields
	sigEndRecord        = 0x06054b50
	sigDirHeader        = 0x02014b50
	sigLocalHeader      = 0x04034b50
	maxDirectorySize    = 1 << 30 // refuse absurd directory blobs before allocating
	extractCopyBufSize  = 64 * 1024
	defaultExtractPerms = 0o640
)

// Method is a ZIP compression method identifier.
type Method uint16

// Supported compression methods.
const (
	// MethodStore marks entries stored without compression.
	MethodStore Method = 0
	// MethodDeflate marks entries compressed as raw deflate streams.
	MethodDeflate Method = 8
)

// String returns a short method name for logs and listings.
func (m Method) String() string {
	switch m {
	case MethodStore:
		return "store"
	case MethodDeflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// Supported reports whether entries with this method can be extracted.
func (m Method) Supported() bool {
	return m == MethodStore || m == MethodDeflate
}

// Entry describes a single parsed central directory record.
type Entry struct {
	// Name is the stored entry name with "\" separators rewritten to "/".
	Name string `json:"name" yaml:"name"`
	// HeaderOffset is the absolute offset of the entry local header.
	HeaderOffset uint32 `json:"header_offset" yaml:"header_offset"`
	// CompressedSize is the stored payload size in bytes.
	CompressedSize uint32 `json:"compressed_size" yaml:"compressed_size"`
	// UncompressedSize is the extracted payload size in bytes.
	UncompressedSize uint32 `json:"uncompressed_size" yaml:"uncompressed_size"`
	// CRC32 is the IEEE checksum of the uncompressed payload.
	CRC32 uint32 `json:"crc32" yaml:"crc32"`
	// Method is the entry compression method.
	Method Method `json:"method" yaml:"method"`
}

// IsDir reports whether the entry is a directory placeholder.
func (e *Entry) IsDir() bool {
	return len(e.Name) > 0 && e.Name[len(e.Name)-1] == '/'
}

// ReaderOptions configures which parsed entries are visible through a Reader.
type ReaderOptions struct {
	// EntryPathPrefix keeps only entries under this directory (or the exact file).
	EntryPathPrefix string `json:"entry_path_prefix,omitempty" yaml:"entry_path_prefix,omitempty"`
	// Rules are ordered gitignore-style include/exclude rules for entry visibility.
	// Empty rule set keeps every entry.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching. Zero value means case-insensitive, include by default.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// SkipDirectories drops directory placeholder entries.
	SkipDirectories bool `json:"skip_directories,omitempty" yaml:"skip_directories,omitempty"`
	// VerifyChecksums validates CRC-32 of every extracted payload.
	VerifyChecksums bool `json:"verify_checksums,omitempty" yaml:"verify_checksums,omitempty"`
}

// ExtractOptions configures ExtractToDir behavior.
type ExtractOptions struct {
	// OnEntryDone is called from worker goroutines after one entry is fully written to disk.
	OnEntryDone func(entry Entry, outputPath string) `json:"-" yaml:"-"`
	// Entries limits extraction to the given names; nil means all visible entries.
	Entries []string `json:"entries,omitempty" yaml:"entries,omitempty"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// Overwrite truncates existing files instead of failing.
	Overwrite bool `json:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}
