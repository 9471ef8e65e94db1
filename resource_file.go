// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/woozymasta/rescache/zipfile"
)

// ResourceFile is a named collection of raw resources the cache reads from.
type ResourceFile interface {
	// Open prepares the file for lookups. Calling Open on an open file is a no-op.
	Open() error
	// RawSize returns the raw byte size of name, or false when the file does not contain it.
	RawSize(name ResourceName) (int, bool)
	// RawRead fills dst with the raw bytes of name and returns the number of bytes written.
	// dst must be at least RawSize(name) long.
	RawRead(name ResourceName, dst []byte) (int, error)
	// Len returns the number of resources.
	Len() int
	// NameAt returns the stored name of resource i, or "" when i is out of range.
	NameAt(i int) string
	// FileName identifies the file in logs and errors.
	FileName() string
	// IsDevelopmentDirectory reports whether resources are loose files instead of an archive.
	IsDevelopmentDirectory() bool
	// Close releases the underlying source.
	Close() error
}

// ZipFileOptions configures a ZipFile.
type ZipFileOptions struct {
	// FS is the filesystem holding the archive. Nil uses the OS filesystem.
	FS billy.Filesystem `json:"-" yaml:"-"`
	// Reader controls entry visibility and checksum verification.
	Reader zipfile.ReaderOptions `json:"reader,omitzero" yaml:"reader,omitzero"`
	// KeepDirectories exposes directory placeholder entries as resources.
	KeepDirectories bool `json:"keep_directories,omitempty" yaml:"keep_directories,omitempty"`
}

// applyDefaults fills zero-valued zip file options with defaults.
func (opts *ZipFileOptions) applyDefaults() {
	if !opts.KeepDirectories {
		opts.Reader.SkipDirectories = true
	}
}

// ZipFile serves resources from a ZIP archive.
type ZipFile struct {
	r    *zipfile.Reader
	path string
	opts ZipFileOptions
}

var _ ResourceFile = (*ZipFile)(nil)

// NewZipFile creates an unopened resource file for the archive at path.
func NewZipFile(path string, opts ZipFileOptions) *ZipFile {
	opts.applyDefaults()

	return &ZipFile{
		path: path,
		opts: opts,
	}
}

// Open parses the archive directory.
func (z *ZipFile) Open() error {
	if z.r != nil {
		return nil
	}

	r, err := zipfile.OpenFS(z.opts.FS, z.path, z.opts.Reader)
	if err != nil {
		return err
	}

	z.r = r
	return nil
}

// RawSize returns the uncompressed size of name.
func (z *ZipFile) RawSize(name ResourceName) (int, bool) {
	if z.r == nil {
		return -1, false
	}

	i, ok := z.r.Find(string(name))
	if !ok {
		return -1, false
	}

	return int(z.r.EntrySize(i)), true
}

// RawRead extracts name into dst.
func (z *ZipFile) RawRead(name ResourceName, dst []byte) (int, error) {
	if z.r == nil {
		return 0, fmt.Errorf("%w: %s", ErrNotOpen, z.path)
	}

	i, ok := z.r.Find(string(name))
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	if err := z.r.Extract(i, dst); err != nil {
		return 0, err
	}

	return int(z.r.EntrySize(i)), nil
}

// Len returns the number of visible archive entries.
func (z *ZipFile) Len() int {
	return z.r.Len()
}

// NameAt returns the stored entry name at i.
func (z *ZipFile) NameAt(i int) string {
	return z.r.EntryName(i)
}

// FileName returns the archive path.
func (z *ZipFile) FileName() string {
	return z.path
}

// IsDevelopmentDirectory reports false.
func (z *ZipFile) IsDevelopmentDirectory() bool {
	return false
}

// Reader returns the underlying archive reader, or nil before Open.
func (z *ZipFile) Reader() *zipfile.Reader {
	return z.r
}

// Close closes the archive.
func (z *ZipFile) Close() error {
	if z.r == nil {
		return nil
	}

	err := z.r.Close()
	z.r = nil
	return err
}
