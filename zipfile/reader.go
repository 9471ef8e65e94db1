// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
)

// Reader provides read-only access to a parsed ZIP central directory.
type Reader struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// closer is set when Reader owns the source opened via Open or OpenFS.
	closer io.Closer
	// index maps lowercased entry names to positions in entries.
	index map[string]int
	// entries stores parsed immutable entry metadata in directory order.
	entries []Entry
	// size is total source size in bytes.
	size int64
	// verify enables CRC-32 validation on extraction.
	verify bool
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// endRecord is the parsed end-of-central-directory record.
type endRecord struct {
	offset     int64
	entries    uint16
	dirSize    uint32
	dirOffset  uint32
	commentLen uint16
}

// Open opens a ZIP file by path and parses its central directory.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens a ZIP file by path and parses its central directory using explicit options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	r, err := NewReader(f, fi.Size(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.closer = f
	return r, nil
}

// OpenFS opens a ZIP file stored on a billy filesystem.
func OpenFS(fsys billy.Filesystem, path string, opts ReaderOptions) (*Reader, error) {
	if fsys == nil {
		return OpenWithOptions(path, opts)
	}

	fi, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	r, err := NewReader(f, fi.Size(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.closer = f
	return r, nil
}

// NewReader parses a ZIP central directory from an existing ReaderAt and known size.
// The caller keeps ownership of ra.
func NewReader(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()

	r := &Reader{ra: ra, size: size, verify: opts.VerifyChecksums}
	if err := r.parse(); err != nil {
		return nil, err
	}

	entries, err := applyEntryFilters(r.entries, opts)
	if err != nil {
		return nil, err
	}

	r.entries = entries
	r.buildIndex()
	return r, nil
}

// NewReaderFromBytes parses an in-memory archive.
func NewReaderFromBytes(data []byte, opts ReaderOptions) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)), opts)
}

// Len returns the number of visible entries.
func (r *Reader) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Entries returns a copy of visible entries in directory order.
func (r *Reader) Entries() []Entry {
	if r == nil {
		return nil
	}

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Entry returns entry metadata by index.
func (r *Reader) Entry(i int) (Entry, bool) {
	if r == nil || i < 0 || i >= len(r.entries) {
		return Entry{}, false
	}

	return r.entries[i], true
}

// EntryName returns the stored name of entry i, or "" when i is out of range.
func (r *Reader) EntryName(i int) string {
	e, ok := r.Entry(i)
	if !ok {
		return ""
	}

	return e.Name
}

// EntrySize returns the uncompressed size of entry i, or -1 when i is out of range.
func (r *Reader) EntrySize(i int) int64 {
	e, ok := r.Entry(i)
	if !ok {
		return -1
	}

	return int64(e.UncompressedSize)
}

// Find resolves an entry name case-insensitively. Both "/" and "\" separators are accepted.
func (r *Reader) Find(name string) (int, bool) {
	if r == nil {
		return -1, false
	}

	i, ok := r.index[LookupKey(name)]
	if !ok {
		return -1, false
	}

	return i, true
}

// Close closes the underlying file if reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	r.index = nil
	if r.closer != nil {
		return r.closer.Close()
	}

	return nil
}

// isClosed reports close state under lock.
func (r *Reader) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// parse reads the end record and walks the central directory.
func (r *Reader) parse() error {
	end, err := readEndRecord(r.ra, r.size)
	if err != nil {
		return err
	}

	if int64(end.dirSize) > end.offset {
		return fmt.Errorf("%w: directory size %d exceeds record offset %d", ErrInvalidEndRecord, end.dirSize, end.offset)
	}
	if end.dirSize > maxDirectorySize {
		return fmt.Errorf("%w: directory size %d too large", ErrInvalidEndRecord, end.dirSize)
	}

	// Directory is located by back-seek from the end record, the declared offset is informational.
	dirStart := end.offset - int64(end.dirSize)
	blob := make([]byte, end.dirSize)
	if _, err := r.ra.ReadAt(blob, dirStart); err != nil {
		return fmt.Errorf("read central directory: %w", err)
	}

	entries, err := parseDirectory(blob, int(end.entries))
	if err != nil {
		return err
	}

	r.entries = entries
	return nil
}

// readEndRecord reads the fixed end record assuming zero-length archive comment.
func readEndRecord(ra io.ReaderAt, size int64) (endRecord, error) {
	if size < endRecordSize {
		return endRecord{}, fmt.Errorf("%w: file too short", ErrInvalidEndRecord)
	}

	var buf [endRecordSize]byte
	offset := size - endRecordSize
	if _, err := ra.ReadAt(buf[:], offset); err != nil {
		return endRecord{}, fmt.Errorf("read end record: %w", err)
	}

	if binary.LittleEndian.Uint32(buf[0:4]) != sigEndRecord {
		return endRecord{}, ErrInvalidEndRecord
	}

	return endRecord{
		offset:     offset,
		entries:    binary.LittleEndian.Uint16(buf[10:12]),
		dirSize:    binary.LittleEndian.Uint32(buf[12:16]),
		dirOffset:  binary.LittleEndian.Uint32(buf[16:20]),
		commentLen: binary.LittleEndian.Uint16(buf[20:22]),
	}, nil
}

// parseDirectory walks count central directory records in blob with bounds checks.
func parseDirectory(blob []byte, count int) ([]Entry, error) {
	entries := make([]Entry, 0, count)
	off := 0
	for i := 0; i < count; i++ {
		if len(blob)-off < dirHeaderSize {
			return nil, fmt.Errorf("%w: record %d truncated", ErrInvalidDirectoryHeader, i)
		}

		h := blob[off : off+dirHeaderSize]
		if binary.LittleEndian.Uint32(h[0:4]) != sigDirHeader {
			return nil, fmt.Errorf("%w: record %d bad signature", ErrInvalidDirectoryHeader, i)
		}

		nameLen := int(binary.LittleEndian.Uint16(h[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(h[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(h[32:34]))

		nameStart := off + dirHeaderSize
		next := nameStart + nameLen + extraLen + commentLen
		if next > len(blob) {
			return nil, fmt.Errorf("%w: record %d variable fields out of bounds", ErrInvalidDirectoryHeader, i)
		}

		entries = append(entries, Entry{
			Name:             NormalizeName(string(blob[nameStart : nameStart+nameLen])),
			Method:           Method(binary.LittleEndian.Uint16(h[10:12])),
			CRC32:            binary.LittleEndian.Uint32(h[16:20]),
			CompressedSize:   binary.LittleEndian.Uint32(h[20:24]),
			UncompressedSize: binary.LittleEndian.Uint32(h[24:28]),
			HeaderOffset:     binary.LittleEndian.Uint32(h[42:46]),
		})

		off = next
	}

	return entries, nil
}

// buildIndex rebuilds the lowercase name index; first occurrence wins on duplicates.
func (r *Reader) buildIndex() {
	r.index = make(map[string]int, len(r.entries))
	for i := range r.entries {
		key := LookupKey(r.entries[i].Name)
		if _, exists := r.index[key]; exists {
			continue
		}

		r.index[key] = i
	}
}
