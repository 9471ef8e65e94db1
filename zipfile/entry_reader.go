// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// nopCloser wraps a reader and provides a no-op close.
type nopCloser struct {
	io.Reader
}

// Close closes nopCloser (no-op).
func (nopCloser) Close() error {
	return nil
}

// Extract writes the full uncompressed payload of entry i into dst.
// dst must be at least EntrySize(i) bytes long; only that prefix is written.
func (r *Reader) Extract(i int, dst []byte) error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}
	if r.isClosed() {
		return ErrClosed
	}

	entry, ok := r.Entry(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrEntryNotFound, i)
	}

	if uint64(len(dst)) < uint64(entry.UncompressedSize) {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortBuffer, entry.Name, entry.UncompressedSize, len(dst))
	}

	out := dst[:entry.UncompressedSize]
	if err := r.extractEntry(&entry, out); err != nil {
		return err
	}

	if r.verify && crc32.ChecksumIEEE(out) != entry.CRC32 {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, entry.Name)
	}

	return nil
}

// ReadEntry reads full (decompressed) content of the named entry.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	i, ok := r.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	buf := make([]byte, r.EntrySize(i))
	if err := r.Extract(i, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// OpenEntry opens named entry for streaming reads.
// Returned stream yields decompressed content for deflate entries.
func (r *Reader) OpenEntry(name string) (io.ReadCloser, error) {
	if r == nil || r.ra == nil {
		return nil, ErrNilReader
	}
	if r.isClosed() {
		return nil, ErrClosed
	}

	i, ok := r.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	entry := r.entries[i]
	return r.openEntryByInfo(&entry)
}

// openEntryByInfo opens payload stream for already resolved entry metadata.
func (r *Reader) openEntryByInfo(entry *Entry) (io.ReadCloser, error) {
	sr, err := r.payloadSection(entry)
	if err != nil {
		return nil, err
	}

	switch entry.Method {
	case MethodStore:
		return nopCloser{Reader: sr}, nil
	case MethodDeflate:
		return flate.NewReader(sr), nil
	default:
		return nil, fmt.Errorf("%w: %s uses method %d", ErrUnsupportedMethod, entry.Name, entry.Method)
	}
}

// extractEntry decodes one entry payload into out, which has exactly the uncompressed size.
func (r *Reader) extractEntry(entry *Entry, out []byte) error {
	sr, err := r.payloadSection(entry)
	if err != nil {
		return err
	}

	switch entry.Method {
	case MethodStore:
		if entry.CompressedSize != entry.UncompressedSize {
			return fmt.Errorf("%w: stored entry %s sizes differ", ErrDecompress, entry.Name)
		}
		if _, err := io.ReadFull(sr, out); err != nil {
			return fmt.Errorf("read stored entry %s: %w", entry.Name, err)
		}

		return nil
	case MethodDeflate:
		return inflateInto(entry.Name, sr, out)
	default:
		return fmt.Errorf("%w: %s uses method %d", ErrUnsupportedMethod, entry.Name, entry.Method)
	}
}

// payloadSection validates the local header and returns a section over the stored payload.
func (r *Reader) payloadSection(entry *Entry) (*io.SectionReader, error) {
	var h [localHeaderSize]byte
	offset := int64(entry.HeaderOffset)
	if offset+localHeaderSize > r.size {
		return nil, fmt.Errorf("%w: %s header out of file bounds", ErrInvalidLocalHeader, entry.Name)
	}

	if _, err := r.ra.ReadAt(h[:], offset); err != nil {
		return nil, fmt.Errorf("read local header %s: %w", entry.Name, err)
	}

	if binary.LittleEndian.Uint32(h[0:4]) != sigLocalHeader {
		return nil, fmt.Errorf("%w: %s bad signature", ErrInvalidLocalHeader, entry.Name)
	}

	nameLen := int64(binary.LittleEndian.Uint16(h[26:28]))
	extraLen := int64(binary.LittleEndian.Uint16(h[28:30]))
	start := offset + localHeaderSize + nameLen + extraLen
	end := start + int64(entry.CompressedSize)
	if end > r.size {
		return nil, fmt.Errorf("%w: %s payload out of file bounds", ErrInvalidLocalHeader, entry.Name)
	}

	return io.NewSectionReader(r.ra, start, int64(entry.CompressedSize)), nil
}

// inflateInto decodes a raw deflate stream and requires exactly len(out) bytes of output.
func inflateInto(name string, src io.Reader, out []byte) error {
	fr := flate.NewReader(src)
	defer func() { _ = fr.Close() }()

	if _, err := io.ReadFull(fr, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecompress, name, err)
	}

	// Stream must end exactly at the declared size.
	var probe [1]byte
	n, err := fr.Read(probe[:])
	if n > 0 {
		return fmt.Errorf("%w: %s: output longer than declared size", ErrDecompress, name)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrDecompress, name, err)
	}

	return nil
}
