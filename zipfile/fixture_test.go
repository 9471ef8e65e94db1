package zipfile

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

// fixtureEntry is one file written by buildZip.
type fixtureEntry struct {
	name   string
	data   []byte
	method uint16
}

// buildZip encodes entries with the stdlib writer and returns archive bytes.
func buildZip(t testing.TB, entries []fixtureEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

// buildRawZip writes one entry with an arbitrary method and payload copied verbatim.
func buildRawZip(t *testing.T, name string, method uint16, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               name,
		Method:             method,
		CRC32:              crc32.ChecksumIEEE(payload),
		CompressedSize64:   uint64(len(payload)),
		UncompressedSize64: uint64(len(payload)),
	})
	if err != nil {
		t.Fatalf("create raw %s: %v", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("write raw %s: %v", name, err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	return buf.Bytes()
}

// writeZipFile stores archive bytes in a temp dir and returns the path.
func writeZipFile(t testing.TB, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.zip")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write zip: %v", err)
	}

	return path
}

// openBytes parses archive bytes without touching disk.
func openBytes(t testing.TB, data []byte, opts ReaderOptions) *Reader {
	t.Helper()

	r, err := NewReader(bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	return r
}

// centralDirOffset returns offset of the first central directory record.
func centralDirOffset(t *testing.T, data []byte) int {
	t.Helper()

	end := len(data) - endRecordSize
	if binary.LittleEndian.Uint32(data[end:]) != sigEndRecord {
		t.Fatalf("fixture has no end record at fixed offset")
	}

	return int(binary.LittleEndian.Uint32(data[end+16:]))
}
