package zipfile

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func extractFixture(t *testing.T) *Reader {
	t.Helper()

	data := buildZip(t, []fixtureEntry{
		{name: "maps/", method: zip.Store},
		{name: "maps/level1.dat", data: []byte("level one"), method: zip.Deflate},
		{name: `maps\Level2.dat`, data: []byte("level two"), method: zip.Store},
		{name: "entities.xml", data: []byte("<entities/>"), method: zip.Deflate},
	})

	return openBytes(t, data, ReaderOptions{})
}

func TestExtractToDir(t *testing.T) {
	t.Parallel()

	r := extractFixture(t)
	dst := t.TempDir()

	var (
		mu   sync.Mutex
		done = map[string]string{}
	)
	err := r.ExtractToDir(context.Background(), dst, ExtractOptions{
		MaxWorkers: 2,
		OnEntryDone: func(entry Entry, outputPath string) {
			mu.Lock()
			defer mu.Unlock()
			done[entry.Name] = outputPath
		},
	})
	if err != nil {
		t.Fatalf("ExtractToDir: %v", err)
	}

	if len(done) != 3 {
		t.Fatalf("callback count=%d, want 3 (%v)", len(done), done)
	}

	want := map[string]string{
		"maps/level1.dat": "level one",
		"maps/Level2.dat": "level two",
		"entities.xml":    "<entities/>",
	}
	for name, body := range want {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(got) != body {
			t.Fatalf("%s=%q, want %q", name, got, body)
		}
	}
}

func TestExtractToDir_SelectedEntries(t *testing.T) {
	t.Parallel()

	r := extractFixture(t)
	dst := t.TempDir()

	if err := r.ExtractToDir(context.Background(), dst, ExtractOptions{Entries: []string{"ENTITIES.XML"}}); err != nil {
		t.Fatalf("ExtractToDir: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, "entities.xml")); err != nil {
		t.Fatalf("selected entry missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "maps", "level1.dat")); !os.IsNotExist(err) {
		t.Fatalf("unselected entry extracted, stat err=%v", err)
	}

	err := r.ExtractToDir(context.Background(), dst, ExtractOptions{Entries: []string{"missing.bin"}})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestExtractToDir_Overwrite(t *testing.T) {
	t.Parallel()

	r := extractFixture(t)
	dst := t.TempDir()
	opts := ExtractOptions{Entries: []string{"entities.xml"}}

	if err := r.ExtractToDir(context.Background(), dst, opts); err != nil {
		t.Fatalf("first extract: %v", err)
	}

	if err := r.ExtractToDir(context.Background(), dst, opts); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected os.ErrExist without overwrite, got %v", err)
	}

	opts.Overwrite = true
	if err := r.ExtractToDir(context.Background(), dst, opts); err != nil {
		t.Fatalf("overwrite extract: %v", err)
	}
}

func TestExtractToDir_RejectsTraversal(t *testing.T) {
	t.Parallel()

	data := buildZip(t, []fixtureEntry{
		{name: "../escape.txt", data: []byte("x"), method: zip.Store},
	})
	r := openBytes(t, data, ReaderOptions{})
	dst := t.TempDir()

	err := r.ExtractToDir(context.Background(), dst, ExtractOptions{})
	if !errors.Is(err, ErrExtractPathOutsideRoot) {
		t.Fatalf("expected ErrExtractPathOutsideRoot, got %v", err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(dst), "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("file escaped destination root, stat err=%v", err)
	}
}

func TestExtractToDir_Canceled(t *testing.T) {
	t.Parallel()

	r := extractFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.ExtractToDir(ctx, t.TempDir(), ExtractOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractToDir_Closed(t *testing.T) {
	t.Parallel()

	r := extractFixture(t)
	_ = r.Close()

	if err := r.ExtractToDir(context.Background(), t.TempDir(), ExtractOptions{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNormalizeExtractEntryPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "maps/level1.dat", want: "maps/level1.dat"},
		{name: "backslash", in: `maps\level1.dat`, want: "maps/level1.dat"},
		{name: "dot segments", in: "./maps//level1.dat", want: "maps/level1.dat"},
		{name: "empty", in: " ", wantErr: ErrInvalidExtractPath},
		{name: "absolute", in: "/etc/passwd", wantErr: ErrInvalidExtractPath},
		{name: "drive", in: `C:\boot.ini`, wantErr: ErrInvalidExtractPath},
		{name: "traversal", in: "maps/../../x", wantErr: ErrExtractPathOutsideRoot},
		{name: "only dots", in: "./.", wantErr: ErrInvalidExtractPath},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeExtractEntryPath(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("normalizeExtractEntryPath(%q) err=%v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeExtractEntryPath(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("normalizeExtractEntryPath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
