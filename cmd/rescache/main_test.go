package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/rescache"
)

func TestParseLoader(t *testing.T) {
	testCases := []struct {
		value   string
		want    any
		wantErr bool
	}{
		{value: "*.xml=text", want: &rescache.TextLoader{}},
		{value: "*.lzs=LZSS", want: &rescache.LZSSLoader{}},
		{value: "*.lz4=lz4", want: &rescache.LZ4Loader{}},
		{value: "*.zst=zstd", want: &rescache.ZstdLoader{}},
		{value: "*.bin=brotli", wantErr: true},
		{value: "=text", wantErr: true},
		{value: "noequals", wantErr: true},
	}

	for _, tc := range testCases {
		l, err := parseLoader(tc.value)
		if tc.wantErr {
			assert.Error(t, err, tc.value)
			continue
		}

		require.NoError(t, err, tc.value)
		assert.IsType(t, tc.want, l, tc.value)
	}
}

func TestRun_Extract(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "system.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "config/engine.ini", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write([]byte("[engine]"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o600))

	cfg := config{archives: arrayFlags{archive}, cacheMB: 1}
	out := filepath.Join(dir, "out")
	require.NoError(t, run(context.Background(), cfg, rescache.NoopLogger(), "extract", []string{out}))

	data, err := os.ReadFile(filepath.Join(out, "config", "engine.ini"))
	require.NoError(t, err)
	assert.Equal(t, "[engine]", string(data))

	err = run(context.Background(), cfg, rescache.NoopLogger(), "bogus", nil)
	assert.ErrorContains(t, err, "unknown command")
}

func TestProgressFunc_LogsDeciles(t *testing.T) {
	var buf bytes.Buffer
	logger := rescache.NewLogger(slog.NewJSONHandler(&buf, nil))
	progress := progressFunc(context.Background(), logger)

	for _, percent := range []int{3, 5, 12, 19, 50, 100} {
		canceled := false
		progress(percent, &canceled)
		assert.False(t, canceled)
	}

	var logged []float64
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		logged = append(logged, rec["percent"].(float64))
	}
	assert.Equal(t, []float64{3, 12, 50, 100}, logged)
}

func TestProgressFunc_CancelsOnDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	progress := progressFunc(ctx, rescache.NoopLogger())

	canceled := false
	progress(10, &canceled)
	assert.False(t, canceled)

	cancel()
	progress(20, &canceled)
	assert.True(t, canceled)
}
