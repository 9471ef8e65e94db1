// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"archive/zip"
	"errors"
	"testing"

	"github.com/woozymasta/pathrules"
)

func filterFixture(t *testing.T) []byte {
	t.Helper()

	return buildZip(t, []fixtureEntry{
		{name: "textures/", method: zip.Store},
		{name: "textures/crate.dds", data: []byte("dds"), method: zip.Store},
		{name: "textures/crate.psd", data: []byte("psd"), method: zip.Store},
		{name: "Scripts/main.lua", data: []byte("lua"), method: zip.Deflate},
		{name: "scripts/tmp/debug.lua", data: []byte("dbg"), method: zip.Deflate},
		{name: "readme.txt", data: []byte("txt"), method: zip.Store},
	})
}

func entryNames(r *Reader) []string {
	out := make([]string, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		out = append(out, r.EntryName(i))
	}

	return out
}

func TestFilter_Prefix(t *testing.T) {
	t.Parallel()

	r := openBytes(t, filterFixture(t), ReaderOptions{EntryPathPrefix: `.\SCRIPTS\`})
	names := entryNames(r)
	if len(names) != 2 || names[0] != "Scripts/main.lua" || names[1] != "scripts/tmp/debug.lua" {
		t.Fatalf("names=%v, want scripts entries", names)
	}

	// Index is rebuilt over the visible list.
	if _, ok := r.Find("readme.txt"); ok {
		t.Fatal("filtered entry must not be found")
	}
	if i, ok := r.Find("scripts/main.lua"); !ok || i != 0 {
		t.Fatalf("Find(scripts/main.lua)=(%d,%v), want (0,true)", i, ok)
	}
}

func TestFilter_SkipDirectories(t *testing.T) {
	t.Parallel()

	r := openBytes(t, filterFixture(t), ReaderOptions{SkipDirectories: true})
	if r.Len() != 5 {
		t.Fatalf("Len()=%d, want 5", r.Len())
	}
	for _, name := range entryNames(r) {
		if name == "textures/" {
			t.Fatal("directory entry must be skipped")
		}
	}
}

func TestFilter_Rules(t *testing.T) {
	t.Parallel()

	r := openBytes(t, filterFixture(t), ReaderOptions{
		SkipDirectories: true,
		Rules: []pathrules.Rule{
			{Action: pathrules.ActionExclude, Pattern: "*.psd"},
			{Action: pathrules.ActionExclude, Pattern: "scripts/tmp/**"},
		},
	})

	names := entryNames(r)
	want := []string{"textures/crate.dds", "Scripts/main.lua", "readme.txt"}
	if len(names) != len(want) {
		t.Fatalf("names=%v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d]=%q, want %q", i, names[i], want[i])
		}
	}
}

func TestFilter_RulesAllowList(t *testing.T) {
	t.Parallel()

	r := openBytes(t, filterFixture(t), ReaderOptions{
		Rules: []pathrules.Rule{
			{Action: pathrules.ActionInclude, Pattern: "*.lua"},
		},
		MatcherOptions: pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		},
	})

	if r.Len() != 2 {
		t.Fatalf("Len()=%d, want 2 (%v)", r.Len(), entryNames(r))
	}
}

func TestFilter_InvalidRule(t *testing.T) {
	t.Parallel()

	data := filterFixture(t)
	_, err := NewReaderFromBytes(data, ReaderOptions{
		Rules: []pathrules.Rule{{Action: pathrules.ActionUnknown, Pattern: "*.psd"}},
	})
	if !errors.Is(err, ErrInvalidRules) {
		t.Fatalf("expected ErrInvalidRules, got %v", err)
	}
}

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "clean", in: "maps/level1", want: "maps/level1"},
		{name: "windows", in: `.\maps\level1\`, want: "maps/level1"},
		{name: "dot segments", in: "./a/../b//c.txt", want: "b/c.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLookupKey(t *testing.T) {
	t.Parallel()

	if got := LookupKey(`Maps\Level1.DAT`); got != "maps/level1.dat" {
		t.Fatalf("LookupKey=%q, want maps/level1.dat", got)
	}
}
