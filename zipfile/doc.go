// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

/*
Package zipfile reads the ZIP subset used by resource archives: a trailing
end-of-central-directory record without comment, central directory file
headers, and local file headers in front of stored (method 0) or raw
deflate (method 8) payloads.

The central directory is parsed once at open time into an immutable list of
entries with a case-insensitive name index. Payloads are extracted on demand
into caller-owned buffers.

# Reading

	r, err := zipfile.Open("levels.zip")
	if err != nil {
	    return err
	}
	defer r.Close()

	i, ok := r.Find("Maps/Level1.XML")
	if !ok {
	    return zipfile.ErrEntryNotFound
	}
	buf := make([]byte, r.EntrySize(i))
	if err := r.Extract(i, buf); err != nil {
	    return err
	}

Archives on a billy filesystem (for example memfs in tests):

	r, err := zipfile.OpenFS(fsys, "objects.zip", zipfile.ReaderOptions{})

# Filtering

Visible entries can be narrowed with a prefix and ordered path rules
(github.com/woozymasta/pathrules):

	r, err := zipfile.OpenWithOptions("objects.zip", zipfile.ReaderOptions{
	    EntryPathPrefix: "textures",
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionExclude, Pattern: "*.psd"},
	    },
	    SkipDirectories: true,
	})

# Extracting

	err := r.ExtractToDir(ctx, "out/", zipfile.ExtractOptions{MaxWorkers: 4})

Entry names that are absolute or escape the destination root are rejected.
*/
package zipfile
