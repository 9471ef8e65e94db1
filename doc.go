// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

/*
Package rescache provides a byte-budgeted, least-recently-used cache of
resources stored in ZIP archives or loose development directories.

Resources are addressed by case-insensitive names. On a miss the cache picks a
loader by wildcard pattern, finds the first resource file that contains the
name, reserves budget (evicting old handles when needed), reads the raw bytes
and optionally decodes them.

Cache invariants:
  - allocated bytes never exceed the budget;
  - every cached name has exactly one LRU node;
  - a handle is charged once and released once.

# Setup

	cache := rescache.New([]rescache.ResourceFile{
	    rescache.NewZipFile("system.zip", rescache.ZipFileOptions{}),
	    rescache.NewZipFile("levels.zip", rescache.ZipFileOptions{}),
	}, rescache.Options{CacheSizeMB: 50})
	if err := cache.Init(); err != nil {
	    return err
	}
	defer cache.Close()

# Loaders

Loaders registered later are tried first. DefaultLoader ("*") is always
registered by New and serves as the fallback:

	cache.RegisterLoader(rescache.NewTextLoader("*.xml"))
	cache.RegisterLoader(rescache.NewLZ4Loader("*.lz4", rescache.CodecLoaderOptions{}))

# Reading

	h, err := cache.Get("Maps/Level1.XML")
	if err != nil {
	    return err
	}
	data := h.Bytes() // NUL-terminated for TextLoader

Patterns use "*" and "?", where "?" never matches ".":

	names := cache.Match("maps/level?.dat")
	loaded, err := cache.Preload("*.xml", func(percent int, cancel *bool) {
	    fmt.Printf("%d%%\n", percent)
	})

The cache is not safe for concurrent use.
*/
package rescache
