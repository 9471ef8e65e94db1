// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// DirFileOptions configures a DirFile.
type DirFileOptions struct {
	// FS is the filesystem to walk. Nil uses an OS filesystem rooted at the DirFile root.
	FS billy.Filesystem `json:"-" yaml:"-"`
	// MaxFileSize skips loose files larger than this many bytes (0 means no limit).
	MaxFileSize int64 `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty"`
}

// dirEntry is one loose file discovered by Open.
type dirEntry struct {
	path string
	rel  string
	size int64
}

// DirFile serves loose files under a development directory as resources.
// Resource names are paths relative to the root.
type DirFile struct {
	fs      billy.Filesystem
	index   map[ResourceName]int
	root    string
	base    string
	entries []dirEntry
	opts    DirFileOptions
	opened  bool
}

var _ ResourceFile = (*DirFile)(nil)

// NewDirFile creates an unopened resource file over the directory root.
func NewDirFile(root string, opts DirFileOptions) *DirFile {
	d := &DirFile{
		root: root,
		opts: opts,
		fs:   opts.FS,
		base: root,
	}

	if d.fs == nil {
		d.fs = osfs.New(root)
		d.base = "/"
	}

	return d
}

// Open walks the directory tree and indexes every regular file.
func (d *DirFile) Open() error {
	if d.opened {
		return nil
	}

	d.entries = d.entries[:0]
	if err := d.walk(d.base, ""); err != nil {
		return fmt.Errorf("walk %s: %w", d.root, err)
	}

	sort.Slice(d.entries, func(i, j int) bool {
		return d.entries[i].rel < d.entries[j].rel
	})

	d.index = make(map[ResourceName]int, len(d.entries))
	for i := range d.entries {
		key := NewResourceName(d.entries[i].rel)
		if _, exists := d.index[key]; exists {
			continue
		}

		d.index[key] = i
	}

	d.opened = true
	return nil
}

// walk collects regular files under dir; rel is the slash path relative to the root.
func (d *DirFile) walk(dir, rel string) error {
	infos, err := d.fs.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, info := range infos {
		childPath := d.fs.Join(dir, info.Name())
		childRel := path.Join(rel, info.Name())
		if info.IsDir() {
			if err := d.walk(childPath, childRel); err != nil {
				return err
			}
			continue
		}

		if !info.Mode().IsRegular() {
			continue
		}
		if d.opts.MaxFileSize > 0 && info.Size() > d.opts.MaxFileSize {
			continue
		}

		d.entries = append(d.entries, dirEntry{
			path: childPath,
			rel:  childRel,
			size: info.Size(),
		})
	}

	return nil
}

// RawSize returns the size recorded for name at Open.
func (d *DirFile) RawSize(name ResourceName) (int, bool) {
	i, ok := d.index[name]
	if !ok {
		return -1, false
	}

	return int(d.entries[i].size), true
}

// RawRead reads the loose file for name into dst.
func (d *DirFile) RawRead(name ResourceName, dst []byte) (int, error) {
	if !d.opened {
		return 0, fmt.Errorf("%w: %s", ErrNotOpen, d.root)
	}

	i, ok := d.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	entry := d.entries[i]
	if int64(len(dst)) < entry.size {
		return 0, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrShortRead, name, entry.size, len(dst))
	}

	f, err := d.fs.Open(entry.path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	n, err := io.ReadFull(f, dst[:entry.size])
	if err != nil {
		return n, fmt.Errorf("read %s: %w", entry.rel, err)
	}

	return n, nil
}

// Len returns the number of indexed files.
func (d *DirFile) Len() int {
	return len(d.entries)
}

// NameAt returns the relative path of file i.
func (d *DirFile) NameAt(i int) string {
	if i < 0 || i >= len(d.entries) {
		return ""
	}

	return d.entries[i].rel
}

// FileName returns the directory root.
func (d *DirFile) FileName() string {
	return d.root
}

// IsDevelopmentDirectory reports true.
func (d *DirFile) IsDevelopmentDirectory() bool {
	return true
}

// Close drops the index. Files are opened per read, so nothing else is held.
func (d *DirFile) Close() error {
	d.opened = false
	d.index = nil
	d.entries = nil
	return nil
}
