// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"container/list"
	"errors"
	"fmt"
)

// ProgressFunc receives preload progress in percent after each attempted resource.
// Setting *cancel to true stops the scan.
type ProgressFunc func(percent int, cancel *bool)

// Cache is a byte-budgeted LRU cache of resources loaded from resource files.
// Cache is not safe for concurrent use.
type Cache struct {
	logger    *Logger
	metrics   *Metrics
	budget    *budget
	lru       *list.List
	resources map[ResourceName]*list.Element
	files     []ResourceFile
	loaders   []Loader
	stats     Stats
	opts      Options
	opened    bool
}

// New creates a cache over files searched in order. DefaultLoader is registered first,
// so it is the last loader tried.
func New(files []ResourceFile, opts Options) *Cache {
	opts.applyDefaults()

	c := &Cache{
		opts:      opts,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		budget:    newBudget(opts.CacheSize),
		lru:       list.New(),
		resources: make(map[ResourceName]*list.Element),
		files:     append([]ResourceFile(nil), files...),
	}

	c.RegisterLoader(DefaultLoader{})
	return c
}

// Init opens every resource file in order. The first failure aborts Init; files opened
// before it stay open and are closed by Close.
func (c *Cache) Init() error {
	for _, f := range c.files {
		if err := f.Open(); err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrResourceFileOpen, f.FileName(), err)
			c.logger.LogInit(f.FileName(), 0, err)
			return err
		}

		c.logger.LogInit(f.FileName(), f.Len(), nil)
	}

	if c.opts.RejectDuplicateNames {
		if err := c.checkDuplicates(); err != nil {
			c.logger.Error("resource files overlap", "error", err)
			return err
		}
	}

	c.opened = true
	return nil
}

// checkDuplicates fails when one resource name is present in two files.
func (c *Cache) checkDuplicates() error {
	owner := make(map[ResourceName]string)
	for _, f := range c.files {
		for i := 0; i < f.Len(); i++ {
			name := NewResourceName(f.NameAt(i))
			if name.IsDir() {
				continue
			}

			if prev, ok := owner[name]; ok && prev != f.FileName() {
				return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateResource, name, prev, f.FileName())
			}

			owner[name] = f.FileName()
		}
	}

	return nil
}

// Get returns the handle for name, loading it on a miss.
// A hit makes the handle most recently used.
func (c *Cache) Get(name string) (*Handle, error) {
	if !c.opened {
		return nil, ErrNotOpen
	}

	rn := NewResourceName(name)
	if el, ok := c.resources[rn]; ok {
		c.lru.MoveToFront(el)
		c.stats.Hits++
		c.metrics.hit()
		return el.Value.(*Handle), nil
	}

	c.stats.Misses++
	c.metrics.miss()

	h, err := c.load(rn)
	if err != nil {
		c.logger.LogLoad(rn, 0, 0, err)
		c.stats.LoadFailures++
		c.metrics.load(false)
		return nil, err
	}

	c.stats.Loads++
	c.metrics.load(true)
	c.logger.LogLoad(rn, h.Size(), h.charge, nil)

	c.resources[rn] = c.lru.PushFront(h)
	c.metrics.setResident(c.lru.Len())
	return h, nil
}

// load reads and decodes one resource. Nothing is charged when it fails.
func (c *Cache) load(name ResourceName) (*Handle, error) {
	loader := c.findLoader(name)
	if loader == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLoader, name)
	}

	file, rawSize := c.findFile(name)
	if file == nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	allocSize := rawSize
	if loader.AddNullZero() {
		allocSize++
	}

	if loader.UseRawFile() {
		if err := c.reserve(int64(allocSize)); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}

		buf := make([]byte, allocSize)
		if err := readRaw(file, name, buf[:rawSize]); err != nil {
			c.release(int64(allocSize))
			return nil, err
		}

		return newHandle(c, name, buf, int64(allocSize)), nil
	}

	// The raw staging buffer is transient unless the loader keeps it.
	raw := make([]byte, allocSize)
	if err := readRaw(file, name, raw[:rawSize]); err != nil {
		return nil, err
	}

	size, err := loader.LoadedResourceSize(raw[:rawSize])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: %s: loader reported %d bytes", ErrInvalidSize, name, size)
	}

	keepRaw := !loader.DiscardRawBufferAfterLoad()
	charge := int64(size)
	if keepRaw {
		charge += int64(allocSize)
	}

	if err := c.reserve(charge); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	h := newHandle(c, name, make([]byte, size), charge)
	if keepRaw {
		h.raw = raw
	}

	if err := loader.LoadResource(raw[:rawSize], h); err != nil {
		h.release()
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
	}

	return h, nil
}

// findFile returns the first resource file that knows name and its raw size.
func (c *Cache) findFile(name ResourceName) (ResourceFile, int) {
	for _, f := range c.files {
		if size, ok := f.RawSize(name); ok && size >= 0 {
			return f, size
		}
	}

	return nil, -1
}

// readRaw fills dst from file and rejects short reads.
func readRaw(file ResourceFile, name ResourceName, dst []byte) error {
	n, err := file.RawRead(name, dst)
	if err != nil {
		return fmt.Errorf("read %s from %s: %w", name, file.FileName(), err)
	}
	if n < len(dst) {
		return fmt.Errorf("%w: %s from %s: got %d of %d bytes", ErrShortRead, name, file.FileName(), n, len(dst))
	}

	return nil
}

// evictOldest drops the least recently used handle. It returns false on an empty cache.
func (c *Cache) evictOldest() bool {
	el := c.lru.Back()
	if el == nil {
		return false
	}

	c.removeElement(el)
	return true
}

// removeElement unlinks a handle from both indexes and returns its bytes.
func (c *Cache) removeElement(el *list.Element) {
	h := c.lru.Remove(el).(*Handle)
	delete(c.resources, h.name)
	h.release()

	c.stats.Evictions++
	c.metrics.evict()
	c.metrics.setResident(c.lru.Len())
	c.logger.LogEvict(h.name, h.charge, c.budget.used)
}

// Flush evicts every cached handle.
func (c *Cache) Flush() {
	for c.lru.Len() > 0 {
		c.evictOldest()
	}
}

// Match returns the names of every resource matching pattern across all files,
// normalized and in file order, whether cached or not.
func (c *Cache) Match(pattern string) []string {
	pat := string(NewResourceName(pattern))
	var out []string
	for _, f := range c.files {
		for i := 0; i < f.Len(); i++ {
			name := NewResourceName(f.NameAt(i))
			if WildcardMatch(pat, string(name)) {
				out = append(out, string(name))
			}
		}
	}

	return out
}

// Preload loads every resource matching pattern and returns the number loaded.
// Errors for single resources are joined; the scan continues past them.
func (c *Cache) Preload(pattern string, progress ProgressFunc) (int, error) {
	if !c.opened {
		return 0, ErrNotOpen
	}

	names := c.Match(pattern)
	loaded := 0
	canceled := false
	var errs []error
	for i, name := range names {
		if _, err := c.Get(name); err != nil {
			errs = append(errs, err)
		} else {
			loaded++
		}

		if progress != nil {
			progress((i+1)*100/len(names), &canceled)
			if canceled {
				break
			}
		}
	}

	c.logger.LogPreload(pattern, loaded, len(errs), canceled)
	return loaded, errors.Join(errs...)
}

// Close flushes the cache and closes every resource file.
func (c *Cache) Close() error {
	c.Flush()
	c.opened = false

	var errs []error
	for _, f := range c.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", f.FileName(), err))
		}
	}

	return errors.Join(errs...)
}

// Contains reports whether name is cached without changing its recency.
func (c *Cache) Contains(name string) bool {
	_, ok := c.resources[NewResourceName(name)]
	return ok
}

// Len returns the number of cached handles.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Allocated returns the number of budget bytes in use.
func (c *Cache) Allocated() int64 {
	return c.budget.used
}

// Budget returns the byte budget.
func (c *Cache) Budget() int64 {
	return c.budget.limit
}

// Files returns the registered resource files in search order.
func (c *Cache) Files() []ResourceFile {
	return append([]ResourceFile(nil), c.files...)
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Resident = c.lru.Len()
	s.Allocated = c.budget.used
	s.Budget = c.budget.limit
	return s
}
