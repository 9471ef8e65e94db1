// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

// ExtraData is optional loader-specific metadata attached to a handle.
type ExtraData interface {
	String() string
}

// Handle is a cached resource. The cache owns every handle it returns; a handle stays
// valid for reading after eviction but no longer counts toward the budget.
type Handle struct {
	// cache is used only to return charged bytes on release.
	cache *Cache
	// extra is set by transform loaders.
	extra ExtraData
	// name is the normalized resource name.
	name ResourceName
	// buf holds loaded bytes.
	buf []byte
	// raw holds the undecoded bytes when the loader keeps them.
	raw []byte
	// charge is the number of budget bytes held by this handle.
	charge int64
	// released reports whether charge was already returned.
	released bool
}

// newHandle wraps a loaded buffer charged with charge bytes.
func newHandle(c *Cache, name ResourceName, buf []byte, charge int64) *Handle {
	return &Handle{
		cache:  c,
		name:   name,
		buf:    buf,
		charge: charge,
	}
}

// Name returns the normalized resource name.
func (h *Handle) Name() ResourceName {
	return h.name
}

// Bytes returns the loaded buffer. Text loaders include the trailing NUL.
func (h *Handle) Bytes() []byte {
	return h.buf
}

// Size returns len(Bytes()).
func (h *Handle) Size() int {
	return len(h.buf)
}

// Raw returns undecoded bytes kept by loaders that do not discard them, or nil.
func (h *Handle) Raw() []byte {
	return h.raw
}

// Extra returns loader metadata, or nil.
func (h *Handle) Extra() ExtraData {
	return h.extra
}

// SetExtra attaches loader metadata.
func (h *Handle) SetExtra(extra ExtraData) {
	h.extra = extra
}

// Charge returns the number of budget bytes held by the handle.
func (h *Handle) Charge() int64 {
	return h.charge
}

// Evicted reports whether the cache has released this handle.
func (h *Handle) Evicted() bool {
	return h.released
}

// release returns the handle charge to the cache exactly once.
func (h *Handle) release() {
	if h.released {
		return
	}

	h.released = true
	if h.cache != nil {
		h.cache.release(h.charge)
	}
}
