// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

// Loader turns raw resource bytes into cached bytes for names matching its pattern.
type Loader interface {
	// Pattern is the wildcard pattern of names this loader handles.
	Pattern() string
	// UseRawFile reports whether raw bytes are cached as-is without LoadResource.
	UseRawFile() bool
	// DiscardRawBufferAfterLoad reports whether raw bytes are dropped after a transform load.
	// When false the handle keeps them and they are charged to the budget.
	DiscardRawBufferAfterLoad() bool
	// AddNullZero reports whether one NUL byte is appended to the raw buffer.
	AddNullZero() bool
	// LoadedResourceSize returns the decoded size for raw bytes.
	LoadedResourceSize(raw []byte) (int, error)
	// LoadResource decodes raw into h.Bytes(), which is pre-sized to LoadedResourceSize.
	LoadResource(raw []byte, h *Handle) error
}

// DefaultLoader caches every resource unchanged. New registers it for "*".
type DefaultLoader struct{}

// Pattern returns "*".
func (DefaultLoader) Pattern() string { return DefaultPattern }

// UseRawFile returns true.
func (DefaultLoader) UseRawFile() bool { return true }

// DiscardRawBufferAfterLoad returns true.
func (DefaultLoader) DiscardRawBufferAfterLoad() bool { return true }

// AddNullZero returns false.
func (DefaultLoader) AddNullZero() bool { return false }

// LoadedResourceSize returns len(raw).
func (DefaultLoader) LoadedResourceSize(raw []byte) (int, error) { return len(raw), nil }

// LoadResource is a no-op; raw bytes are already the handle buffer.
func (DefaultLoader) LoadResource([]byte, *Handle) error { return nil }

// TextLoader caches text resources unchanged with a trailing NUL byte.
type TextLoader struct {
	pattern string
}

// NewTextLoader creates a text loader for pattern.
func NewTextLoader(pattern string) *TextLoader {
	return &TextLoader{pattern: pattern}
}

func (l *TextLoader) Pattern() string                            { return l.pattern }
func (l *TextLoader) UseRawFile() bool                           { return true }
func (l *TextLoader) DiscardRawBufferAfterLoad() bool            { return true }
func (l *TextLoader) AddNullZero() bool                          { return true }
func (l *TextLoader) LoadedResourceSize(raw []byte) (int, error) { return len(raw), nil }
func (l *TextLoader) LoadResource([]byte, *Handle) error         { return nil }

// RegisterLoader adds l in front of the loader chain so it is tried before
// every loader registered earlier.
func (c *Cache) RegisterLoader(l Loader) {
	c.loaders = append(c.loaders, nil)
	copy(c.loaders[1:], c.loaders)
	c.loaders[0] = l
}

// findLoader returns the first loader whose pattern matches name.
func (c *Cache) findLoader(name ResourceName) Loader {
	for _, l := range c.loaders {
		if name.Match(l.Pattern()) {
			return l
		}
	}

	return nil
}
