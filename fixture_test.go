package rescache

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// memResource is one named payload served by memFile.
type memResource struct {
	name string
	data []byte
}

// res builds a resource of size bytes filled with the first letter of name.
func res(name string, size int) memResource {
	return memResource{name: name, data: bytes.Repeat([]byte{name[0]}, size)}
}

// memFile is an in-memory ResourceFile with read counters and fault switches.
type memFile struct {
	openErr   error
	readErr   error
	index     map[ResourceName]int
	reads     map[ResourceName]int
	name      string
	resources []memResource
	shortRead bool
	opened    bool
	closed    bool
}

var _ ResourceFile = (*memFile)(nil)

func newMemFile(name string, resources ...memResource) *memFile {
	return &memFile{
		name:      name,
		resources: resources,
		reads:     make(map[ResourceName]int),
	}
}

func (m *memFile) Open() error {
	if m.openErr != nil {
		return m.openErr
	}

	m.index = make(map[ResourceName]int, len(m.resources))
	for i, r := range m.resources {
		m.index[NewResourceName(r.name)] = i
	}

	m.opened = true
	return nil
}

func (m *memFile) RawSize(name ResourceName) (int, bool) {
	i, ok := m.index[name]
	if !ok {
		return -1, false
	}

	return len(m.resources[i].data), true
}

func (m *memFile) RawRead(name ResourceName, dst []byte) (int, error) {
	i, ok := m.index[name]
	if !ok {
		return 0, ErrResourceNotFound
	}

	m.reads[name]++
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.shortRead {
		return 0, nil
	}

	return copy(dst, m.resources[i].data), nil
}

func (m *memFile) Len() int { return len(m.resources) }

func (m *memFile) NameAt(i int) string {
	if i < 0 || i >= len(m.resources) {
		return ""
	}

	return m.resources[i].name
}

func (m *memFile) FileName() string             { return m.name }
func (m *memFile) IsDevelopmentDirectory() bool { return false }

func (m *memFile) Close() error {
	m.closed = true
	return nil
}

// newTestCache creates and initializes a cache with a byte budget.
func newTestCache(t *testing.T, budget int64, files ...ResourceFile) *Cache {
	t.Helper()

	c := New(files, Options{CacheSize: budget})
	require.NoError(t, c.Init())
	return c
}

// residentCharge sums charges of cached handles.
func residentCharge(c *Cache) int64 {
	var total int64
	for el := c.lru.Front(); el != nil; el = el.Next() {
		total += el.Value.(*Handle).Charge()
	}

	return total
}

// failLoader is a transform loader whose decode step always fails.
type failLoader struct {
	pattern string
}

var errDecode = errors.New("decode failed")

func (l failLoader) Pattern() string                            { return l.pattern }
func (l failLoader) UseRawFile() bool                           { return false }
func (l failLoader) DiscardRawBufferAfterLoad() bool            { return true }
func (l failLoader) AddNullZero() bool                          { return false }
func (l failLoader) LoadedResourceSize(raw []byte) (int, error) { return len(raw) * 2, nil }
func (l failLoader) LoadResource([]byte, *Handle) error         { return errDecode }

// upperLoader uppercases raw bytes and keeps the raw buffer on the handle.
type upperLoader struct {
	pattern string
}

func (l upperLoader) Pattern() string                            { return l.pattern }
func (l upperLoader) UseRawFile() bool                           { return false }
func (l upperLoader) DiscardRawBufferAfterLoad() bool            { return false }
func (l upperLoader) AddNullZero() bool                          { return false }
func (l upperLoader) LoadedResourceSize(raw []byte) (int, error) { return len(raw), nil }

func (l upperLoader) LoadResource(raw []byte, h *Handle) error {
	copy(h.Bytes(), bytes.ToUpper(raw))
	return nil
}
