package rescache

import (
	"fmt"
	"testing"
)

const benchResources = 256

// benchCache builds an initialized cache over benchResources 1 KiB resources.
func benchCache(b *testing.B, budget int64) (*Cache, []string) {
	b.Helper()

	resources := make([]memResource, benchResources)
	names := make([]string, benchResources)
	for i := range resources {
		names[i] = fmt.Sprintf("dir%02d/res%04d.dat", i%16, i)
		resources[i] = res(names[i], 1024)
	}

	c := New([]ResourceFile{newMemFile("bench", resources...)}, Options{CacheSize: budget})
	if err := c.Init(); err != nil {
		b.Fatal(err)
	}

	return c, names
}

func BenchmarkCacheGetHit(b *testing.B) {
	c, names := benchCache(b, benchResources*1024)
	if _, err := c.Preload("*", nil); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(names[i%len(names)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCacheGetMissEvict(b *testing.B) {
	// Budget holds a quarter of the set, so a round-robin scan always misses.
	c, names := benchCache(b, benchResources*1024/4)

	b.ReportAllocs()
	b.SetBytes(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Get(names[i%len(names)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWildcardMatch(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if !WildcardMatch("maps/*/level?.dat", "maps/region01/level7.dat") {
			b.Fatal("no match")
		}
	}
}
