// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

const (
	// DefaultCacheSizeMB is the budget used when Options leave both sizes unset.
	DefaultCacheSizeMB = 50
	// DefaultPattern matches every resource name.
	DefaultPattern = "*"
)

// Options configures a Cache.
type Options struct {
	// Logger receives load, eviction and init events. Nil discards output.
	Logger *Logger `json:"-" yaml:"-"`
	// Metrics receives cache counters. Nil disables metrics.
	Metrics *Metrics `json:"-" yaml:"-"`
	// CacheSize is the byte budget. Takes precedence over CacheSizeMB.
	CacheSize int64 `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	// CacheSizeMB is the budget in mebibytes (default 50).
	CacheSizeMB int `json:"cache_size_mb,omitempty" yaml:"cache_size_mb,omitempty"`
	// RejectDuplicateNames fails Init when two resource files contain the same name.
	// By default the first registered file wins.
	RejectDuplicateNames bool `json:"reject_duplicate_names,omitempty" yaml:"reject_duplicate_names,omitempty"`
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	// Hits counts Get calls served from resident handles.
	Hits uint64 `json:"hits" yaml:"hits"`
	// Misses counts Get calls that required a load.
	Misses uint64 `json:"misses" yaml:"misses"`
	// Loads counts successful loads.
	Loads uint64 `json:"loads" yaml:"loads"`
	// LoadFailures counts misses that ended with an error.
	LoadFailures uint64 `json:"load_failures" yaml:"load_failures"`
	// Evictions counts handles released by LRU pressure, Flush or Close.
	Evictions uint64 `json:"evictions" yaml:"evictions"`
	// Resident is the number of cached handles.
	Resident int `json:"resident" yaml:"resident"`
	// Allocated is the number of budgeted bytes in use.
	Allocated int64 `json:"allocated" yaml:"allocated"`
	// Budget is the configured byte budget.
	Budget int64 `json:"budget" yaml:"budget"`
}

// applyDefaults fills zero-valued cache options with defaults.
func (opts *Options) applyDefaults() {
	if opts.CacheSize <= 0 {
		if opts.CacheSizeMB <= 0 {
			opts.CacheSizeMB = DefaultCacheSizeMB
		}

		opts.CacheSize = int64(opts.CacheSizeMB) << 20
	}

	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
}
