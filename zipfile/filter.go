// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// entryMatcher holds compiled visibility rules.
type entryMatcher struct {
	matcher *pathrules.Matcher
}

// newEntryMatcher compiles visibility rules; nil result means no rule filtering.
func newEntryMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entryMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &entryMatcher{matcher: matcher}, nil
}

// normalizeRules normalizes rule patterns and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.TrimPrefix(NormalizeName(strings.TrimSpace(rule.Pattern)), "./")
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether entry is visible under compiled rules.
func (m *entryMatcher) Match(entry *Entry) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(entry.Name)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, entry.IsDir())
}

// applyEntryFilters applies every configured visibility filter in a fixed order.
func applyEntryFilters(entries []Entry, opts ReaderOptions) ([]Entry, error) {
	if opts.SkipDirectories {
		entries = filterEntriesSkipDirs(entries)
	}

	entries = filterEntriesByPrefix(entries, opts.EntryPathPrefix)

	matcher, err := newEntryMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return nil, err
	}
	if matcher != nil {
		entries = filterEntriesByMatcher(entries, matcher)
	}

	return entries, nil
}

// filterEntriesSkipDirs drops directory placeholders.
func filterEntriesSkipDirs(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if entries[i].IsDir() {
			continue
		}

		out = append(out, entries[i])
	}

	return out
}

// filterEntriesByPrefix keeps entries under prefix (or exact match if it points to a file).
func filterEntriesByPrefix(entries []Entry, prefix string) []Entry {
	prefix = strings.ToLower(NormalizePath(prefix))
	if prefix == "" {
		return entries
	}

	withSlash := prefix + "/"
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		entryPath := strings.ToLower(NormalizePath(entry.Name))
		if entryPath == prefix || strings.HasPrefix(entryPath, withSlash) {
			out = append(out, entry)
		}
	}

	return out
}

// filterEntriesByMatcher keeps entries included by compiled rules.
func filterEntriesByMatcher(entries []Entry, matcher *entryMatcher) []Entry {
	out := make([]Entry, 0, len(entries))
	for i := range entries {
		if !matcher.Match(&entries[i]) {
			continue
		}

		out = append(out, entries[i])
	}

	return out
}
