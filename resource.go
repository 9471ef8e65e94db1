// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"strings"

	"github.com/woozymasta/rescache/zipfile"
)

// ResourceName is a lowercased, slash-separated resource identifier.
// Construct it with NewResourceName so lookups never renormalize.
type ResourceName string

// NewResourceName folds case and converts "\" separators to "/".
func NewResourceName(name string) ResourceName {
	return ResourceName(zipfile.LookupKey(name))
}

// String returns the normalized name.
func (n ResourceName) String() string {
	return string(n)
}

// IsDir reports whether the name denotes a directory placeholder.
func (n ResourceName) IsDir() bool {
	return strings.HasSuffix(string(n), "/")
}

// Match reports whether the name matches a wildcard pattern.
// The pattern is normalized the same way as names.
func (n ResourceName) Match(pattern string) bool {
	return WildcardMatch(string(NewResourceName(pattern)), string(n))
}
