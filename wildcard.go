// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import "strings"

// WildcardMatch reports whether s matches pattern.
//
// "*" matches any run of characters including an empty one. "?" matches exactly
// one character except ".", so "level?.dat" never matches "level.1dat".
// There are no character classes and no escapes. Matching is case-sensitive;
// callers compare normalized names.
func WildcardMatch(pattern, s string) bool {
	for {
		star := false
		for pattern != "" && pattern[0] == '*' {
			star = true
			pattern = pattern[1:]
		}

		if star && pattern == "" {
			return true
		}

		seg := strings.IndexByte(pattern, '*')
		last := seg < 0
		if last {
			seg = len(pattern)
		}

		for {
			if segmentMatch(pattern[:seg], s) {
				// Inner segments take the leftmost match, the final one must end with s.
				if !last || len(s) == seg {
					break
				}
			} else if len(s) < seg {
				return false
			}

			if !star || len(s) == 0 {
				return false
			}

			s = s[1:]
		}

		if last {
			return true
		}

		s = s[seg:]
		pattern = pattern[seg:]
	}
}

// segmentMatch compares a star-free pattern segment against the prefix of s.
func segmentMatch(seg, s string) bool {
	if len(s) < len(seg) {
		return false
	}

	for i := 0; i < len(seg); i++ {
		if seg[i] == s[i] {
			continue
		}
		if seg[i] == '?' && s[i] != '.' {
			continue
		}

		return false
	}

	return true
}
