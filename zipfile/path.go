// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package zipfile

import (
	"fmt"
	"path"
	"strings"
)

// NormalizeName converts a stored entry name to slash-separated form.
// Case and any other characters are kept as stored.
func NormalizeName(raw string) string {
	return strings.ReplaceAll(raw, `\`, `/`)
}

// LookupKey returns the case-insensitive index key for an entry name.
func LookupKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}

// NormalizePath converts a user path to cleaned slash-separated form used by prefix filters.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = NormalizeName(raw)
	raw = strings.TrimPrefix(raw, "./")
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizeExtractEntryPath normalizes entry name and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryName string) (string, error) {
	raw := strings.TrimSpace(entryName)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtractPath, entryName)
	}

	raw = NormalizeName(raw)
	if strings.HasPrefix(raw, "/") || hasWindowsAbsDrivePrefix(raw) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidExtractPath, entryName)
	}

	parts := strings.Split(raw, "/")
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrExtractPathOutsideRoot, entryName)
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtractPath, entryName)
	}

	return strings.Join(cleanParts, "/"), nil
}

// hasWindowsAbsDrivePrefix reports whether path starts with drive prefix like C:.
func hasWindowsAbsDrivePrefix(path string) bool {
	if len(path) < 2 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
