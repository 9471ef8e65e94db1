// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import "errors"

// Sentinel errors for cache operations. Use errors.Is in callers.
var (
	// ErrResourceFileOpen means a resource file failed to open during Init.
	ErrResourceFileOpen = errors.New("open resource file")
	// ErrResourceNotFound means no resource file contains the requested name.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrNoLoader means no registered loader pattern matches the resource name.
	ErrNoLoader = errors.New("no loader matches resource")
	// ErrBudgetExceeded means the request cannot fit even after evicting every cached resource.
	ErrBudgetExceeded = errors.New("cache budget exceeded")
	// ErrShortRead means a resource file returned fewer bytes than its reported size.
	ErrShortRead = errors.New("short resource read")
	// ErrLoad means a transform loader failed to decode the raw bytes.
	ErrLoad = errors.New("load resource")
	// ErrDuplicateResource means the same name exists in more than one resource file.
	ErrDuplicateResource = errors.New("duplicate resource name")
	// ErrNotOpen means the cache or resource file is not initialized.
	ErrNotOpen = errors.New("not open")
	// ErrInvalidSize means a loader reported an unusable decoded size.
	ErrInvalidSize = errors.New("invalid resource size")
)
