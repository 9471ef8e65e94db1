// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"fmt"

	"golang.org/x/sync/semaphore"
)

// budget tracks reserved bytes against a fixed limit.
type budget struct {
	sem   *semaphore.Weighted
	limit int64
	used  int64
}

// newBudget creates a budget of limit bytes.
func newBudget(limit int64) *budget {
	return &budget{
		sem:   semaphore.NewWeighted(limit),
		limit: limit,
	}
}

// tryAcquire reserves n bytes without blocking.
func (b *budget) tryAcquire(n int64) bool {
	if n <= 0 {
		return true
	}
	if !b.sem.TryAcquire(n) {
		return false
	}

	b.used += n
	return true
}

// release returns n reserved bytes.
func (b *budget) release(n int64) {
	if n <= 0 {
		return
	}

	b.sem.Release(n)
	b.used -= n
}

// reserve takes size bytes from the budget, evicting LRU handles until the request fits.
func (c *Cache) reserve(size int64) error {
	if size > c.budget.limit {
		return fmt.Errorf("%w: %d bytes requested, budget is %d", ErrBudgetExceeded, size, c.budget.limit)
	}

	for !c.budget.tryAcquire(size) {
		if !c.evictOldest() {
			return fmt.Errorf("%w: %d bytes requested, %d in use after evicting all", ErrBudgetExceeded, size, c.budget.used)
		}
	}

	c.metrics.setAllocated(c.budget.used)
	return nil
}

// release returns size bytes to the budget.
func (c *Cache) release(size int64) {
	c.budget.release(size)
	c.metrics.setAllocated(c.budget.used)
}
