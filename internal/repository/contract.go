package repository

import (
	"context"

	"contractapi/internal/model"
)

// ContractRepository persists the whole contract list as a single JSON array.
// There are no per-record operations: callers load everything, transform it in
// memory and save everything back.
type ContractRepository interface {
	// Load returns every stored contract in insertion order.
	// An absent store is initialized to an empty array and yields an empty slice.
	Load(ctx context.Context) ([]model.Contract, error)

	// Save replaces the stored array with contracts.
	Save(ctx context.Context, contracts []model.Contract) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Page returns the [start, end) window of items, clamped to the slice bounds.
// The returned slice is never nil so it always encodes as a JSON array.
func Page[T any](items []T, start, end int) []T {
	n := len(items)
	start = clamp(start, 0, n)
	end = clamp(end, start, n)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
