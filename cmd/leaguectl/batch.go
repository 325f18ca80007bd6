package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const defaultParallel = 4

// eventIDs проверяет значения --event и убирает повторы, сохраняя порядок.
func eventIDs(raw []int) ([]int, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("--event must list at least one league event id")
	}
	seen := make(map[int]struct{}, len(raw))
	ids := make([]int, 0, len(raw))
	for _, id := range raw {
		if id <= 0 {
			return nil, fmt.Errorf("--event must be a positive league event id, got %d", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// forEachEvent runs fn for every event with at most parallel calls in
// flight. Results keep the order of ids; the first error cancels the rest.
// Events own disjoint groups, so parallel recomputes never wait on each
// other's row locks.
func forEachEvent[T any](ctx context.Context, ids []int, parallel int, fn func(ctx context.Context, eventID int) (T, error)) ([]T, error) {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]T, len(ids))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, id := range ids {
		g.Go(func() error {
			res, err := fn(gCtx, id)
			if err != nil {
				return fmt.Errorf("league event %d: %w", id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
