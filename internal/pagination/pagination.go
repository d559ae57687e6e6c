package pagination

import (
	"context"
	"fmt"
)

// Source is an ordered, unexecuted result set that can be counted and sliced.
// *query.Query[T] satisfies it.
type Source[T any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, skip, take int) ([]T, error)
}

// Page holds one page of results and the totals of the full result set
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// Create counts src, then fetches the requested 1-based page.
//
// The count and the fetch are two separate round trips and are not taken
// from one snapshot. Callers that need them consistent must pass a source
// bound to a snapshot-isolated transaction.
func Create[T any](ctx context.Context, src Source[T], pageNumber, pageSize int) (*Page[T], error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page %d of size %d", pageNumber, pageSize)
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	items, err := src.Fetch(ctx, (pageNumber-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:       items,
		CurrentPage: pageNumber,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  TotalPages(total, pageSize),
	}, nil
}

// TotalPages is the ceiling of total/pageSize
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
