// Package pagination slices ordered listings into 1-based pages.
package pagination

import (
	"context"
	"strconv"
)

// DefaultPageSize is the system-wide page size used when none is configured.
const DefaultPageSize = 10

// Page is one slice of a listing.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Number   int   `json:"current_page"`
	NumPages int   `json:"total_pages"`
	Count    int64 `json:"total_items"`
	PerPage  int   `json:"items_per_page"`
}

func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// Meta is the paginator block the handlers put next to the items.
func (p Page[T]) Meta() map[string]interface{} {
	return map[string]interface{}{
		"currentPage":     p.Number,
		"totalPages":      p.NumPages,
		"totalItems":      p.Count,
		"itemsPerPage":    p.PerPage,
		"hasNextPage":     p.HasNext(),
		"hasPreviousPage": p.HasPrevious(),
	}
}

// Source is an ordered listing that can be counted and sliced.
type Source[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Window is the resolved position of a page inside a listing of count items.
type Window struct {
	Number   int
	NumPages int
	Offset   int
	Limit    int
}

// Resolve clamps the requested page into [1, NumPages]. An empty listing has
// exactly one page. Requests below the range get the first page, requests above
// it get the last one.
func Resolve(count int64, perPage, requested int) Window {
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	numPages := int((count + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	n := requested
	if n < 1 {
		n = 1
	}
	if n > numPages {
		n = numPages
	}
	return Window{Number: n, NumPages: numPages, Offset: (n - 1) * perPage, Limit: perPage}
}

// Paginate counts src, resolves the requested page and fetches its items.
func Paginate[T any](ctx context.Context, src Source[T], perPage, requested int) (Page[T], error) {
	count, err := src.Count(ctx)
	if err != nil {
		return Page[T]{}, err
	}
	w := Resolve(count, perPage, requested)
	items := []T{}
	if count > 0 {
		items, err = src.Fetch(ctx, w.Offset, w.Limit)
		if err != nil {
			return Page[T]{}, err
		}
	}
	return Page[T]{Items: items, Number: w.Number, NumPages: w.NumPages, Count: count, PerPage: w.Limit}, nil
}

// ParsePage reads the 1-based "page" query value. Missing or malformed values
// yield 1.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// SourceFuncs adapts a pair of closures to Source.
type SourceFuncs[T any] struct {
	CountFunc func(ctx context.Context) (int64, error)
	FetchFunc func(ctx context.Context, offset, limit int) ([]T, error)
}

func (s SourceFuncs[T]) Count(ctx context.Context) (int64, error) { return s.CountFunc(ctx) }

func (s SourceFuncs[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	return s.FetchFunc(ctx, offset, limit)
}
