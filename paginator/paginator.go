// Package paginator slices ordered sequences into fixed-size pages.
//
// Page numbers come from untrusted input. A missing or non-numeric value
// selects the first page; a numeric value outside 1..NumPages selects the
// last page, so a request never yields an error or an empty page because of
// its page number alone.
package paginator

import (
	"context"
	"strconv"
	"strings"
)

// Sequence is a finite ordered collection that can be re-read from the start.
type Sequence[T any] interface {
	Count(ctx context.Context) (int64, error)
	Slice(ctx context.Context, offset, limit int) ([]T, error)
}

// SliceSequence adapts an in-memory slice to Sequence.
type SliceSequence[T any] []T

func (s SliceSequence[T]) Count(context.Context) (int64, error) {
	return int64(len(s)), nil
}

func (s SliceSequence[T]) Slice(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]T, end-offset)
	copy(out, s[offset:end])
	return out, nil
}

// Empty returns a sequence with no items.
func Empty[T any]() Sequence[T] {
	return SliceSequence[T](nil)
}

// Pagination describes where a page sits within its sequence.
type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Page is one window of a sequence.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ParsePageNumber reads a raw page parameter. ok is false when raw is not an integer.
func ParsePageNumber(raw string) (n int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

// TotalPages is the number of pages for total items; an empty sequence still has one page.
func TotalPages(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Resolve clamps a raw page parameter to a valid page number.
func Resolve(raw string, numPages int) int {
	n, ok := ParsePageNumber(raw)
	if !ok {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// Paginate returns the page of seq selected by rawPage.
func Paginate[T any](ctx context.Context, seq Sequence[T], rawPage string, size int) (*Page[T], error) {
	if size < 1 {
		size = 1
	}
	total, err := seq.Count(ctx)
	if err != nil {
		return nil, err
	}
	numPages := TotalPages(total, size)
	number := Resolve(rawPage, numPages)

	items, err := seq.Slice(ctx, (number-1)*size, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:        number,
			PageSize:    size,
			Total:       total,
			TotalPages:  numPages,
			HasNext:     number < numPages,
			HasPrevious: number > 1,
		},
	}, nil
}
