// Package paging slices ordered result sets into page envelopes and
// validates the paging/sorting options that clients send.
package paging

import (
	"errors"
	"fmt"
	"strings"
)

// Default values applied by handlers when a paged request omits a parameter.
const (
	DefaultPageSize      = 10
	DefaultSortBy        = "id"
	DefaultSortDirection = "asc"
)

// MaxPageSize is the largest pageSize Validate accepts.
const MaxPageSize = 1000

var (
	// ErrInvalidOptions is returned for non-positive page numbers or sizes
	// and for unknown sort directions.
	ErrInvalidOptions = errors.New("invalid paging options")
	// ErrInvalidSort is returned when sortBy is not in the resource's allow-list.
	ErrInvalidSort = errors.New("invalid sort field")
)

// Options carries the paging and sorting parameters of one request.
type Options struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection string
}

// Validate checks the numeric bounds and the sort direction. The sort field
// is checked separately against a Columns allow-list.
func (o Options) Validate() error {
	if o.PageNumber < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidOptions)
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		return fmt.Errorf("%w: pageSize must be between 1 and %d", ErrInvalidOptions, MaxPageSize)
	}
	switch strings.ToLower(o.SortDirection) {
	case "", "asc", "desc":
		return nil
	}
	return fmt.Errorf("%w: sortDirection must be asc or desc", ErrInvalidOptions)
}

// Descending reports whether the options ask for descending order.
func (o Options) Descending() bool {
	return strings.EqualFold(o.SortDirection, "desc")
}

// Page is the envelope returned for paged listings.
type Page[T any] struct {
	PageNumber    int `json:"pageNumber"`
	PageSize      int `json:"pageSize"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
	Items         []T `json:"items"`
}

// New slices the already filtered and ordered collection according to opts.
// A page past the end yields an empty Items slice. opts must have passed
// Validate; a non-positive PageSize produces an empty page.
func New[T any](all []T, opts Options) Page[T] {
	p := Page[T]{
		PageNumber:    opts.PageNumber,
		PageSize:      opts.PageSize,
		TotalElements: len(all),
		TotalPages:    TotalPages(len(all), opts.PageSize),
		Items:         []T{},
	}
	if opts.PageSize < 1 || opts.PageNumber < 1 || opts.PageNumber > p.TotalPages {
		return p
	}
	// PageNumber <= TotalPages keeps offset below len(all).
	offset := (opts.PageNumber - 1) * opts.PageSize
	limit := len(all)
	if len(all)-offset > opts.PageSize {
		limit = offset + opts.PageSize
	}
	p.Items = append(p.Items, all[offset:limit]...)
	return p
}

// TotalPages returns ceil(total/size); 0 when size is not positive.
func TotalPages(total, size int) int {
	if size < 1 || total < 1 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}
