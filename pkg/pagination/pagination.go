// Package pagination provides page-based pagination helpers shared across
// list endpoints.
package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds the normalized pagination inputs for a list query.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the row offset corresponding to the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// FromContext extracts page and page_size query parameters, applying defaults
// and clamping out-of-range values rather than rejecting them.
func FromContext(c echo.Context) Params {
	p := Params{Page: 1, PageSize: DefaultPageSize}

	if raw := c.QueryParam("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			p.Page = v
		}
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			switch {
			case v < 1:
				p.PageSize = 1
			case v > MaxPageSize:
				p.PageSize = MaxPageSize
			default:
				p.PageSize = v
			}
		}
	}

	return p
}

// Response is the standard envelope for paginated list results.
type Response[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
}

// NewResponse builds a Response, computing HasNext from the total count.
func NewResponse[T any](items []T, p Params, total int64) Response[T] {
	if items == nil {
		items = []T{}
	}
	return Response[T]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    total,
		HasNext:  int64(p.Page)*int64(p.PageSize) < total,
	}
}
