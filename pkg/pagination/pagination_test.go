package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(t *testing.T, query string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContextDefaults(t *testing.T) {
	p := FromContext(ctxWithQuery(t, ""))
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected page_size %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContextClamping(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"explicit values", "page=3&page_size=50", 3, 50},
		{"zero page falls back", "page=0", 1, DefaultPageSize},
		{"negative page falls back", "page=-2", 1, DefaultPageSize},
		{"page_size above max is clamped", "page_size=500", 1, MaxPageSize},
		{"page_size below min is clamped", "page_size=0", 1, 1},
		{"non-numeric ignored", "page=abc&page_size=xyz", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromContext(ctxWithQuery(t, tt.query))
			if p.Page != tt.page {
				t.Errorf("expected page %d, got %d", tt.page, p.Page)
			}
			if p.PageSize != tt.pageSize {
				t.Errorf("expected page_size %d, got %d", tt.pageSize, p.PageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 20}
	if got := p.Offset(); got != 40 {
		t.Errorf("expected offset 40, got %d", got)
	}
}

func TestNewResponseHasNext(t *testing.T) {
	p := Params{Page: 1, PageSize: 20}

	resp := NewResponse(make([]int, 20), p, 41)
	if !resp.HasNext {
		t.Error("expected has_next true when more rows remain")
	}

	resp = NewResponse(make([]int, 20), Params{Page: 3, PageSize: 20}, 41)
	if resp.HasNext {
		t.Error("expected has_next false on the last page")
	}
}

func TestNewResponseNilItems(t *testing.T) {
	resp := NewResponse[int](nil, Params{Page: 1, PageSize: 20}, 0)
	if resp.Items == nil {
		t.Error("expected empty slice, got nil")
	}
}
