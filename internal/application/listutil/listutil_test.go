package listutil

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  PageParams
	}{
		{"defaults", url.Values{}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"explicit", url.Values{"page": {"3"}, "per_page": {"50"}}, PageParams{Page: 3, PerPage: 50}},
		{"size not offered", url.Values{"per_page": {"25"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", url.Values{"page": {"-2"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
		{"garbage", url.Values{"page": {"two"}, "per_page": {"lots"}}, PageParams{Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePageParams(tt.query); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 50},
		{"abc", 50},
		{"0", 50},
		{"10", 10},
		{"5000", 500},
	}
	for _, tt := range tests {
		if got := ParseLimit(url.Values{"limit": {tt.raw}}, 50, 500); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

// TestNewPageInfo verifies clamping and page counting.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantOffset           int
	}{
		{"first page", 1, 20, 45, 1, 3, 0},
		{"last page", 3, 20, 45, 3, 3, 40},
		{"beyond last", 9, 20, 45, 3, 3, 40},
		{"empty", 1, 20, 0, 1, 1, 0},
		{"bad per page", 2, 0, 45, 2, 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages || info.Offset() != tt.wantOffset {
				t.Errorf("got %+v offset %d", info, info.Offset())
			}
		})
	}
}

// TestPaginate verifies slicing of the requested page.
func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}
	p := Paginate(items, PageParams{Page: 2, PerPage: 10})
	if len(p.Items) != 10 || p.Items[0] != 10 || p.Items[9] != 19 {
		t.Errorf("page 2 = %v", p.Items)
	}
	last := Paginate(items, PageParams{Page: 7, PerPage: 10})
	if len(last.Items) != 5 || last.Info.Page != 3 {
		t.Errorf("clamped page = %v info %+v", last.Items, last.Info)
	}
	empty := Paginate([]string(nil), PageParams{Page: 1, PerPage: 10})
	if empty.Items == nil || len(empty.Items) != 0 {
		t.Errorf("empty page items = %#v, want empty non-nil slice", empty.Items)
	}
}
