package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page default size", 1, 10, 0, 10},
		{"third page", 3, 10, 20, 10},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -2, 10, 0, 10},
		{"oversized page size falls back", 1, 500, 0, DefaultPageSize},
		{"zero size falls back", 2, 0, 10, DefaultPageSize},
		{"roster size", 2, RosterPageSize, 20, 20},
	}
	for _, tc := range cases {
		offset, limit := CalculateOffsetLimit(tc.page, tc.size)
		if offset != tc.wantOffset || limit != tc.wantLimit {
			t.Errorf("%s: got (%d, %d), want (%d, %d)", tc.name, offset, limit, tc.wantOffset, tc.wantLimit)
		}
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(42, 1, 10)
	if info.TotalPages != 5 || info.TotalItems != 42 || info.CurrentPage != 1 {
		t.Errorf("unexpected info: %+v", info)
	}

	// Requesting past the end clamps to the last page
	info = NewPaginationInfo(42, 9, 10)
	if info.CurrentPage != 5 {
		t.Errorf("currentPage = %d, want 5", info.CurrentPage)
	}

	// An empty first page still reports one page
	info = NewPaginationInfo(0, 1, 10)
	if info.TotalPages != 1 || info.TotalItems != 0 {
		t.Errorf("unexpected empty info: %+v", info)
	}
}
