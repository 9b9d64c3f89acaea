package paginator

import (
	"reflect"
	"testing"
)

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name       string
		page       int
		limit      int
		wantItems  []string
		wantPages  int
		wantPrev   *int
		wantNext   *int
		wantCursor int
	}{
		{"first page", 1, 2, []string{"a", "b"}, 3, nil, intPtr(2), 1},
		{"middle page", 2, 2, []string{"c", "d"}, 3, intPtr(1), intPtr(3), 2},
		{"last short page", 3, 2, []string{"e"}, 3, intPtr(2), nil, 3},
		{"beyond range", 9, 2, []string{}, 3, intPtr(8), nil, 9},
		{"page clamps to one", 0, 2, []string{"a", "b"}, 3, nil, intPtr(2), 1},
		{"limit defaults to ten", 1, 0, []string{"a", "b", "c", "d", "e"}, 1, nil, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(items, tt.page, tt.limit)

			if !reflect.DeepEqual(got.Items, tt.wantItems) {
				t.Errorf("items = %v, want %v", got.Items, tt.wantItems)
			}
			if got.CurrentPage != tt.wantCursor {
				t.Errorf("current page = %d, want %d", got.CurrentPage, tt.wantCursor)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("total pages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.TotalItems != len(items) {
				t.Errorf("total items = %d, want %d", got.TotalItems, len(items))
			}
			if !intPtrEqual(got.PrevPage, tt.wantPrev) {
				t.Errorf("prev page = %v, want %v", fmtPtr(got.PrevPage), fmtPtr(tt.wantPrev))
			}
			if !intPtrEqual(got.NextPage, tt.wantNext) {
				t.Errorf("next page = %v, want %v", fmtPtr(got.NextPage), fmtPtr(tt.wantNext))
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := Paginate([]int{}, 1, 10)

	if len(got.Items) != 0 {
		t.Errorf("expected no items, got %v", got.Items)
	}
	if got.TotalPages != 0 || got.TotalItems != 0 {
		t.Errorf("expected zero counters, got pages=%d items=%d", got.TotalPages, got.TotalItems)
	}
	if got.PrevPage != nil || got.NextPage != nil {
		t.Error("expected no page links on empty input")
	}
}

func intPtr(v int) *int { return &v }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
