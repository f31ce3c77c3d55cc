package core

import (
	"reflect"
	"testing"
)

func TestComputePage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		total      int64
		wantPages  int
		wantOffset int64
	}{
		{"empty", 1, 10, 0, 0, 0},
		{"exact fit", 2, 10, 20, 2, 10},
		{"partial last page", 5, 10, 45, 5, 40},
		{"single row", 1, 10, 1, 1, 0},
		{"page size fallback", 2, 0, 25, 3, DefaultPageSize},
		{"negative page offset", -3, 10, 45, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePage(tt.page, tt.pageSize, tt.total)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.Offset() != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got.Offset(), tt.wantOffset)
			}
			if got.CurrentPage != tt.page {
				t.Errorf("CurrentPage = %d, want %d (not clamped)", got.CurrentPage, tt.page)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	sort := SortSpec{Code: 3, Ascending: false}
	tests := []struct {
		name   string
		page   int
		total  int64
		policy PagingPolicy
		want   PageDecision
	}{
		{"last partial page renders", 5, 45, PagingPolicy{PageSize: 10}, PageRender},
		{"past last page", 6, 45, PagingPolicy{PageSize: 10}, PageRedirectFirst},
		{"page zero", 0, 45, PagingPolicy{PageSize: 10}, PageRedirectFirst},
		{"negative page", -1, 45, PagingPolicy{PageSize: 10}, PageRedirectFirst},
		{"first page", 1, 45, PagingPolicy{PageSize: 10}, PageRender},
		{"empty opted in", 1, 0, PagingPolicy{PageSize: 10, RedirectEmptyToCreate: true}, PageRedirectCreate},
		{"empty opted in any page", 4, 0, PagingPolicy{PageSize: 10, RedirectEmptyToCreate: true}, PageRedirectCreate},
		{"empty renders page one", 1, 0, PagingPolicy{PageSize: 10}, PageRender},
		{"empty other page", 3, 0, PagingPolicy{PageSize: 10}, PageRedirectFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, got := Window(tt.page, sort, tt.total, tt.policy)
			if got != tt.want {
				t.Errorf("Window() decision = %v, want %v", got, tt.want)
			}
			if info.SortCode != sort.Code || info.Ascending != sort.Ascending {
				t.Errorf("Window() sort = (%d, %v), want (%d, %v)",
					info.SortCode, info.Ascending, sort.Code, sort.Ascending)
			}
		})
	}
}

func TestWindowLastPage(t *testing.T) {
	info, decision := Window(5, DefaultSort, 45, PagingPolicy{PageSize: 10})
	if decision != PageRender {
		t.Fatalf("decision = %v, want render", decision)
	}
	if info.Offset() != 40 || info.Limit() != 10 {
		t.Errorf("Offset/Limit = %d/%d, want 40/10", info.Offset(), info.Limit())
	}
	if info.HasNext() {
		t.Error("HasNext() = true on last page")
	}
	if !info.HasPrevious() {
		t.Error("HasPrevious() = false on page 5")
	}
}

func TestPages(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int64
		width int
		want  []int
	}{
		{"empty", 1, 0, 5, nil},
		{"fewer pages than width", 1, 25, 5, []int{1, 2, 3}},
		{"centred", 5, 100, 5, []int{3, 4, 5, 6, 7}},
		{"clamped at start", 1, 100, 5, []int{1, 2, 3, 4, 5}},
		{"clamped at end", 10, 100, 5, []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePage(tt.page, 10, tt.total).Pages(tt.width)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Pages() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageDecisionString(t *testing.T) {
	if PageRedirectCreate.String() != "redirect-create" {
		t.Errorf("String() = %q", PageRedirectCreate.String())
	}
	if PageDecision(99).String() != "unknown" {
		t.Errorf("String() = %q", PageDecision(99).String())
	}
}
