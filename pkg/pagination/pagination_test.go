package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	n := Params{}.Normalize()
	if n.Page != 1 || n.PageSize != DefaultPageSize {
		t.Fatalf("unexpected normalization: %+v", n)
	}

	n = Params{Page: -3, PageSize: 1000}.Normalize()
	if n.Page != 1 || n.PageSize != MaxPageSize {
		t.Fatalf("expected clamped params, got %+v", n)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, PageSize: 12}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, PageSize: 12}).Offset(); got != 24 {
		t.Fatalf("expected offset 24, got %d", got)
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage(Params{Page: 2, PageSize: 12}, 25)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 25 rows, got %d", page.TotalPages)
	}
	if page.Number != 2 || page.Size != 12 || page.TotalCount != 25 {
		t.Fatalf("unexpected page descriptor: %+v", page)
	}

	empty := NewPage(Params{}, 0)
	if empty.TotalPages != 1 {
		t.Fatalf("empty result should still report one page, got %d", empty.TotalPages)
	}
}
