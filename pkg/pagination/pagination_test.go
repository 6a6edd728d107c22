package pagination

import "testing"

func TestNormalizePerPage(t *testing.T) {
	if got := NormalizePerPage(0); got != DefaultPerPage {
		t.Fatalf("expected default %d, got %d", DefaultPerPage, got)
	}
	if got := NormalizePerPage(MaxPerPage + 50); got != MaxPerPage {
		t.Fatalf("expected cap %d, got %d", MaxPerPage, got)
	}
	if got := NormalizePerPage(7); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	if got := Offset(3, 10); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := Offset(-1, 10); got != 0 {
		t.Fatalf("expected offset 0 for invalid page, got %d", got)
	}
	if got := TotalPages(21, 10); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := TotalPages(0, 10); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
}
