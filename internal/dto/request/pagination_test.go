package request

import "testing"

func TestPageLimitClamping(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, 10},   // default
		{-5, 10},  // default
		{1, 1},    // lower bound
		{42, 42},  // in range
		{100, 100},
		{250, 100}, // clamped to upper bound
	}

	for _, tt := range tests {
		p := PaginatedRequest{Limit: tt.limit}
		if got := p.PageLimit(); got != tt.want {
			t.Errorf("PageLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestOffsetNeverNegative(t *testing.T) {
	if got := (PaginatedRequest{Skip: -3}).Offset(); got != 0 {
		t.Errorf("Offset(-3) = %d, want 0", got)
	}
	if got := (PaginatedRequest{Skip: 20}).Offset(); got != 20 {
		t.Errorf("Offset(20) = %d, want 20", got)
	}
}
