package service

import (
	"math"
	"testing"
)

func TestPagerPage(t *testing.T) {
	pager := NewPager(10, 50)

	tests := []struct {
		name         string
		number, size int
		want         Page
		wantOffset   int
	}{
		{"defaults", 0, 0, Page{Number: 0, Size: 10}, 0},
		{"negative page", -3, 5, Page{Number: 0, Size: 5}, 0},
		{"clamped size", 2, 500, Page{Number: 2, Size: 50}, 100},
		{"regular", 3, 20, Page{Number: 3, Size: 20}, 60},
		{"page beyond uint32", 1 << 32, 10, Page{Number: math.MaxUint32, Size: 10}, math.MaxUint32 * 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pager.Page(tt.number, tt.size)
			if got != tt.want {
				t.Fatalf("Page(%d, %d) = %+v, want %+v", tt.number, tt.size, got, tt.want)
			}
			if got.Offset() != tt.wantOffset || got.Limit() != int(tt.want.Size) {
				t.Errorf("limit/offset = %d/%d, want %d/%d", got.Limit(), got.Offset(), tt.want.Size, tt.wantOffset)
			}
		})
	}
}

func TestNewPagerFixesBadBounds(t *testing.T) {
	p := NewPager(500, 0)
	if p.MaxSize != 100 || p.DefaultSize != 10 {
		t.Errorf("NewPager(500, 0) = %+v", p)
	}

	var zero Pager
	if got := zero.Page(0, 0); got.Size != 10 {
		t.Errorf("zero Pager default size = %d, want 10", got.Size)
	}
}
