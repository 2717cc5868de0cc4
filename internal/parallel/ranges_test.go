package parallel

import (
	"sync/atomic"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		parts int
		want  []Range
	}{
		{"empty", 0, 4, nil},
		{"negative", -3, 4, nil},
		{"even", 8, 4, []Range{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"uneven", 10, 4, []Range{{0, 3}, {3, 6}, {6, 8}, {8, 10}}},
		{"more parts than items", 3, 8, []Range{{0, 1}, {1, 2}, {2, 3}}},
		{"zero parts", 5, 0, []Range{{0, 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.n, tt.parts)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplit_CoversAll(t *testing.T) {
	for n := 1; n < 200; n += 7 {
		for parts := 1; parts < 20; parts++ {
			next := 0
			for _, r := range Split(n, parts) {
				if r.Start != next || r.Len() < 1 {
					t.Fatalf("Split(%d,%d): bad range %v at %d", n, parts, r, next)
				}
				next = r.End
			}
			if next != n {
				t.Fatalf("Split(%d,%d) ends at %d", n, parts, next)
			}
		}
	}
}

func TestWorkerPool_ForEach(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	out := make([]int, 100)
	var calls atomic.Int64
	err := pool.ForEach(Split(len(out), 7), func(r Range) {
		calls.Add(1)
		for i := r.Start; i < r.End; i++ {
			out[i] = i * 2
		}
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if calls.Load() != 7 {
		t.Errorf("calls = %d, want 7", calls.Load())
	}
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}
