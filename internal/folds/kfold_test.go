package folds

import (
	"reflect"
	"testing"
)

func TestSplit_SizesAndCoverage(t *testing.T) {
	tests := []struct {
		name     string
		n, k     int
		valSizes []int
	}{
		{"even", 10, 5, []int{2, 2, 2, 2, 2}},
		{"uneven", 10, 3, []int{4, 3, 3}},
		{"k equals n", 4, 4, []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Split(tt.n, tt.k)
			if err != nil {
				t.Fatalf("Split(%d,%d): %v", tt.n, tt.k, err)
			}
			if len(parts) != tt.k {
				t.Fatalf("got %d partitions, want %d", len(parts), tt.k)
			}

			seen := make(map[int]int)
			for i, p := range parts {
				if len(p.Val) != tt.valSizes[i] {
					t.Errorf("fold %d val size: got %d, want %d", i, len(p.Val), tt.valSizes[i])
				}
				if len(p.Train)+len(p.Val) != tt.n {
					t.Errorf("fold %d covers %d indices, want %d", i, len(p.Train)+len(p.Val), tt.n)
				}
				for _, idx := range p.Val {
					seen[idx]++
				}
				inVal := make(map[int]bool, len(p.Val))
				for _, idx := range p.Val {
					inVal[idx] = true
				}
				for _, idx := range p.Train {
					if inVal[idx] {
						t.Errorf("fold %d: index %d in both train and val", i, idx)
					}
				}
			}
			for idx := 0; idx < tt.n; idx++ {
				if seen[idx] != 1 {
					t.Errorf("index %d appears %d times as validation, want 1", idx, seen[idx])
				}
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	a, err := Split(17, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Split(17, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Split is not deterministic for identical inputs")
	}
}

func TestSplit_Errors(t *testing.T) {
	if _, err := Split(10, 1); err == nil {
		t.Error("expected error for k=1")
	}
	if _, err := Split(3, 4); err == nil {
		t.Error("expected error for k>n")
	}
}
