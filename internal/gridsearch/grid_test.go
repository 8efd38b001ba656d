package gridsearch

import (
	"reflect"
	"testing"

	"github.com/474benchen/bias-aware-gridsearch/internal/estimator"
)

func TestGrid_Size(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want int
	}{
		{"empty", Grid{}, 0},
		{"single", Grid{"a": {1}}, 1},
		{"product", Grid{"a": {1, 2}, "b": {1, 2, 3}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrid_EnumerateOrder(t *testing.T) {
	g := Grid{
		"b": {10, 20},
		"a": {1, 2},
	}
	want := []estimator.Params{
		{"a": 1, "b": 10},
		{"a": 1, "b": 20},
		{"a": 2, "b": 10},
		{"a": 2, "b": 20},
	}
	got := g.Enumerate()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enumerate() = %v, want %v", got, want)
	}
}

func TestGrid_EnumerateDeterministic(t *testing.T) {
	g := Grid{"a": {1, 2, 3}, "b": {4, 5}, "c": {6}}
	first := g.Enumerate()
	second := g.Enumerate()
	if !reflect.DeepEqual(first, second) {
		t.Error("Enumerate is not deterministic")
	}
	if len(first) != g.Size() {
		t.Errorf("enumerated %d configurations, want %d", len(first), g.Size())
	}
}

func TestGrid_Validate(t *testing.T) {
	if err := (Grid{}).Validate(); err == nil {
		t.Error("expected error for empty grid")
	}
	if err := (Grid{"a": {}}).Validate(); err == nil {
		t.Error("expected error for empty value list")
	}
	if err := (Grid{"a": {1}}).Validate(); err != nil {
		t.Errorf("valid grid rejected: %v", err)
	}
}
