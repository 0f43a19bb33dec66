package deeplearning

import (
	"errors"
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

func TestCheckAndCleanFlattensRowMajor(t *testing.T) {
	X := [][][]float64{
		{{1, 2, 3}, {4, 5, 6}},
		{{7, 8, 9}, {10, 11, 12}},
	}
	y := []float64{0.5, 1.5}

	data, shape, err := CheckAndClean(X, y)
	if err != nil {
		t.Fatalf("CheckAndClean failed: %v", err)
	}
	if !shape.Equal(tensor.Shape{2, 2, 3}) {
		t.Fatalf("shape = %v, want [2 2 3]", shape)
	}

	want := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for i, v := range want {
		if data[i] != v {
			t.Errorf("data[%d] = %v, want %v", i, data[i], v)
		}
	}
}

func TestCheckAndCleanNilLabelsSkipsLabelCheck(t *testing.T) {
	X := [][][]float64{{{1, 2}}}
	if _, _, err := CheckAndClean(X, nil); err != nil {
		t.Fatalf("expected nil labels to be accepted, got %v", err)
	}
}

func TestCheckAndCleanErrors(t *testing.T) {
	cases := []struct {
		name string
		X    [][][]float64
		y    []float64
		want error
	}{
		{
			name: "empty input",
			X:    nil,
			y:    nil,
			want: ErrEmptyInput,
		},
		{
			name: "label count mismatch",
			X:    [][][]float64{{{1, 2}}},
			y:    []float64{1, 2},
			want: ErrLabelMismatch,
		},
		{
			name: "ragged lengths",
			X:    [][][]float64{{{1, 2, 3}}, {{1, 2}}},
			y:    []float64{1, 2},
			want: ErrRaggedInput,
		},
		{
			name: "ragged channels",
			X:    [][][]float64{{{1, 2}}, {{1, 2}, {3, 4}}},
			y:    []float64{1, 2},
			want: ErrRaggedInput,
		},
		{
			name: "instance with no channels",
			X:    [][][]float64{{}},
			y:    []float64{1},
			want: ErrInvalidInstance,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := CheckAndClean(c.X, c.y)
			if !errors.Is(err, c.want) {
				t.Errorf("error = %v, want %v", err, c.want)
			}
		})
	}
}

func TestUnivariate(t *testing.T) {
	X := Univariate([][]float64{{1, 2, 3}, {4, 5, 6}})

	if len(X) != 2 || len(X[0]) != 1 || len(X[0][0]) != 3 {
		t.Fatalf("unexpected nesting: %v", X)
	}
	if X[1][0][2] != 6 {
		t.Errorf("X[1][0][2] = %v, want 6", X[1][0][2])
	}
}
