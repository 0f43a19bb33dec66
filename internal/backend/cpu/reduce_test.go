package cpu

import (
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// TestSum reduces to a single-element tensor.
func TestSum(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.Sum(x)

	if !result.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("expected shape [1], got %v", result.Shape())
	}
	if got := result.AsFloat32()[0]; got != 10 {
		t.Errorf("sum = %f, want 10", got)
	}
}

// TestSumDim reduces along each axis of a 2x3 tensor.
func TestSumDim(t *testing.T) {
	backend := New()

	// 1 2 3
	// 4 5 6
	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := backend.SumDim(x, 0, false)
	if !rows.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("dim 0: expected shape [3], got %v", rows.Shape())
	}
	assertFloats(t, rows.AsFloat32(), []float32{5, 7, 9}, 1e-6)

	cols := backend.SumDim(x, 1, true)
	if !cols.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("dim 1 keepDim: expected shape [2 1], got %v", cols.Shape())
	}
	assertFloats(t, cols.AsFloat32(), []float32{6, 15}, 1e-6)
}

// TestSumDim_NegativeDim indexes from the end.
func TestSumDim_NegativeDim(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	result := backend.SumDim(x, -1, false)

	assertFloats(t, result.AsFloat32(), []float32{3, 7}, 1e-6)
}

// TestMeanDim divides by the reduced dimension size.
func TestMeanDim(t *testing.T) {
	backend := New()

	// [1, 2, 4]: channel means over the last axis.
	x := rawFromSlice(t, []float32{1, 2, 3, 4, 10, 20, 30, 40}, tensor.Shape{1, 2, 4})
	result := backend.MeanDim(x, 2, false)

	if !result.Shape().Equal(tensor.Shape{1, 2}) {
		t.Fatalf("expected shape [1 2], got %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{2.5, 25}, 1e-6)
}

// TestMeanDim_MiddleAxis reduces an interior dimension.
func TestMeanDim_MiddleAxis(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	result := backend.MeanDim(x, 1, true)

	if !result.Shape().Equal(tensor.Shape{2, 1, 2}) {
		t.Fatalf("expected shape [2 1 2], got %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{2, 3, 6, 7}, 1e-6)
}
