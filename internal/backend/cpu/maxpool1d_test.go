package cpu

import (
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// TestMaxPool1D_BasicForward pools non-overlapping windows.
func TestMaxPool1D_BasicForward(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 3, 2, 5, 4, 6}, tensor.Shape{1, 1, 6})
	output := backend.MaxPool1D(input, 2, 2, 0, 0)

	if !output.Shape().Equal(tensor.Shape{1, 1, 3}) {
		t.Fatalf("unexpected shape %v", output.Shape())
	}
	assertFloats(t, output.AsFloat32(), []float32{3, 5, 6}, 0)
}

// TestMaxPool1D_SamePaddingIgnoresBorder checks that windows hanging
// over the border take the max of valid elements only. With all-negative
// input a zero-filled pad would wrongly win at the edges.
func TestMaxPool1D_SamePaddingIgnoresBorder(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{-5, -1, -3, -2}, tensor.Shape{1, 1, 4})
	// kernel 3, stride 1, same padding: padLeft=1, padRight=1.
	output := backend.MaxPool1D(input, 3, 1, 1, 1)

	if !output.Shape().Equal(tensor.Shape{1, 1, 4}) {
		t.Fatalf("unexpected shape %v", output.Shape())
	}
	// Windows (clipped): [-5,-1] [-5,-1,-3] [-1,-3,-2] [-3,-2]
	assertFloats(t, output.AsFloat32(), []float32{-1, -1, -1, -2}, 0)
}

// TestMaxPool1D_Backward routes gradients to the winning positions.
func TestMaxPool1D_Backward(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 3, 2, 5}, tensor.Shape{1, 1, 4})
	grad := rawFromSlice(t, []float32{10, 20}, tensor.Shape{1, 1, 2})

	inputGrad := backend.MaxPool1DBackward(input, grad, 2, 2, 0, 0)

	if !inputGrad.Shape().Equal(input.Shape()) {
		t.Fatalf("unexpected shape %v", inputGrad.Shape())
	}
	// Window [1,3] -> position 1; window [2,5] -> position 3.
	assertFloats(t, inputGrad.AsFloat32(), []float32{0, 10, 0, 20}, 0)
}

// TestMaxPool1D_BackwardOverlap accumulates when overlapping windows
// share a winner.
func TestMaxPool1D_BackwardOverlap(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 9, 2}, tensor.Shape{1, 1, 3})
	// kernel 3, stride 1, same padding.
	grad := rawFromSlice(t, []float32{1, 1, 1}, tensor.Shape{1, 1, 3})

	inputGrad := backend.MaxPool1DBackward(input, grad, 3, 1, 1, 1)

	// Position 1 wins all three windows.
	assertFloats(t, inputGrad.AsFloat32(), []float32{0, 3, 0}, 0)
}
