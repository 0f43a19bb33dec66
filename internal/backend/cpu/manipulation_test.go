package cpu

import (
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// TestCat_ChannelDim concatenates along the channel axis of [N,C,L]
// tensors, the layout inception blocks merge their branches in.
func TestCat_ChannelDim(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2})
	b := rawFromSlice(t, []float32{5, 6}, tensor.Shape{1, 1, 2})

	out := backend.Cat([]*tensor.RawTensor{a, b}, 1)

	if !out.Shape().Equal(tensor.Shape{1, 3, 2}) {
		t.Fatalf("expected shape [1 3 2], got %v", out.Shape())
	}
	assertFloats(t, out.AsFloat32(), []float32{1, 2, 3, 4, 5, 6}, 0)
}

// TestCat_InterleavesOuterDims keeps per-batch ordering when the
// concat dimension is not the outermost.
func TestCat_InterleavesOuterDims(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
	b := rawFromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 1, 2})

	out := backend.Cat([]*tensor.RawTensor{a, b}, 1)

	if !out.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("expected shape [2 2 2], got %v", out.Shape())
	}
	assertFloats(t, out.AsFloat32(), []float32{1, 2, 10, 20, 3, 4, 30, 40}, 0)
}

// TestCat_MismatchedDimsPanics rejects inputs whose non-concat
// dimensions differ.
func TestCat_MismatchedDimsPanics(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{1, 1, 2})
	b := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 1, 3})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched lengths")
		}
	}()
	backend.Cat([]*tensor.RawTensor{a, b}, 1)
}

// TestNarrow slices a range along a dimension, inverse of Cat.
func TestNarrow(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 3, 2})

	out := backend.Narrow(x, 1, 1, 2)
	if !out.Shape().Equal(tensor.Shape{1, 2, 2}) {
		t.Fatalf("expected shape [1 2 2], got %v", out.Shape())
	}
	assertFloats(t, out.AsFloat32(), []float32{3, 4, 5, 6}, 0)
}

// TestNarrowCatRoundTrip splits with Narrow and reassembles with Cat.
func TestNarrowCatRoundTrip(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})

	first := backend.Narrow(x, 1, 0, 1)
	second := backend.Narrow(x, 1, 1, 1)
	rebuilt := backend.Cat([]*tensor.RawTensor{first, second}, 1)

	if !rebuilt.Shape().Equal(x.Shape()) {
		t.Fatalf("expected shape %v, got %v", x.Shape(), rebuilt.Shape())
	}
	assertFloats(t, rebuilt.AsFloat32(), x.AsFloat32(), 0)
}
