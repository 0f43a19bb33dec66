package cpu

import (
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// TestAdd_SameShape adds element-wise.
func TestAdd_SameShape(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	result := backend.Add(a, b)
	assertFloats(t, result.AsFloat32(), []float32{11, 22, 33, 44}, 0)
}

// TestAdd_InplaceFastPath reuses a's buffer when it is uniquely held.
func TestAdd_InplaceFastPath(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromSlice(t, []float32{3, 4}, tensor.Shape{2})

	result := backend.Add(a, b)
	if result != a {
		t.Error("expected inplace result for uniquely held operand")
	}
	assertFloats(t, a.AsFloat32(), []float32{4, 6}, 0)
}

// TestAdd_NoInplaceWhenShared allocates a fresh buffer when a is marked
// non-unique.
func TestAdd_NoInplaceWhenShared(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})
	b := rawFromSlice(t, []float32{3, 4}, tensor.Shape{2})

	release := a.ForceNonUnique()
	result := backend.Add(a, b)
	release()

	if result == a {
		t.Error("expected fresh allocation for shared operand")
	}
	assertFloats(t, a.AsFloat32(), []float32{1, 2}, 0)
	assertFloats(t, result.AsFloat32(), []float32{4, 6}, 0)
}

// TestAdd_BroadcastBias broadcasts a [1,C,1] bias over [N,C,L], the
// pattern Conv1D uses for its bias term.
func TestAdd_BroadcastBias(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3})
	bias := rawFromSlice(t, []float32{10, 100}, tensor.Shape{1, 2, 1})

	result := backend.Add(x, bias)
	if !result.Shape().Equal(tensor.Shape{1, 2, 3}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{11, 12, 13, 104, 105, 106}, 0)
}

// TestSub_Broadcast broadcasts a row vector.
func TestSub_Broadcast(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})
	b := rawFromSlice(t, []float32{1, 2}, tensor.Shape{2})

	result := backend.Sub(a, b)
	assertFloats(t, result.AsFloat32(), []float32{4, 4, 6, 6}, 0)
}

// TestDiv divides element-wise.
func TestDiv(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{2, 9, 8}, tensor.Shape{3})
	b := rawFromSlice(t, []float32{2, 3, 4}, tensor.Shape{3})

	result := backend.Div(a, b)
	assertFloats(t, result.AsFloat32(), []float32{1, 3, 2}, 1e-6)
}

// TestMatMul multiplies 2D matrices.
func TestMatMul(t *testing.T) {
	backend := New()

	// [2,3] x [3,2]
	a := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := rawFromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	result := backend.MatMul(a, b)
	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{58, 64, 139, 154}, 1e-5)
}

// TestMatMul_DimensionMismatchPanics rejects incompatible inner dims.
func TestMatMul_DimensionMismatchPanics(t *testing.T) {
	backend := New()

	a := rawFromSlice(t, []float32{1, 2}, tensor.Shape{1, 2})
	b := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on inner dimension mismatch")
		}
	}()
	backend.MatMul(a, b)
}

// TestReshape keeps data in row-major order.
func TestReshape(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), x.AsFloat32(), 0)
}

// TestTranspose_2D swaps rows and columns.
func TestTranspose_2D(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{1, 4, 2, 5, 3, 6}, 0)
}

// TestTranspose_ExplicitAxes permutes a 3D tensor.
func TestTranspose_ExplicitAxes(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})
	result := backend.Transpose(x, 1, 0, 2)

	if !result.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("unexpected shape %v", result.Shape())
	}
	assertFloats(t, result.AsFloat32(), []float32{1, 2, 5, 6, 3, 4, 7, 8}, 0)
}

// TestSqrt computes element-wise square roots.
func TestSqrt(t *testing.T) {
	backend := New()

	x := rawFromSlice(t, []float32{4, 9, 16}, tensor.Shape{3})
	result := backend.Sqrt(x)
	assertFloats(t, result.AsFloat32(), []float32{2, 3, 4}, 1e-6)
}
