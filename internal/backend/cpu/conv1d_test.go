package cpu

import (
	"math"
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

func rawFromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func assertFloats(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

// TestConv1D_BasicForward checks a valid (unpadded) convolution.
func TestConv1D_BasicForward(t *testing.T) {
	backend := New()

	// Input: [1, 1, 5] = 1 2 3 4 5
	input := rawFromSlice(t, []float32{1, 2, 3, 4, 5}, tensor.Shape{1, 1, 5})
	// Kernel: [1, 1, 3] = 1 0 -1
	kernel := rawFromSlice(t, []float32{1, 0, -1}, tensor.Shape{1, 1, 3})

	output := backend.Conv1D(input, kernel, 1, 0, 0)

	expectedShape := tensor.Shape{1, 1, 3}
	if !output.Shape().Equal(expectedShape) {
		t.Fatalf("expected shape %v, got %v", expectedShape, output.Shape())
	}

	// [1,2,3] -> 1-3 = -2, [2,3,4] -> 2-4 = -2, [3,4,5] -> 3-5 = -2
	assertFloats(t, output.AsFloat32(), []float32{-2, -2, -2}, 1e-6)
}

// TestConv1D_SamePaddingEvenKernel checks asymmetric left/right padding
// for an even kernel: padLeft=(K-1)/2, padRight=K/2 keeps the length.
func TestConv1D_SamePaddingEvenKernel(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 4})
	// Sum kernel of size 2: output[i] = in[i-padLeft] + in[i-padLeft+1].
	kernel := rawFromSlice(t, []float32{1, 1}, tensor.Shape{1, 1, 2})

	// K=2: padLeft=0, padRight=1.
	output := backend.Conv1D(input, kernel, 1, 0, 1)

	if !output.Shape().Equal(tensor.Shape{1, 1, 4}) {
		t.Fatalf("same padding should keep length 4, got %v", output.Shape())
	}

	// Windows: [1,2] [2,3] [3,4] [4,pad] -> 3 5 7 4
	assertFloats(t, output.AsFloat32(), []float32{3, 5, 7, 4}, 1e-6)
}

// TestConv1D_MultiChannel sums contributions across input channels.
func TestConv1D_MultiChannel(t *testing.T) {
	backend := New()

	// [1, 2, 3]: channel 0 = 1 2 3, channel 1 = 10 20 30
	input := rawFromSlice(t, []float32{1, 2, 3, 10, 20, 30}, tensor.Shape{1, 2, 3})
	// [2, 2, 1]: outChan 0 weights (1, 1), outChan 1 weights (2, 0)
	kernel := rawFromSlice(t, []float32{1, 1, 2, 0}, tensor.Shape{2, 2, 1})

	output := backend.Conv1D(input, kernel, 1, 0, 0)

	if !output.Shape().Equal(tensor.Shape{1, 2, 3}) {
		t.Fatalf("unexpected shape %v", output.Shape())
	}
	// outChan 0: 1+10, 2+20, 3+30; outChan 1: 2, 4, 6
	assertFloats(t, output.AsFloat32(), []float32{11, 22, 33, 2, 4, 6}, 1e-6)
}

// TestConv1D_InputBackward distributes output gradients back through
// the kernel taps.
func TestConv1D_InputBackward(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 4})
	kernel := rawFromSlice(t, []float32{2, 1}, tensor.Shape{1, 1, 2})
	grad := rawFromSlice(t, []float32{1, 1, 1}, tensor.Shape{1, 1, 3})

	inputGrad := backend.Conv1DInputBackward(input, kernel, grad, 1, 0, 0)

	if !inputGrad.Shape().Equal(input.Shape()) {
		t.Fatalf("input grad shape %v, want %v", inputGrad.Shape(), input.Shape())
	}
	// Position p receives sum over windows covering it:
	// p0: w0*k0=2; p1: k1+k0=3; p2: k1+k0=3; p3: k1=1
	assertFloats(t, inputGrad.AsFloat32(), []float32{2, 3, 3, 1}, 1e-6)
}

// TestConv1D_KernelBackward accumulates input activations per tap.
func TestConv1D_KernelBackward(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 4})
	kernel := rawFromSlice(t, []float32{2, 1}, tensor.Shape{1, 1, 2})
	grad := rawFromSlice(t, []float32{1, 1, 1}, tensor.Shape{1, 1, 3})

	kernelGrad := backend.Conv1DKernelBackward(input, kernel, grad, 1, 0, 0)

	if !kernelGrad.Shape().Equal(kernel.Shape()) {
		t.Fatalf("kernel grad shape %v, want %v", kernelGrad.Shape(), kernel.Shape())
	}
	// tap 0 sees inputs 1,2,3; tap 1 sees 2,3,4.
	assertFloats(t, kernelGrad.AsFloat32(), []float32{6, 9}, 1e-6)
}

// TestConv1D_ShapeMismatchPanics checks programmer-error panics.
func TestConv1D_ShapeMismatchPanics(t *testing.T) {
	backend := New()

	input := rawFromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 1, 3})
	kernel := rawFromSlice(t, []float32{1, 1}, tensor.Shape{1, 2, 1})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on channel mismatch")
		}
	}()
	backend.Conv1D(input, kernel, 1, 0, 0)
}
