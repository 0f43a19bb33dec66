// Package autodiff implements reverse-mode automatic differentiation
// using the decorator pattern.
//
// AutodiffBackend wraps a Backend implementation and records every
// differentiable operation on a GradientTape during the forward pass.
// Walking the tape in reverse applies the chain rule and yields a
// gradient for every tensor that participated.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	// ... forward pass ...
//	grads := backend.Tape().Backward(lossGrad, backend)
package autodiff

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/autodiff/ops"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds gradient tracking.
// It satisfies tensor.Backend itself, so tensors built on it use the
// wrapped backend for computation while the tape records the graph.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates an AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Add performs element-wise addition and records the operation.
//
// ForceNonUnique pins the input buffers so the wrapped backend cannot
// take its inplace fast path, which would corrupt tensors still
// referenced by the recorded graph.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Add(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(a, c, result))
	}

	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Sub(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(a, c, result))
	}

	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Mul(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(a, c, result))
	}

	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Div(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(a, c, result))
	}

	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(a, c *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.MatMul(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(a, c, result))
	}

	return result
}

// Conv1D performs 1D convolution and records the operation.
func (b *AutodiffBackend[B]) Conv1D(input, kernel *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	defer input.ForceNonUnique()()
	defer kernel.ForceNonUnique()()

	result := b.inner.Conv1D(input, kernel, stride, padLeft, padRight)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewConv1DOp(input, kernel, result, stride, padLeft, padRight))
	}

	return result
}

// Conv1DInputBackward delegates to the wrapped backend. Gradient
// computations themselves are not differentiated.
func (b *AutodiffBackend[B]) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	return b.inner.Conv1DInputBackward(input, kernel, grad, stride, padLeft, padRight)
}

// Conv1DKernelBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	return b.inner.Conv1DKernelBackward(input, kernel, grad, stride, padLeft, padRight)
}

// MaxPool1D performs 1D max pooling and records the operation.
func (b *AutodiffBackend[B]) MaxPool1D(input *tensor.RawTensor, kernelSize, stride, padLeft, padRight int) *tensor.RawTensor {
	defer input.ForceNonUnique()()

	result := b.inner.MaxPool1D(input, kernelSize, stride, padLeft, padRight)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMaxPool1DOp(input, result, kernelSize, stride, padLeft, padRight))
	}

	return result
}

// MaxPool1DBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) MaxPool1DBackward(input, grad *tensor.RawTensor, kernelSize, stride, padLeft, padRight int) *tensor.RawTensor {
	return b.inner.MaxPool1DBackward(input, grad, kernelSize, stride, padLeft, padRight)
}

// Reshape reshapes a tensor and records the operation so gradients can
// flow back to parameters that were reshaped for broadcasting.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	result := b.inner.Reshape(t, newShape)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}

	return result
}

// Transpose permutes axes and records the operation. Even though
// transpose is conceptually a view, the wrapped backend materializes a
// new tensor, so without recording the optimizer would never see a
// gradient for the original parameter.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	defer t.ForceNonUnique()()

	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	result := b.inner.Transpose(t, axes...)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(t, result, axes))
	}

	return result
}

// Cat concatenates tensors along a dimension and records the operation.
func (b *AutodiffBackend[B]) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	for _, t := range tensors {
		defer t.ForceNonUnique()()
	}

	result := b.inner.Cat(tensors, dim)

	if b.tape.IsRecording() {
		actualDim := dim
		if actualDim < 0 {
			actualDim = len(result.Shape()) + actualDim
		}
		sizes := make([]int, len(tensors))
		for i, t := range tensors {
			sizes[i] = t.Shape()[actualDim]
		}
		b.tape.Record(ops.NewCatOp(tensors, actualDim, sizes, result))
	}

	return result
}

// Narrow delegates to the wrapped backend. It is only used for
// gradient splitting and never appears in a recorded forward pass.
func (b *AutodiffBackend[B]) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	return b.inner.Narrow(x, dim, start, length)
}

// Sum reduces all elements and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sum(x)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumOp(x, result))
	}

	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.SumDim(x, dim, keepDim)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSumDimOp(x, result, dim, keepDim))
	}

	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.MeanDim(x, dim, keepDim)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMeanDimOp(x, result, dim, keepDim))
	}

	return result
}

// Sqrt computes the element-wise square root and records the operation.
func (b *AutodiffBackend[B]) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result := b.inner.Sqrt(x)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSqrtOp(x, result))
	}

	return result
}

// ReLU applies max(0, x) and records the operation.
func (b *AutodiffBackend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	defer x.ForceNonUnique()()

	result, err := tensor.NewRaw(x.Shape(), x.DType(), b.Device())
	if err != nil {
		panic(fmt.Sprintf("relu: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		reluForward(x.AsFloat32(), result.AsFloat32())
	case tensor.Float64:
		reluForward(x.AsFloat64(), result.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReLUOp(x, result))
	}

	return result
}

func reluForward[T float32 | float64](src, dst []T) {
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
}

// MSE computes mean squared error loss and records the operation.
//
// Returns a single-element tensor. The target is treated as a constant
// and receives no gradient.
func (b *AutodiffBackend[B]) MSE(pred, target *tensor.RawTensor) *tensor.RawTensor {
	defer pred.ForceNonUnique()()

	result := ops.MSEForward(pred, target, b.Device())

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMSEOp(pred, target, result))
	}

	return result
}
