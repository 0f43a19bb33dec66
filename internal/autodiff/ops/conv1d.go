package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// Conv1DOp records a 1D convolution for autodiff.
//
// Forward: output = Conv1D(input, kernel, stride, padLeft, padRight)
//
// Backward:
//   - input gradient: transposed convolution of the output gradient
//     with the kernel
//   - kernel gradient: correlation of the input with the output gradient
//
// Both are delegated to the backend, which owns the padding arithmetic.
type Conv1DOp struct {
	input    *tensor.RawTensor
	kernel   *tensor.RawTensor
	output   *tensor.RawTensor
	stride   int
	padLeft  int
	padRight int
}

// NewConv1DOp creates a new Conv1D operation.
func NewConv1DOp(input, kernel, output *tensor.RawTensor, stride, padLeft, padRight int) *Conv1DOp {
	return &Conv1DOp{
		input:    input,
		kernel:   kernel,
		output:   output,
		stride:   stride,
		padLeft:  padLeft,
		padRight: padRight,
	}
}

// Inputs returns the input tensors [input, kernel].
func (op *Conv1DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the output tensor.
func (op *Conv1DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for Conv1D by delegating to the backend.
func (op *Conv1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.Conv1DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padLeft, op.padRight)
	kernelGrad := backend.Conv1DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padLeft, op.padRight)

	return []*tensor.RawTensor{inputGrad, kernelGrad}
}
