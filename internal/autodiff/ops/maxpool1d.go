package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// MaxPool1DOp records a 1D max pooling operation for autodiff.
//
// Backward: the gradient of each output element flows only to the input
// position that held the window maximum. The backend recomputes the
// argmax from the stored input during the backward pass.
type MaxPool1DOp struct {
	input      *tensor.RawTensor
	output     *tensor.RawTensor
	kernelSize int
	stride     int
	padLeft    int
	padRight   int
}

// NewMaxPool1DOp creates a new MaxPool1D operation.
func NewMaxPool1DOp(input, output *tensor.RawTensor, kernelSize, stride, padLeft, padRight int) *MaxPool1DOp {
	return &MaxPool1DOp{
		input:      input,
		output:     output,
		kernelSize: kernelSize,
		stride:     stride,
		padLeft:    padLeft,
		padRight:   padRight,
	}
}

// Inputs returns the input tensor.
func (op *MaxPool1DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *MaxPool1DOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward routes gradients to winning input positions via the backend.
func (op *MaxPool1DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.MaxPool1DBackward(op.input, outputGrad, op.kernelSize, op.stride, op.padLeft, op.padRight)

	return []*tensor.RawTensor{inputGrad}
}
