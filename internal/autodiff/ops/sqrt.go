package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// SqrtOp represents the element-wise square root: y = sqrt(x).
//
// Backward: d(sqrt(x))/dx = 0.5 / sqrt(x) = 0.5 / y.
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(input, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{
		input:  input,
		output: output,
	}
}

// Backward computes grad_input = outputGrad * 0.5 / output.
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	half := fill(op.output.Shape(), op.output.DType(), 0.5, backend.Device())

	gradInput := backend.Div(backend.Mul(outputGrad, half), op.output)

	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor [x].
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor sqrt(x).
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}
