package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// MeanDimOp represents a mean reduction along a dimension.
//
// Backward: broadcast the output gradient back to the input shape and
// divide by the size of the reduced dimension.
type MeanDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor
	dim     int
	keepDim bool
	dimSize int
}

// NewMeanDimOp creates a new MeanDimOp.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	actualDim := dim
	if actualDim < 0 {
		actualDim = len(x.Shape()) + actualDim
	}

	return &MeanDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
		dimSize: x.Shape()[actualDim],
	}
}

// Backward computes the input gradient for the mean reduction.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := outputGrad

	if !op.keepDim {
		shape := unsqueezeShape(grad.Shape(), op.dim, len(x.Shape()))
		grad = backend.Reshape(grad, shape)
	}

	gradX := broadcastTo(grad, x.Shape())

	divisor := fill(x.Shape(), gradX.DType(), float64(op.dimSize), backend.Device())
	gradX = backend.Div(gradX, divisor)

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *MeanDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor mean(x, dim).
func (op *MeanDimOp) Output() *tensor.RawTensor {
	return op.output
}
