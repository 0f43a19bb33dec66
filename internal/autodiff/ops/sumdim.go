package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// SumDimOp represents a sum reduction along a dimension.
//
// Backward: every input element contributed with weight 1, so the
// output gradient is broadcast back to the input shape.
type SumDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{
		inputs:  []*tensor.RawTensor{x},
		output:  output,
		dim:     dim,
		keepDim: keepDim,
	}
}

// Backward broadcasts the output gradient back to the input shape.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := outputGrad

	if !op.keepDim {
		shape := unsqueezeShape(grad.Shape(), op.dim, len(x.Shape()))
		grad = backend.Reshape(grad, shape)
	}

	gradX := broadcastTo(grad, x.Shape())

	return []*tensor.RawTensor{gradX}
}

// Inputs returns the input tensors [x].
func (op *SumDimOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor sum(x, dim).
func (op *SumDimOp) Output() *tensor.RawTensor {
	return op.output
}

// SumOp represents a full reduction of all elements to a single value.
//
// Backward: the scalar gradient flows uniformly to every input element.
type SumOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{
		inputs: []*tensor.RawTensor{x},
		output: output,
	}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]

	ones := make(tensor.Shape, len(x.Shape()))
	for i := range ones {
		ones[i] = 1
	}
	grad := backend.Reshape(outputGrad, ones)

	return []*tensor.RawTensor{broadcastTo(grad, x.Shape())}
}

// Inputs returns the input tensors [x].
func (op *SumOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the single-element output tensor.
func (op *SumOp) Output() *tensor.RawTensor {
	return op.output
}
