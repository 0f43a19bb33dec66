package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// CatOp represents concatenation of tensors along a dimension.
//
// Backward: the output gradient is split along the concatenation
// dimension at the original input boundaries, and each input receives
// the slice matching its contribution.
type CatOp struct {
	inputs []*tensor.RawTensor
	dim    int
	sizes  []int // size of each input along the concat dimension
	output *tensor.RawTensor
}

// NewCatOp creates a new CatOp.
func NewCatOp(inputs []*tensor.RawTensor, dim int, sizes []int, output *tensor.RawTensor) *CatOp {
	return &CatOp{
		inputs: inputs,
		dim:    dim,
		sizes:  sizes,
		output: output,
	}
}

// Inputs returns the concatenated input tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated output tensor.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward splits the output gradient back into per-input slices.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.inputs))

	offset := 0
	for i, size := range op.sizes {
		grads[i] = backend.Narrow(outputGrad, op.dim, offset, size)
		offset += size
	}

	return grads
}
