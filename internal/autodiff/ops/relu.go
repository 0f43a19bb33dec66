package ops

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// ReLUOp represents the rectified linear unit: output = max(0, x).
//
// Backward: d(ReLU(x))/dx = 1 if x > 0, else 0. The gradient is the
// output gradient masked by the sign of the input.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{
		input:  input,
		output: output,
	}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := reluMask(op.input, backend)
	gradInput := backend.Mul(outputGrad, mask)

	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor [x].
func (op *ReLUOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor max(0, x).
func (op *ReLUOp) Output() *tensor.RawTensor {
	return op.output
}

// reluMask builds a binary mask with 1 where input > 0.
func reluMask(input *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	mask, err := tensor.NewRaw(input.Shape(), input.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("relu: failed to create mask: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		maskKernel(input.AsFloat32(), mask.AsFloat32())
	case tensor.Float64:
		maskKernel(input.AsFloat64(), mask.AsFloat64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", input.DType()))
	}

	return mask
}

func maskKernel[T float32 | float64](input, mask []T) {
	for i, v := range input {
		if v > 0 {
			mask[i] = 1
		}
	}
}
