package ops

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// MSEOp represents mean squared error loss for regression.
//
// Forward:
//
//	loss = mean((pred - target)²)
//
// Backward:
//
//	∂loss/∂pred = 2 * (pred - target) / N
//
// The target carries no gradient, so Inputs() exposes only pred.
type MSEOp struct {
	pred   *tensor.RawTensor
	target *tensor.RawTensor
	output *tensor.RawTensor // [1]
}

// NewMSEOp creates a new MSEOp.
func NewMSEOp(pred, target, output *tensor.RawTensor) *MSEOp {
	return &MSEOp{
		pred:   pred,
		target: target,
		output: output,
	}
}

// MSEForward computes the scalar mean squared error between pred and target.
func MSEForward(pred, target *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	if !pred.Shape().Equal(target.Shape()) {
		panic(fmt.Sprintf("mse: shape mismatch %v vs %v", pred.Shape(), target.Shape()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, pred.DType(), device)
	if err != nil {
		panic(fmt.Sprintf("mse: %v", err))
	}

	switch pred.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = mseKernel(pred.AsFloat32(), target.AsFloat32())
	case tensor.Float64:
		result.AsFloat64()[0] = mseKernel(pred.AsFloat64(), target.AsFloat64())
	default:
		panic(fmt.Sprintf("mse: unsupported dtype %s", pred.DType()))
	}

	return result
}

func mseKernel[T float32 | float64](pred, target []T) T {
	var sum T
	for i, p := range pred {
		d := p - target[i]
		sum += d * d
	}
	return sum / T(len(pred))
}

// Backward computes the prediction gradient.
func (op *MSEOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := op.pred.NumElements()

	gradPred, err := tensor.NewRaw(op.pred.Shape(), op.pred.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("mse backward: %v", err))
	}

	switch op.pred.DType() {
	case tensor.Float32:
		mseBackwardKernel(gradPred.AsFloat32(), op.pred.AsFloat32(), op.target.AsFloat32(), outputGrad.AsFloat32()[0], n)
	case tensor.Float64:
		mseBackwardKernel(gradPred.AsFloat64(), op.pred.AsFloat64(), op.target.AsFloat64(), outputGrad.AsFloat64()[0], n)
	default:
		panic(fmt.Sprintf("mse backward: unsupported dtype %s", op.pred.DType()))
	}

	return []*tensor.RawTensor{gradPred}
}

func mseBackwardKernel[T float32 | float64](grad, pred, target []T, outGrad T, n int) {
	scale := outGrad * 2 / T(n)
	for i, p := range pred {
		grad[i] = scale * (p - target[i])
	}
}

// Inputs returns [pred]; targets are constants.
func (op *MSEOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.pred}
}

// Output returns the scalar loss tensor.
func (op *MSEOp) Output() *tensor.RawTensor {
	return op.output
}
