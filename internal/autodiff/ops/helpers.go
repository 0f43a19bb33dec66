package ops

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// reduceBroadcast reduces a gradient tensor to a target input shape,
// undoing any broadcasting applied during the forward pass. NumPy-style
// broadcasting aligns shapes from the right, so leading dimensions are
// summed away and size-1 dimensions are summed with keepDim.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()

	// Clone when shapes match so inplace binary ops cannot corrupt a
	// gradient shared between operations.
	if gradShape.Equal(targetShape) {
		return grad.Clone()
	}

	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	resultShape := result.Shape()
	for i := 0; i < len(targetShape); i++ {
		if targetShape[i] == 1 && resultShape[i] > 1 {
			result = backend.SumDim(result, i, true)
			resultShape = result.Shape()
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}

	return result
}

// broadcastTo expands a tensor to a larger target shape by repeating
// size-1 dimensions. Used by reduction backwards where the gradient of
// a reduced tensor flows to every element that was summed.
func broadcastTo(t *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	if t.Shape().Equal(targetShape) {
		return t.Clone()
	}

	result, err := tensor.NewRaw(targetShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("broadcastTo: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		broadcastKernel(t.AsFloat32(), result.AsFloat32(), t.Shape(), targetShape)
	case tensor.Float64:
		broadcastKernel(t.AsFloat64(), result.AsFloat64(), t.Shape(), targetShape)
	default:
		panic(fmt.Sprintf("broadcastTo: unsupported dtype %s", t.DType()))
	}

	return result
}

func broadcastKernel[T float32 | float64](src, dst []T, srcShape, dstShape tensor.Shape) {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := dstShape.ComputeStrides()

	for i := range dst {
		srcIdx := 0
		temp := i
		for d := 0; d < len(dstShape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]

			srcDim := d - (len(dstShape) - len(srcShape))
			if srcDim >= 0 {
				if srcShape[srcDim] == 1 {
					coord = 0
				}
				srcIdx += coord * srcStrides[srcDim]
			}
		}
		dst[i] = src[srcIdx]
	}
}

// unsqueezeShape inserts a size-1 dimension at position dim relative to
// the original (pre-reduction) shape.
func unsqueezeShape(reduced tensor.Shape, dim, origNDim int) tensor.Shape {
	if dim < 0 {
		dim = origNDim + dim
	}
	newShape := make(tensor.Shape, 0, len(reduced)+1)
	newShape = append(newShape, reduced[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, reduced[dim:]...)
	return newShape
}

// negate returns -grad without recording on any tape.
func negate(grad *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	zeros, err := tensor.NewRaw(grad.Shape(), grad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("negate: %v", err))
	}
	return backend.Sub(zeros, grad)
}

// fill creates a tensor of the given shape with every element set to v.
func fill(shape tensor.Shape, dtype tensor.DataType, v float64, device tensor.Device) *tensor.RawTensor {
	result, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("fill: %v", err))
	}

	switch dtype {
	case tensor.Float32:
		data := result.AsFloat32()
		for i := range data {
			data[i] = float32(v)
		}
	case tensor.Float64:
		data := result.AsFloat64()
		for i := range data {
			data[i] = v
		}
	default:
		panic(fmt.Sprintf("fill: unsupported dtype %s", dtype))
	}

	return result
}
