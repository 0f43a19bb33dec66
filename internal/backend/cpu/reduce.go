package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (cpu *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{1}, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		floatData[float32](result)[0] = sumAll(floatData[float32](x))
	case tensor.Float64:
		floatData[float64](result)[0] = sumAll(floatData[float64](x))
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumAll[T floats](data []T) T {
	var sum T
	for _, v := range data {
		sum += v
	}
	return sum
}

// SumDim sums tensor elements along the specified dimension.
// Negative dim indexes from the end (-1 is the last dimension).
// With keepDim the reduced dimension stays with size 1, otherwise it
// is removed from the output shape.
func (cpu *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for i := 0; i < ndim; i++ {
			if i != dim {
				outShape = append(outShape, shape[i])
			}
		}
	}

	result := mustNewRaw(outShape, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		sumDimKernel(floatData[float32](x), floatData[float32](result), shape, dim)
	case tensor.Float64:
		sumDimKernel(floatData[float64](x), floatData[float64](result), shape, dim)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	return result
}

// sumDimKernel views the tensor as [outer, dimSize, inner] and
// accumulates over the middle axis.
func sumDimKernel[T floats](data, result []T, shape tensor.Shape, dim int) {
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	dimSize := shape[dim]
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	for i := range result {
		result[i] = 0
	}

	for o := 0; o < outer; o++ {
		outBase := o * inner
		for d := 0; d < dimSize; d++ {
			src := data[(o*dimSize+d)*inner : (o*dimSize+d+1)*inner]
			dst := result[outBase : outBase+inner]
			for i, v := range src {
				dst[i] += v
			}
		}
	}
}

// MeanDim computes the mean along the specified dimension.
func (cpu *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := cpu.SumDim(x, dim, keepDim)

	shape := x.Shape()
	if dim < 0 {
		dim = len(shape) + dim
	}
	divisor := shape[dim]

	switch result.DType() {
	case tensor.Float32:
		scaleInv(floatData[float32](result), float32(divisor))
	case tensor.Float64:
		scaleInv(floatData[float64](result), float64(divisor))
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %s", result.DType()))
	}

	return result
}

func scaleInv[T floats](data []T, divisor T) {
	for i := range data {
		data[i] /= divisor
	}
}
