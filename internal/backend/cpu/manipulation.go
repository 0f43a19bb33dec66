package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
//
// All tensors must share dtype and shape except along the concatenation
// dimension. Negative dim indexes from the end.
func (cpu *Backend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := mustNewRaw(outShape, dtype, cpu.device)

	switch dtype {
	case tensor.Float32:
		catKernel[float32](tensors, result, dim)
	case tensor.Float64:
		catKernel[float64](tensors, result, dim)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", dtype))
	}

	return result
}

// catKernel views every tensor as [outer, dimSize, inner] blocks and
// copies contiguous inner*dimSize runs into the interleaved output.
func catKernel[T floats](tensors []*tensor.RawTensor, result *tensor.RawTensor, dim int) {
	outData := floatData[T](result)
	outShape := result.Shape()

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	inner := 1
	for i := dim + 1; i < len(outShape); i++ {
		inner *= outShape[i]
	}
	outDimSize := outShape[dim]

	offset := 0
	for _, t := range tensors {
		data := floatData[T](t)
		dimSize := t.Shape()[dim]
		run := dimSize * inner

		for o := 0; o < outer; o++ {
			dst := outData[(o*outDimSize+offset)*inner : (o*outDimSize+offset)*inner+run]
			copy(dst, data[o*run:(o+1)*run])
		}

		offset += dimSize
	}
}

// Narrow returns a copy of the slice [start, start+length) along the
// specified dimension. Negative dim indexes from the end.
func (cpu *Backend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("narrow: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension size %d", start, start+length, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	result := mustNewRaw(outShape, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		narrowKernel[float32](result, x, dim, start, length)
	case tensor.Float64:
		narrowKernel[float64](result, x, dim, start, length)
	default:
		panic(fmt.Sprintf("narrow: unsupported dtype %s", x.DType()))
	}

	return result
}

func narrowKernel[T floats](result, x *tensor.RawTensor, dim, start, length int) {
	srcData := floatData[T](x)
	dstData := floatData[T](result)
	shape := x.Shape()

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	dimSize := shape[dim]
	run := length * inner

	for o := 0; o < outer; o++ {
		src := srcData[(o*dimSize+start)*inner : (o*dimSize+start)*inner+run]
		copy(dstData[o*run:(o+1)*run], src)
	}
}
