package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// floats constrains the element types the math kernels operate on.
type floats interface {
	~float32 | ~float64
}

// binOp identifies an element-wise binary operation.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func (op binOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

// floatData returns the typed view of a raw tensor for a float kernel.
func floatData[T floats](r *tensor.RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(r.AsFloat32()).([]T)
	case float64:
		return any(r.AsFloat64()).([]T)
	default:
		panic("floatData: unsupported type")
	}
}

func binaryVectorized(result, a, b *tensor.RawTensor, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		binaryKernel(floatData[float32](result), floatData[float32](a), floatData[float32](b), op)
	case tensor.Float64:
		binaryKernel(floatData[float64](result), floatData[float64](a), floatData[float64](b), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
}

func binaryInplace(a, b *tensor.RawTensor, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		data := floatData[float32](a)
		binaryKernel(data, data, floatData[float32](b), op)
	case tensor.Float64:
		data := floatData[float64](a)
		binaryKernel(data, data, floatData[float64](b), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
}

func binaryKernel[T floats](dst, a, b []T, op binOp) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// binaryBroadcast computes an element-wise operation where a and/or b
// are broadcast to outShape. Broadcast dimensions get stride 0 so the
// same source element repeats along them.
func binaryBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape, op binOp) {
	switch a.DType() {
	case tensor.Float32:
		broadcastKernel(floatData[float32](result), floatData[float32](a), floatData[float32](b),
			outShape, a.Shape(), b.Shape(), op)
	case tensor.Float64:
		broadcastKernel(floatData[float64](result), floatData[float64](a), floatData[float64](b),
			outShape, a.Shape(), b.Shape(), op)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
}

// broadcastStrides aligns shape to the right against outShape and
// returns per-output-dimension strides, with 0 on broadcast dimensions.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	out := make([]int, len(outShape))
	offset := len(outShape) - len(shape)
	for d := range outShape {
		if d < offset {
			out[d] = 0
			continue
		}
		if shape[d-offset] == 1 && outShape[d] > 1 {
			out[d] = 0
		} else {
			out[d] = strides[d-offset]
		}
	}
	return out
}

func broadcastKernel[T floats](dst, a, b []T, outShape, aShape, bShape tensor.Shape, op binOp) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx, bIdx := 0, 0
		rem := i
		for d := 0; d < len(outShape); d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			aIdx += coord * aStrides[d]
			bIdx += coord * bStrides[d]
		}

		switch op {
		case opAdd:
			dst[i] = a[aIdx] + b[bIdx]
		case opSub:
			dst[i] = a[aIdx] - b[bIdx]
		case opMul:
			dst[i] = a[aIdx] * b[bIdx]
		case opDiv:
			dst[i] = a[aIdx] / b[bIdx]
		}
	}
}
