package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/parallel"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Conv1DInputBackward computes the gradient w.r.t. the convolution input.
//
// Each output gradient element is distributed back to the input window
// it was computed from, scaled by the corresponding kernel weight.
func (cpu *Backend) Conv1DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()
	gradShape := grad.Shape()

	n := inputShape[0]
	cIn := inputShape[1]
	length := inputShape[2]
	cOut := kernelShape[0]
	k := kernelShape[2]
	lOut := gradShape[2]

	inputGrad := mustNewRaw(tensor.Shape{n, cIn, length}, grad.DType(), cpu.device)

	switch grad.DType() {
	case tensor.Float32:
		conv1dInputBackwardKernel(
			floatData[float32](inputGrad), floatData[float32](grad), floatData[float32](kernel),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	case tensor.Float64:
		conv1dInputBackwardKernel(
			floatData[float64](inputGrad), floatData[float64](grad), floatData[float64](kernel),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	default:
		panic(fmt.Sprintf("conv1d input backward: unsupported dtype %s", grad.DType()))
	}

	return inputGrad
}

// conv1dInputBackwardKernel parallelizes over batch samples so each
// goroutine accumulates into a disjoint slice of inputGrad.
func conv1dInputBackwardKernel[T floats](
	inputGrad, grad, kernel []T,
	n, cIn, length, cOut, k, lOut, stride, padLeft int,
	par parallel.Config,
) {
	parallel.For(n, func(batch int) {
		inputGradBatch := inputGrad[batch*cIn*length : (batch+1)*cIn*length]
		gradBatch := grad[batch*cOut*lOut : (batch+1)*cOut*lOut]

		for outChan := 0; outChan < cOut; outChan++ {
			gradPlane := gradBatch[outChan*lOut : (outChan+1)*lOut]
			kernelOut := kernel[outChan*cIn*k : (outChan+1)*cIn*k]

			for out, gv := range gradPlane {
				if gv == 0 {
					continue
				}
				start := out*stride - padLeft

				for inChan := 0; inChan < cIn; inChan++ {
					inGradRow := inputGradBatch[inChan*length : (inChan+1)*length]
					kRow := kernelOut[inChan*k : (inChan+1)*k]

					for i, kv := range kRow {
						pos := start + i
						if pos >= 0 && pos < length {
							inGradRow[pos] += gv * kv
						}
					}
				}
			}
		}
	}, par)
}

// Conv1DKernelBackward computes the gradient w.r.t. the kernel weights.
//
// Each kernel weight accumulates input*grad products over all batch
// samples and output positions that used it.
func (cpu *Backend) Conv1DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()
	gradShape := grad.Shape()

	n := inputShape[0]
	cIn := inputShape[1]
	length := inputShape[2]
	cOut := kernelShape[0]
	k := kernelShape[2]
	lOut := gradShape[2]

	kernelGrad := mustNewRaw(tensor.Shape{cOut, cIn, k}, grad.DType(), cpu.device)

	switch grad.DType() {
	case tensor.Float32:
		conv1dKernelBackwardKernel(
			floatData[float32](kernelGrad), floatData[float32](grad), floatData[float32](input),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	case tensor.Float64:
		conv1dKernelBackwardKernel(
			floatData[float64](kernelGrad), floatData[float64](grad), floatData[float64](input),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	default:
		panic(fmt.Sprintf("conv1d kernel backward: unsupported dtype %s", grad.DType()))
	}

	return kernelGrad
}

// conv1dKernelBackwardKernel parallelizes over (out_channel, in_channel)
// pairs; each pair owns a disjoint row of kernelGrad.
func conv1dKernelBackwardKernel[T floats](
	kernelGrad, grad, input []T,
	n, cIn, length, cOut, k, lOut, stride, padLeft int,
	par parallel.Config,
) {
	parallel.ForBatch(cOut, cIn, func(outChan, inChan int) {
		kGradRow := kernelGrad[(outChan*cIn+inChan)*k : (outChan*cIn+inChan+1)*k]

		for batch := 0; batch < n; batch++ {
			inRow := input[(batch*cIn+inChan)*length : (batch*cIn+inChan+1)*length]
			gradPlane := grad[(batch*cOut+outChan)*lOut : (batch*cOut+outChan+1)*lOut]

			for out, gv := range gradPlane {
				if gv == 0 {
					continue
				}
				start := out*stride - padLeft

				for i := range kGradRow {
					pos := start + i
					if pos >= 0 && pos < length {
						kGradRow[i] += inRow[pos] * gv
					}
				}
			}
		}
	}, par)
}
