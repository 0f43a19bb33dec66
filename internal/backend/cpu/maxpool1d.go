package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/parallel"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// MaxPool1D performs 1D max pooling over the last dimension.
//
// Input shape:  [batch, channels, length]
// Output shape: [batch, channels, out_length]
//
//	out_length = (length + padLeft + padRight - kernelSize) / stride + 1
//
// Padded positions participate only in window placement, never in the
// max itself, so a window hanging over the border takes the maximum of
// its valid elements. That matches 'same'-padded pooling where borders
// must not be dragged toward zero.
func (cpu *Backend) MaxPool1D(input *tensor.RawTensor, kernelSize, stride, padLeft, padRight int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		panic(fmt.Sprintf("maxpool1d: expected 3D input [N,C,L], got %dD", len(inputShape)))
	}

	n := inputShape[0]
	c := inputShape[1]
	length := inputShape[2]

	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid stride %d", stride))
	}

	lOut := (length+padLeft+padRight-kernelSize)/stride + 1
	if lOut <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid output length %d (kernel=%d, stride=%d, input length=%d)",
			lOut, kernelSize, stride, length))
	}

	output := mustNewRaw(tensor.Shape{n, c, lOut}, input.DType(), cpu.device)

	switch input.DType() {
	case tensor.Float32:
		maxpool1dKernel(
			floatData[float32](output), floatData[float32](input),
			n, c, length, lOut, kernelSize, stride, padLeft, cpu.par,
		)
	case tensor.Float64:
		maxpool1dKernel(
			floatData[float64](output), floatData[float64](input),
			n, c, length, lOut, kernelSize, stride, padLeft, cpu.par,
		)
	default:
		panic(fmt.Sprintf("maxpool1d: unsupported dtype %s", input.DType()))
	}

	return output
}

func maxpool1dKernel[T floats](
	output, input []T,
	n, c, length, lOut, kernelSize, stride, padLeft int,
	par parallel.Config,
) {
	parallel.ForBatch(n, c, func(batch, chn int) {
		inRow := input[(batch*c+chn)*length : (batch*c+chn+1)*length]
		outRow := output[(batch*c+chn)*lOut : (batch*c+chn+1)*lOut]

		for out := range outRow {
			start := out*stride - padLeft
			lo := max(start, 0)
			hi := min(start+kernelSize, length)

			best := inRow[lo]
			for pos := lo + 1; pos < hi; pos++ {
				if inRow[pos] > best {
					best = inRow[pos]
				}
			}
			outRow[out] = best
		}
	}, par)
}

// MaxPool1DBackward routes each output gradient to the input position
// that won the corresponding pooling window. The argmax is recomputed
// from the input rather than stored during the forward pass.
func (cpu *Backend) MaxPool1DBackward(input, grad *tensor.RawTensor, kernelSize, stride, padLeft, padRight int) *tensor.RawTensor {
	inputShape := input.Shape()
	gradShape := grad.Shape()

	n := inputShape[0]
	c := inputShape[1]
	length := inputShape[2]
	lOut := gradShape[2]

	inputGrad := mustNewRaw(tensor.Shape{n, c, length}, grad.DType(), cpu.device)

	switch grad.DType() {
	case tensor.Float32:
		maxpool1dBackwardKernel(
			floatData[float32](inputGrad), floatData[float32](grad), floatData[float32](input),
			n, c, length, lOut, kernelSize, stride, padLeft, cpu.par,
		)
	case tensor.Float64:
		maxpool1dBackwardKernel(
			floatData[float64](inputGrad), floatData[float64](grad), floatData[float64](input),
			n, c, length, lOut, kernelSize, stride, padLeft, cpu.par,
		)
	default:
		panic(fmt.Sprintf("maxpool1d backward: unsupported dtype %s", grad.DType()))
	}

	return inputGrad
}

func maxpool1dBackwardKernel[T floats](
	inputGrad, grad, input []T,
	n, c, length, lOut, kernelSize, stride, padLeft int,
	par parallel.Config,
) {
	parallel.ForBatch(n, c, func(batch, chn int) {
		inRow := input[(batch*c+chn)*length : (batch*c+chn+1)*length]
		gradRow := grad[(batch*c+chn)*lOut : (batch*c+chn+1)*lOut]
		inGradRow := inputGrad[(batch*c+chn)*length : (batch*c+chn+1)*length]

		for out, gv := range gradRow {
			start := out*stride - padLeft
			lo := max(start, 0)
			hi := min(start+kernelSize, length)

			bestPos := lo
			for pos := lo + 1; pos < hi; pos++ {
				if inRow[pos] > inRow[bestPos] {
					bestPos = pos
				}
			}
			inGradRow[bestPos] += gv
		}
	}, par)
}
