package cpu

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/parallel"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Conv1D performs 1D convolution over the last dimension.
//
// Input shape: [batch, in_channels, length]
// Kernel shape: [out_channels, in_channels, kernel_size]
// Output shape: [batch, out_channels, out_length]
//
// Padding is explicit per side. Keras-style 'same' padding for even
// kernel sizes puts the extra element on the right, so callers pass
// padLeft=(K-1)/2, padRight=K/2.
//
// out_length = (length + padLeft + padRight - kernel_size) / stride + 1
func (cpu *Backend) Conv1D(input, kernel *tensor.RawTensor, stride, padLeft, padRight int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 3 {
		panic(fmt.Sprintf("conv1d: input must be 3D [N,C,L], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 3 {
		panic(fmt.Sprintf("conv1d: kernel must be 3D [C_out,C_in,K], got %dD", len(kernelShape)))
	}

	n := inputShape[0]
	cIn := inputShape[1]
	length := inputShape[2]
	cOut := kernelShape[0]
	k := kernelShape[2]

	if cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv1d: input channels %d != kernel channels %d", cIn, kernelShape[1]))
	}

	lOut := (length+padLeft+padRight-k)/stride + 1
	if lOut <= 0 {
		panic(fmt.Sprintf("conv1d: invalid output length %d (check stride/padding)", lOut))
	}

	output := mustNewRaw(tensor.Shape{n, cOut, lOut}, input.DType(), cpu.device)

	switch input.DType() {
	case tensor.Float32:
		conv1dKernel(
			floatData[float32](output), floatData[float32](input), floatData[float32](kernel),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	case tensor.Float64:
		conv1dKernel(
			floatData[float64](output), floatData[float64](input), floatData[float64](kernel),
			n, cIn, length, cOut, k, lOut, stride, padLeft, cpu.par,
		)
	default:
		panic(fmt.Sprintf("conv1d: unsupported dtype %s", input.DType()))
	}

	return output
}

// conv1dKernel computes one output plane per (batch, out_channel) pair,
// parallelized across pairs. The interior region where the window never
// leaves the input runs without bounds checks.
func conv1dKernel[T floats](
	output, input, kernel []T,
	n, cIn, length, cOut, k, lOut, stride, padLeft int,
	par parallel.Config,
) {
	parallel.ForBatch(n, cOut, func(batch, outChan int) {
		outPlane := output[(batch*cOut+outChan)*lOut : (batch*cOut+outChan+1)*lOut]
		inputBatch := input[batch*cIn*length : (batch+1)*cIn*length]
		kernelOut := kernel[outChan*cIn*k : (outChan+1)*cIn*k]

		for out := 0; out < lOut; out++ {
			start := out*stride - padLeft
			var sum T

			if start >= 0 && start+k <= length {
				// Interior: full window inside the input.
				for inChan := 0; inChan < cIn; inChan++ {
					inRow := inputBatch[inChan*length+start : inChan*length+start+k]
					kRow := kernelOut[inChan*k : (inChan+1)*k]
					for i, kv := range kRow {
						sum += inRow[i] * kv
					}
				}
			} else {
				// Border: clip the window to valid input positions.
				for inChan := 0; inChan < cIn; inChan++ {
					inRow := inputBatch[inChan*length : (inChan+1)*length]
					kRow := kernelOut[inChan*k : (inChan+1)*k]
					for i, kv := range kRow {
						pos := start + i
						if pos >= 0 && pos < length {
							sum += inRow[pos] * kv
						}
					}
				}
			}

			outPlane[out] = sum
		}
	}, par)
}
