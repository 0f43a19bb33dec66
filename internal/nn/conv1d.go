package nn

import (
	"fmt"
	"math/rand"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Padding selects how a Conv1D or MaxPool1D layer pads its input.
type Padding int

const (
	// PaddingValid applies no padding; the output is shorter than the input.
	PaddingValid Padding = iota

	// PaddingSame pads so that with stride 1 the output length equals the
	// input length. For even kernel sizes the extra padding element goes
	// on the right.
	PaddingSame
)

// samePadding returns the left and right padding for 'same' semantics.
func samePadding(kernelSize int) (left, right int) {
	return (kernelSize - 1) / 2, kernelSize / 2
}

// Conv1D is a 1D convolutional layer over channels-first sequences.
//
// Input shape:  [batch, in_channels, length]
// Weight shape: [out_channels, in_channels, kernel_size]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_length]
//
// Weights use Glorot uniform initialization, biases start at zero.
type Conv1D[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	kernelSize  int
	stride      int
	padding     Padding
	useBias     bool

	weight *Parameter[B]
	bias   *Parameter[B] // nil when useBias is false

	backend B
}

// NewConv1D creates a 1D convolutional layer.
func NewConv1D[B tensor.Backend](
	inChannels, outChannels, kernelSize, stride int,
	padding Padding,
	useBias bool,
	rng *rand.Rand,
	backend B,
) *Conv1D[B] {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv1d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("conv1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv1d: invalid stride %d", stride))
	}

	weightShape := tensor.Shape{outChannels, inChannels, kernelSize}
	fanIn := inChannels * kernelSize
	fanOut := outChannels * kernelSize
	weight := NewParameter("weight", GlorotUniform(fanIn, fanOut, weightShape, rng, backend))

	var bias *Parameter[B]
	if useBias {
		bias = NewParameter("bias", Zeros(tensor.Shape{outChannels}, backend))
	}

	return &Conv1D[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  kernelSize,
		stride:      stride,
		padding:     padding,
		useBias:     useBias,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the convolution.
func (c *Conv1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		panic(fmt.Sprintf("conv1d: expected 3D input [N,C,L], got %dD", len(inputShape)))
	}
	if inputShape[1] != c.inChannels {
		panic(fmt.Sprintf("conv1d: input channels %d != expected %d", inputShape[1], c.inChannels))
	}

	padLeft, padRight := 0, 0
	if c.padding == PaddingSame {
		padLeft, padRight = samePadding(c.kernelSize)
	}

	outputRaw := c.backend.Conv1D(input.Raw(), c.weight.Tensor().Raw(), c.stride, padLeft, padRight)
	output := tensor.New[float32, B](outputRaw, c.backend)

	if c.useBias {
		biasReshaped := c.bias.Tensor().Reshape(1, c.outChannels, 1)
		output = output.Add(biasReshaped)
	}

	return output
}

// Parameters returns the trainable parameters.
func (c *Conv1D[B]) Parameters() []*Parameter[B] {
	if c.useBias {
		return []*Parameter[B]{c.weight, c.bias}
	}
	return []*Parameter[B]{c.weight}
}

// StateDict returns the layer parameters by name.
func (c *Conv1D[B]) StateDict() map[string]*tensor.RawTensor {
	state := map[string]*tensor.RawTensor{
		"weight": c.weight.Tensor().Raw(),
	}
	if c.useBias {
		state["bias"] = c.bias.Tensor().Raw()
	}
	return state
}

// LoadStateDict restores the layer parameters.
func (c *Conv1D[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadParam(state, "weight", c.weight); err != nil {
		return err
	}
	if c.useBias {
		return loadParam(state, "bias", c.bias)
	}
	return nil
}

// OutChannels returns the number of output channels.
func (c *Conv1D[B]) OutChannels() int {
	return c.outChannels
}

// String describes the layer configuration.
func (c *Conv1D[B]) String() string {
	return fmt.Sprintf("Conv1D(in_channels=%d, out_channels=%d, kernel_size=%d, stride=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize, c.stride, c.useBias)
}
