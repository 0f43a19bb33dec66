package nn

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// MaxPool1D slides a max window over the length dimension.
//
// Input shape:  [batch, channels, length]
// Output shape: [batch, channels, out_length]
type MaxPool1D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	padding    Padding

	backend B
}

// NewMaxPool1D creates a max pooling layer.
func NewMaxPool1D[B tensor.Backend](kernelSize, stride int, padding Padding, backend B) *MaxPool1D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool1d: invalid stride %d", stride))
	}

	return &MaxPool1D[B]{
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		backend:    backend,
	}
}

// Forward applies the pooling window.
func (m *MaxPool1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 3 {
		panic(fmt.Sprintf("maxpool1d: expected 3D input [N,C,L], got %dD", len(input.Shape())))
	}

	padLeft, padRight := 0, 0
	if m.padding == PaddingSame {
		padLeft, padRight = samePadding(m.kernelSize)
	}

	outputRaw := m.backend.MaxPool1D(input.Raw(), m.kernelSize, m.stride, padLeft, padRight)
	return tensor.New[float32, B](outputRaw, m.backend)
}

// Parameters returns nil; pooling has no trainable parameters.
func (m *MaxPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (m *MaxPool1D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for parameter-free modules.
func (m *MaxPool1D[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}

// GlobalAvgPool1D averages each channel over the full length dimension,
// collapsing [batch, channels, length] to [batch, channels].
type GlobalAvgPool1D[B tensor.Backend] struct{}

// NewGlobalAvgPool1D creates a global average pooling layer.
func NewGlobalAvgPool1D[B tensor.Backend]() *GlobalAvgPool1D[B] {
	return &GlobalAvgPool1D[B]{}
}

// Forward averages over the length dimension.
func (g *GlobalAvgPool1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(input.Shape()) != 3 {
		panic(fmt.Sprintf("globalavgpool1d: expected 3D input [N,C,L], got %dD", len(input.Shape())))
	}

	return input.MeanDim(2, false)
}

// Parameters returns nil.
func (g *GlobalAvgPool1D[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (g *GlobalAvgPool1D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for parameter-free modules.
func (g *GlobalAvgPool1D[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
