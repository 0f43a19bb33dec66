package nn

import (
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// ReLUBackend is satisfied by backends that implement the ReLU
// activation as a recorded operation.
type ReLUBackend interface {
	ReLU(*tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies the element-wise function f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies the activation.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()

	reluBackend, ok := any(backend).(ReLUBackend)
	if !ok {
		panic("relu: backend must implement the ReLU operation (use autodiff.AutodiffBackend)")
	}

	resultRaw := reluBackend.ReLU(input.Raw())
	return tensor.New[float32, B](resultRaw, backend)
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// StateDict returns an empty map.
func (r *ReLU[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{}
}

// LoadStateDict is a no-op for parameter-free modules.
func (r *ReLU[B]) LoadStateDict(map[string]*tensor.RawTensor) error {
	return nil
}
