package nn

import (
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// MSEBackend is satisfied by backends that implement mean squared error
// as a recorded operation.
type MSEBackend interface {
	MSE(pred, target *tensor.RawTensor) *tensor.RawTensor
}

// MSELoss computes mean squared error: loss = mean((pred - target)²).
//
// The standard regression loss. Targets are treated as constants and
// receive no gradient.
type MSELoss[B tensor.Backend] struct {
	backend B
}

// NewMSELoss creates an MSE loss function.
func NewMSELoss[B tensor.Backend](backend B) *MSELoss[B] {
	return &MSELoss[B]{backend: backend}
}

// Forward computes the scalar loss.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	mseBackend, ok := any(m.backend).(MSEBackend)
	if !ok {
		panic("mse: backend must implement the MSE operation (use autodiff.AutodiffBackend)")
	}

	lossRaw := mseBackend.MSE(predictions.Raw(), targets.Raw())
	return tensor.New[float32, B](lossRaw, m.backend)
}

// Parameters returns nil; loss functions have no trainable parameters.
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
