// Package optim implements optimization algorithms for training networks.
//
// The only algorithm shipped today is Adam, which is what the regressors
// in this library train with. Optimizers consume the gradient map produced
// by autodiff.Backward and update parameters in place.
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{
//	    LR: 0.001,
//	}, backend)
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    optimizer.ZeroGrad()
//	    loss := lossFn.Forward(model.Forward(input), targets)
//	    grads := autodiff.Backward(loss, backend)
//	    optimizer.Step(grads)
//	}
package optim

import (
	"github.com/mobiuscreek/sktime-dl/internal/nn"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Takes the gradient map from autodiff.Backward. Parameters absent
	// from the map are left unchanged.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	//
	// Call before each backward pass to prevent gradient accumulation
	// across iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32

	// SetLR updates the learning rate.
	//
	// Used by learning rate schedulers such as callbacks.ReduceLROnPlateau.
	SetLR(lr float32)
}

// getGradient retrieves the gradient for a parameter from the gradient map.
//
// Returns nil when the parameter did not take part in the recorded
// computation.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
