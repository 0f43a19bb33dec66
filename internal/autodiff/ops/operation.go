// Package ops defines the differentiable operations recorded on the
// gradient tape during the forward pass.
//
// Each operation captures its input and output tensors and knows how to
// compute input gradients from the output gradient during the backward
// pass. The forward computation itself is always performed by a backend;
// operations only orchestrate gradient flow.
package ops

import "github.com/mobiuscreek/sktime-dl/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice is aligned with Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
