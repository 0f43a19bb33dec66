// Package nn implements the neural network building blocks used by the
// deep learning estimators.
//
// Building blocks:
//   - Module interface: forward pass, parameter access, state export
//   - Parameter: trainable tensors with gradient slots
//   - Conv1D, BatchNorm1D, Linear: trainable layers
//   - ReLU, MaxPool1D, GlobalAvgPool1D: parameter-free layers
//   - MSELoss: regression loss
//
// Design follows PyTorch's nn.Module shape, adapted for Go generics.
package nn

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Module is the base interface for all network components.
//
// Modules are composed to build architectures; a composite module
// returns the parameters and state of everything it contains.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, including those of
	// nested modules. Parameter-free modules return nil.
	Parameters() []*Parameter[B]

	// StateDict returns a map of parameter names to raw tensors.
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies values from a state dictionary into the
	// module's parameters, validating names, shapes, and dtypes.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// PrefixStateDict namespaces a child module's state with "prefix.".
func PrefixStateDict(prefix string, state map[string]*tensor.RawTensor) map[string]*tensor.RawTensor {
	out := make(map[string]*tensor.RawTensor, len(state))
	for name, raw := range state {
		out[prefix+"."+name] = raw
	}
	return out
}

// ExtractStateDict returns the sub-dictionary under "prefix." with the
// prefix stripped.
func ExtractStateDict(prefix string, state map[string]*tensor.RawTensor) map[string]*tensor.RawTensor {
	out := make(map[string]*tensor.RawTensor)
	p := prefix + "."
	for name, raw := range state {
		if len(name) > len(p) && name[:len(p)] == p {
			out[name[len(p):]] = raw
		}
	}
	return out
}

// loadParam copies a named tensor from the state dict into dst after
// validating shape and dtype.
func loadParam[B tensor.Backend](state map[string]*tensor.RawTensor, name string, dst *Parameter[B]) error {
	raw, ok := state[name]
	if !ok {
		return fmt.Errorf("missing %s in state dict", name)
	}

	expected := dst.Tensor().Shape()
	if !raw.Shape().Equal(expected) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, expected, raw.Shape())
	}
	if raw.DType() != tensor.Float32 {
		return fmt.Errorf("%s dtype mismatch: expected float32, got %s", name, raw.DType())
	}

	copy(dst.Tensor().Raw().AsFloat32(), raw.AsFloat32())
	return nil
}
