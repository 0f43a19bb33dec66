package deeplearning

import (
	"errors"
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// Input validation errors.
var (
	ErrEmptyInput      = errors.New("X must contain at least one instance")
	ErrRaggedInput     = errors.New("all series in X must have the same shape")
	ErrLabelMismatch   = errors.New("len(y) must equal the number of instances in X")
	ErrNotFitted       = errors.New("estimator is not fitted")
	ErrShapeMismatch   = errors.New("input shape does not match the shape seen at fit time")
	ErrInvalidInstance = errors.New("instance must contain at least one channel and one time step")
)

// CheckAndClean validates raw input and flattens it into a row-major
// [instances, channels, timesteps] float32 buffer.
//
// X is indexed as X[instance][channel][timestep]. Every instance must
// have the same number of channels and the same series length. When y
// is non-nil its length must match the instance count.
func CheckAndClean(X [][][]float64, y []float64) ([]float32, tensor.Shape, error) {
	if len(X) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if y != nil && len(y) != len(X) {
		return nil, nil, fmt.Errorf("%w: got %d labels for %d instances", ErrLabelMismatch, len(y), len(X))
	}

	channels := len(X[0])
	if channels == 0 || len(X[0][0]) == 0 {
		return nil, nil, ErrInvalidInstance
	}
	length := len(X[0][0])

	for i, instance := range X {
		if len(instance) != channels {
			return nil, nil, fmt.Errorf("%w: instance %d has %d channels, expected %d",
				ErrRaggedInput, i, len(instance), channels)
		}
		for c, series := range instance {
			if len(series) != length {
				return nil, nil, fmt.Errorf("%w: instance %d channel %d has length %d, expected %d",
					ErrRaggedInput, i, c, len(series), length)
			}
		}
	}

	data := make([]float32, 0, len(X)*channels*length)
	for _, instance := range X {
		for _, series := range instance {
			for _, v := range series {
				data = append(data, float32(v))
			}
		}
	}
	return data, tensor.Shape{len(X), channels, length}, nil
}

// Univariate wraps single-channel series into the multivariate layout
// CheckAndClean expects.
func Univariate(X [][]float64) [][][]float64 {
	out := make([][][]float64, len(X))
	for i, series := range X {
		out[i] = [][]float64{series}
	}
	return out
}
