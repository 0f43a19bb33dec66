// Package deeplearning provides deep-learning estimators for time series.
//
// The package currently ships one estimator, InceptionTimeRegressor,
// which trains the InceptionTime convolutional architecture
// (Ismail Fawaz et al., 2019) for time-series regression. All tensor
// math, automatic differentiation and optimization live in the
// internal framework packages; the estimator is a configuration layer
// on top of them.
//
// Example usage:
//
//	reg := deeplearning.NewInceptionTimeRegressor()
//	reg.NumEpochs = 200
//	if err := reg.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	preds, err := reg.Predict(Xtest)
package deeplearning

import (
	"github.com/mobiuscreek/sktime-dl/internal/autodiff"
	"github.com/mobiuscreek/sktime-dl/internal/backend/cpu"
)

// Backend is the compute backend estimators train on: the CPU backend
// wrapped with gradient recording.
type Backend = *autodiff.AutodiffBackend[*cpu.Backend]

// NewBackend creates a fresh training backend with an empty tape.
func NewBackend() Backend {
	return autodiff.New(cpu.New())
}
