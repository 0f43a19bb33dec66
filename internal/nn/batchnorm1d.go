package nn

import (
	"fmt"

	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// BatchNorm1D normalizes each channel of a [batch, channels, length]
// tensor over the batch and length dimensions.
//
// During training the batch statistics normalize the input and update
// exponential moving averages; during inference the moving averages are
// used instead. Gamma starts at one, beta at zero.
//
// The normalization is expressed through recorded tensor operations, so
// gradients flow to the input, gamma, and beta without a dedicated
// backward implementation. Moving averages are updated outside the tape.
type BatchNorm1D[B tensor.Backend] struct {
	numChannels int
	momentum    float32
	eps         float32
	training    bool

	gamma *Parameter[B] // [channels]
	beta  *Parameter[B] // [channels]

	runningMean []float32
	runningVar  []float32

	backend B
}

// NewBatchNorm1D creates a batch normalization layer with momentum 0.99
// and epsilon 1e-3.
func NewBatchNorm1D[B tensor.Backend](numChannels int, backend B) *BatchNorm1D[B] {
	if numChannels <= 0 {
		panic(fmt.Sprintf("batchnorm1d: invalid channel count %d", numChannels))
	}

	runningVar := make([]float32, numChannels)
	for i := range runningVar {
		runningVar[i] = 1
	}

	return &BatchNorm1D[B]{
		numChannels: numChannels,
		momentum:    0.99,
		eps:         1e-3,
		training:    true,
		gamma:       NewParameter("weight", Ones(tensor.Shape{numChannels}, backend)),
		beta:        NewParameter("bias", Zeros(tensor.Shape{numChannels}, backend)),
		runningMean: make([]float32, numChannels),
		runningVar:  runningVar,
		backend:     backend,
	}
}

// SetTraining switches between batch statistics (true) and moving
// averages (false).
func (bn *BatchNorm1D[B]) SetTraining(training bool) {
	bn.training = training
}

// Forward normalizes the input per channel.
func (bn *BatchNorm1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 3 {
		panic(fmt.Sprintf("batchnorm1d: expected 3D input [N,C,L], got %dD", len(inputShape)))
	}
	if inputShape[1] != bn.numChannels {
		panic(fmt.Sprintf("batchnorm1d: input channels %d != expected %d", inputShape[1], bn.numChannels))
	}

	var mean, variance *tensor.Tensor[float32, B]
	if bn.training {
		// Channel mean and biased variance over batch and length.
		mean = input.MeanDim(0, true).MeanDim(2, true)
		diff := input.Sub(mean)
		variance = diff.Mul(diff).MeanDim(0, true).MeanDim(2, true)

		bn.updateRunningStats(mean.Raw().AsFloat32(), variance.Raw().AsFloat32())
	} else {
		statShape := tensor.Shape{1, bn.numChannels, 1}
		mean = bn.statTensor(bn.runningMean, statShape)
		variance = bn.statTensor(bn.runningVar, statShape)
	}

	epsT := tensor.Full[float32](tensor.Shape{1, 1, 1}, bn.eps, bn.backend)
	std := variance.Add(epsT).Sqrt()

	normalized := input.Sub(mean).Div(std)

	gammaR := bn.gamma.Tensor().Reshape(1, bn.numChannels, 1)
	betaR := bn.beta.Tensor().Reshape(1, bn.numChannels, 1)

	return normalized.Mul(gammaR).Add(betaR)
}

// statTensor wraps a moving-average slice as a tensor.
func (bn *BatchNorm1D[B]) statTensor(data []float32, shape tensor.Shape) *tensor.Tensor[float32, B] {
	t, err := tensor.FromSlice(data, shape, bn.backend)
	if err != nil {
		panic(err)
	}
	return t
}

// updateRunningStats folds the batch statistics into the moving averages.
func (bn *BatchNorm1D[B]) updateRunningStats(batchMean, batchVar []float32) {
	m := bn.momentum
	for i := 0; i < bn.numChannels; i++ {
		bn.runningMean[i] = bn.runningMean[i]*m + batchMean[i]*(1-m)
		bn.runningVar[i] = bn.runningVar[i]*m + batchVar[i]*(1-m)
	}
}

// Parameters returns gamma and beta. Moving averages are not trainable.
func (bn *BatchNorm1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// StateDict exports gamma, beta, and the moving averages.
func (bn *BatchNorm1D[B]) StateDict() map[string]*tensor.RawTensor {
	shape := tensor.Shape{bn.numChannels}
	meanT := bn.statTensor(bn.runningMean, shape)
	varT := bn.statTensor(bn.runningVar, shape)

	return map[string]*tensor.RawTensor{
		"weight":       bn.gamma.Tensor().Raw(),
		"bias":         bn.beta.Tensor().Raw(),
		"running_mean": meanT.Raw(),
		"running_var":  varT.Raw(),
	}
}

// LoadStateDict restores gamma, beta, and the moving averages.
func (bn *BatchNorm1D[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	if err := loadParam(state, "weight", bn.gamma); err != nil {
		return err
	}
	if err := loadParam(state, "bias", bn.beta); err != nil {
		return err
	}

	for name, dst := range map[string][]float32{
		"running_mean": bn.runningMean,
		"running_var":  bn.runningVar,
	} {
		raw, ok := state[name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", name)
		}
		if raw.NumElements() != bn.numChannels {
			return fmt.Errorf("%s size mismatch: expected %d, got %d", name, bn.numChannels, raw.NumElements())
		}
		copy(dst, raw.AsFloat32())
	}

	return nil
}
