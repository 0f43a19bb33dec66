package deeplearning

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mobiuscreek/sktime-dl/internal/autodiff"
	"github.com/mobiuscreek/sktime-dl/internal/callbacks"
	"github.com/mobiuscreek/sktime-dl/internal/nn"
	"github.com/mobiuscreek/sktime-dl/internal/optim"
	"github.com/mobiuscreek/sktime-dl/internal/serialization"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// InceptionTimeRegressor trains the InceptionTime architecture for
// time-series regression.
//
// Adapted from the implementation by Ismail Fawaz et al.,
// https://github.com/hfawaz/InceptionTime.
//
// Hyperparameters are plain fields set before Fit. Fit rebuilds the
// network from scratch on every call.
type InceptionTimeRegressor struct {
	NumFilters     int  // filters per convolution branch
	UseResidual    bool // residual shortcut every third block
	UseBottleneck  bool // 1x1 bottleneck before the parallel convolutions
	BottleneckSize int
	Depth          int // number of inception blocks
	KernelSize     int // largest convolution kernel; halved twice for the other branches
	BatchSize      int // <= 0 resolves to max(1, min(N/10, 16)) at fit time
	NumEpochs      int

	// Callbacks run during the fit loop. A default ReduceLROnPlateau
	// is appended when none is supplied.
	Callbacks []callbacks.Callback

	RandomSeed   int64
	Verbose      bool
	ModelName    string // file stem used when saving
	ModelSaveDir string // when non-empty, the trained model is written here

	backend       Backend
	network       *inceptionNetwork
	history       *callbacks.History
	inputChannels int
	inputLength   int
	batchSize     int // resolved value used during the last fit
	fitted        bool
}

// NewInceptionTimeRegressor returns a regressor with the hyperparameter
// defaults from the InceptionTime paper.
func NewInceptionTimeRegressor() *InceptionTimeRegressor {
	return &InceptionTimeRegressor{
		NumFilters:     32,
		UseResidual:    true,
		UseBottleneck:  true,
		BottleneckSize: 32,
		Depth:          6,
		KernelSize:     40,
		BatchSize:      64,
		NumEpochs:      1500,
		ModelName:      "inception_regressor",
	}
}

// BuildModel assembles a fresh, untrained network for the given input
// shape and installs the default learning-rate callback when the caller
// has not provided one.
func (r *InceptionTimeRegressor) BuildModel(channels, length int) {
	r.backend = NewBackend()
	rng := rand.New(rand.NewSource(r.RandomSeed))
	r.network = newInceptionNetwork(
		channels, r.NumFilters, r.KernelSize, r.BottleneckSize, r.Depth,
		r.UseResidual, r.UseBottleneck, rng, r.backend)
	r.inputChannels = channels
	r.inputLength = length

	hasReduceLR := false
	for _, cb := range r.Callbacks {
		if _, ok := cb.(*callbacks.ReduceLROnPlateau); ok {
			hasReduceLR = true
			break
		}
	}
	if !hasReduceLR {
		r.Callbacks = append(r.Callbacks, callbacks.NewReduceLROnPlateau())
	}
}

// Fit trains the regressor on (X, y).
//
// X is indexed as X[instance][channel][timestep]; y holds one target
// per instance. The input shape is derived from X and reused unchanged
// at prediction time. The network and optimizer state are rebuilt fresh
// on every call.
func (r *InceptionTimeRegressor) Fit(X [][][]float64, y []float64) error {
	if y == nil {
		return fmt.Errorf("%w: got nil labels", ErrLabelMismatch)
	}
	data, shape, err := CheckAndClean(X, y)
	if err != nil {
		return err
	}
	n, channels, length := shape[0], shape[1], shape[2]

	r.batchSize = r.BatchSize
	if r.batchSize <= 0 {
		r.batchSize = int(math.Max(1, math.Min(float64(n)/10, 16)))
	}
	if r.batchSize > n {
		r.batchSize = n
	}

	r.BuildModel(channels, length)
	r.network.SetTraining(true)

	optimizer := optim.NewAdam(r.network.Parameters(), optim.AdamConfig{}, r.backend)
	loss := nn.NewMSELoss(r.backend)

	r.history = callbacks.NewHistory()
	cbs := make([]callbacks.Callback, 0, len(r.Callbacks)+2)
	cbs = append(cbs, r.Callbacks...)
	cbs = append(cbs, r.history)
	if r.Verbose {
		cbs = append(cbs, callbacks.NewProgressLogger())
	}
	for _, cb := range cbs {
		cb.OnTrainBegin(optimizer, r.NumEpochs)
	}

	rng := rand.New(rand.NewSource(r.RandomSeed))
	instanceSize := channels * length
	tape := r.backend.Tape()
	tape.StartRecording()
	defer tape.StopRecording()

	for epoch := 0; epoch < r.NumEpochs; epoch++ {
		perm := rng.Perm(n)
		epochLoss := 0.0

		for start := 0; start < n; start += r.batchSize {
			end := start + r.batchSize
			if end > n {
				end = n
			}
			batchN := end - start

			xData := make([]float32, 0, batchN*instanceSize)
			yData := make([]float32, 0, batchN)
			for _, idx := range perm[start:end] {
				xData = append(xData, data[idx*instanceSize:(idx+1)*instanceSize]...)
				yData = append(yData, float32(y[idx]))
			}

			xb, err := tensor.FromSlice(xData, tensor.Shape{batchN, channels, length}, r.backend)
			if err != nil {
				return fmt.Errorf("failed to build batch: %w", err)
			}
			yb, err := tensor.FromSlice(yData, tensor.Shape{batchN, 1}, r.backend)
			if err != nil {
				return fmt.Errorf("failed to build batch labels: %w", err)
			}

			optimizer.ZeroGrad()
			output := r.network.Forward(xb)
			batchLoss := loss.Forward(output, yb)
			grads := autodiff.Backward(batchLoss, r.backend)
			optimizer.Step(grads)
			tape.Clear()

			epochLoss += float64(batchLoss.Item()) * float64(batchN)
		}

		logs := callbacks.Logs{
			Epoch: epoch,
			Loss:  epochLoss / float64(n),
			LR:    optimizer.GetLR(),
		}
		for _, cb := range cbs {
			cb.OnEpochEnd(logs)
		}
	}

	r.network.SetTraining(false)
	r.fitted = true

	if r.ModelSaveDir != "" {
		if err := r.Save(); err != nil {
			return fmt.Errorf("failed to save trained model: %w", err)
		}
	}
	return nil
}

// Predict returns one predicted value per instance in X.
//
// X must match the channel count and series length seen during Fit.
func (r *InceptionTimeRegressor) Predict(X [][][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, ErrNotFitted
	}
	data, shape, err := CheckAndClean(X, nil)
	if err != nil {
		return nil, err
	}
	n, channels, length := shape[0], shape[1], shape[2]
	if channels != r.inputChannels || length != r.inputLength {
		return nil, fmt.Errorf("%w: got [%d, %d], expected [%d, %d]",
			ErrShapeMismatch, channels, length, r.inputChannels, r.inputLength)
	}

	r.network.SetTraining(false)
	xb, err := tensor.FromSlice(data, shape, r.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to build input tensor: %w", err)
	}
	output := r.network.Forward(xb)

	preds := make([]float64, n)
	for i, v := range output.Data() {
		preds[i] = float64(v)
	}
	return preds, nil
}

// Score returns the root mean squared error of the predictions on (X, y).
func (r *InceptionTimeRegressor) Score(X [][][]float64, y []float64) (float64, error) {
	if len(y) != len(X) {
		return 0, fmt.Errorf("%w: got %d labels for %d instances", ErrLabelMismatch, len(y), len(X))
	}
	preds, err := r.Predict(X)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i, p := range preds {
		d := p - y[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(y))), nil
}

// History returns the per-epoch training logs from the last Fit, or nil
// before any training has run.
func (r *InceptionTimeRegressor) History() *callbacks.History {
	return r.history
}

// IsFitted reports whether the regressor has been trained.
func (r *InceptionTimeRegressor) IsFitted() bool {
	return r.fitted
}

// Save writes the trained model to <ModelSaveDir>/<ModelName>.stdl.
func (r *InceptionTimeRegressor) Save() error {
	if !r.fitted {
		return ErrNotFitted
	}
	if err := os.MkdirAll(r.ModelSaveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	path := filepath.Join(r.ModelSaveDir, r.ModelName+".stdl")
	return r.SaveTo(path)
}

// SaveTo writes the trained model to the given path in .stdl format.
func (r *InceptionTimeRegressor) SaveTo(path string) error {
	if !r.fitted {
		return ErrNotFitted
	}

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.WriteStateDict(r.network.StateDict(), "InceptionTimeRegressor", r.configMap())
}

func (r *InceptionTimeRegressor) configMap() map[string]string {
	return map[string]string{
		"num_filters":     strconv.Itoa(r.NumFilters),
		"use_residual":    strconv.FormatBool(r.UseResidual),
		"use_bottleneck":  strconv.FormatBool(r.UseBottleneck),
		"bottleneck_size": strconv.Itoa(r.BottleneckSize),
		"depth":           strconv.Itoa(r.Depth),
		"kernel_size":     strconv.Itoa(r.KernelSize),
		"input_channels":  strconv.Itoa(r.inputChannels),
		"input_length":    strconv.Itoa(r.inputLength),
		"model_name":      r.ModelName,
	}
}

// Load reads a model saved by Save or SaveTo and returns a fitted
// regressor ready for Predict.
func Load(path string) (*InceptionTimeRegressor, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if mt := reader.Header().ModelType; mt != "InceptionTimeRegressor" {
		return nil, fmt.Errorf("unexpected model type %q", mt)
	}

	config := reader.Config()
	r := NewInceptionTimeRegressor()
	var channels, length int
	fields := []struct {
		key string
		dst *int
	}{
		{"num_filters", &r.NumFilters},
		{"bottleneck_size", &r.BottleneckSize},
		{"depth", &r.Depth},
		{"kernel_size", &r.KernelSize},
		{"input_channels", &channels},
		{"input_length", &length},
	}
	for _, f := range fields {
		v, err := strconv.Atoi(config[f.key])
		if err != nil {
			return nil, fmt.Errorf("invalid config value for %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if r.UseResidual, err = strconv.ParseBool(config["use_residual"]); err != nil {
		return nil, fmt.Errorf("invalid config value for use_residual: %w", err)
	}
	if r.UseBottleneck, err = strconv.ParseBool(config["use_bottleneck"]); err != nil {
		return nil, fmt.Errorf("invalid config value for use_bottleneck: %w", err)
	}
	if name := config["model_name"]; name != "" {
		r.ModelName = name
	}

	r.BuildModel(channels, length)

	state, err := reader.ReadStateDict(r.backend.Device())
	if err != nil {
		return nil, err
	}
	if err := r.network.LoadStateDict(state); err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	r.network.SetTraining(false)
	r.fitted = true
	return r, nil
}
