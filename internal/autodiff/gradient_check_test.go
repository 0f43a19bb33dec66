package autodiff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/autodiff"
	"github.com/mobiuscreek/sktime-dl/internal/backend/cpu"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

// sumForward runs f on perturbed input data and returns the scalar sum
// of the result, with the tape suspended.
func sumForward(
	backend *autodiff.AutodiffBackend[*cpu.Backend],
	data []float32, shape tensor.Shape,
	f func(x *tensor.RawTensor) *tensor.RawTensor,
) float64 {
	tape := backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		panic(err)
	}
	copy(raw.AsFloat32(), data)

	out := f(raw)
	var sum float64
	for _, v := range out.AsFloat32() {
		sum += float64(v)
	}
	return sum
}

// numericalGrad estimates d(sum f)/d(data[i]) with central differences.
func numericalGrad(
	backend *autodiff.AutodiffBackend[*cpu.Backend],
	data []float32, shape tensor.Shape, i int,
	f func(x *tensor.RawTensor) *tensor.RawTensor,
) float64 {
	const eps = 1e-2

	perturbed := make([]float32, len(data))
	copy(perturbed, data)

	perturbed[i] = data[i] + eps
	plus := sumForward(backend, perturbed, shape, f)
	perturbed[i] = data[i] - eps
	minus := sumForward(backend, perturbed, shape, f)

	return (plus - minus) / (2 * eps)
}

// TestGradientCheck_Conv1D compares autodiff conv gradients against
// finite differences for both input and kernel.
func TestGradientCheck_Conv1D(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	rng := rand.New(rand.NewSource(42))
	inputShape := tensor.Shape{2, 2, 8}
	kernelShape := tensor.Shape{3, 2, 4}

	inputData := make([]float32, inputShape.NumElements())
	for i := range inputData {
		inputData[i] = float32(rng.NormFloat64())
	}
	kernelData := make([]float32, kernelShape.NumElements())
	for i := range kernelData {
		kernelData[i] = float32(rng.NormFloat64())
	}

	// Same padding for K=4: padLeft=1, padRight=2.
	const stride, padLeft, padRight = 1, 1, 2

	tape.StartRecording()
	input := fromSlice(t, backend, inputData, inputShape)
	kernel := fromSlice(t, backend, kernelData, kernelShape)
	outRaw := backend.Conv1D(input.Raw(), kernel.Raw(), stride, padLeft, padRight)
	out := tensor.New[float32](outRaw, backend)

	grads := autodiff.Backward(out, backend)
	tape.StopRecording()

	inputGrad := grads[input.Raw()].AsFloat32()
	for _, i := range []int{0, 7, 13, 20, 31} {
		want := numericalGrad(backend, inputData, inputShape, i, func(x *tensor.RawTensor) *tensor.RawTensor {
			return backend.Conv1D(x, kernel.Raw(), stride, padLeft, padRight)
		})
		if math.Abs(float64(inputGrad[i])-want) > 1e-2 {
			t.Errorf("input grad[%d] = %f, numerical %f", i, inputGrad[i], want)
		}
	}

	kernelGrad := grads[kernel.Raw()].AsFloat32()
	for _, i := range []int{0, 5, 11, 23} {
		want := numericalGrad(backend, kernelData, kernelShape, i, func(k *tensor.RawTensor) *tensor.RawTensor {
			return backend.Conv1D(input.Raw(), k, stride, padLeft, padRight)
		})
		if math.Abs(float64(kernelGrad[i])-want) > 1e-2 {
			t.Errorf("kernel grad[%d] = %f, numerical %f", i, kernelGrad[i], want)
		}
	}
}

// TestGradientCheck_MaxPool1D compares pooling gradients against finite
// differences. Input values are spread out so the argmax is stable
// under the perturbation.
func TestGradientCheck_MaxPool1D(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	inputShape := tensor.Shape{1, 2, 6}
	inputData := []float32{
		0.1, 0.9, 0.3, 0.7, 0.5, 0.2,
		0.8, 0.4, 0.6, 0.15, 0.95, 0.25,
	}

	const kernelSize, stride, padLeft, padRight = 3, 1, 1, 1

	tape.StartRecording()
	input := fromSlice(t, backend, inputData, inputShape)
	outRaw := backend.MaxPool1D(input.Raw(), kernelSize, stride, padLeft, padRight)
	out := tensor.New[float32](outRaw, backend)

	grads := autodiff.Backward(out, backend)
	tape.StopRecording()

	inputGrad := grads[input.Raw()].AsFloat32()
	for i := range inputData {
		want := numericalGrad(backend, inputData, inputShape, i, func(x *tensor.RawTensor) *tensor.RawTensor {
			return backend.MaxPool1D(x, kernelSize, stride, padLeft, padRight)
		})
		if math.Abs(float64(inputGrad[i])-want) > 1e-2 {
			t.Errorf("input grad[%d] = %f, numerical %f", i, inputGrad[i], want)
		}
	}
}

// TestGradientCheck_Composite differentiates sqrt(a*b) + a/b end to end.
func TestGradientCheck_Composite(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	aData := []float32{1.5, 2.5, 3.5}
	bData := []float32{2.0, 0.5, 4.0}
	shape := tensor.Shape{3}

	compute := func(aRaw, bRaw *tensor.RawTensor) *tensor.RawTensor {
		prod := backend.Mul(aRaw, bRaw)
		root := backend.Sqrt(prod)
		quot := backend.Div(aRaw, bRaw)
		return backend.Add(root, quot)
	}

	tape.StartRecording()
	a := fromSlice(t, backend, aData, shape)
	b := fromSlice(t, backend, bData, shape)
	out := tensor.New[float32](compute(a.Raw(), b.Raw()), backend)

	grads := autodiff.Backward(out, backend)
	tape.StopRecording()

	aGrad := grads[a.Raw()].AsFloat32()
	bGrad := grads[b.Raw()].AsFloat32()
	for i := range aData {
		wantA := numericalGrad(backend, aData, shape, i, func(x *tensor.RawTensor) *tensor.RawTensor {
			return compute(x, b.Raw())
		})
		if math.Abs(float64(aGrad[i])-wantA) > 1e-2 {
			t.Errorf("a grad[%d] = %f, numerical %f", i, aGrad[i], wantA)
		}

		wantB := numericalGrad(backend, bData, shape, i, func(x *tensor.RawTensor) *tensor.RawTensor {
			return compute(a.Raw(), x)
		})
		if math.Abs(float64(bGrad[i])-wantB) > 1e-2 {
			t.Errorf("b grad[%d] = %f, numerical %f", i, bGrad[i], wantB)
		}
	}
}
