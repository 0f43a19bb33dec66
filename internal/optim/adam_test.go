package optim

import (
	"math"
	"testing"

	"github.com/mobiuscreek/sktime-dl/internal/autodiff"
	"github.com/mobiuscreek/sktime-dl/internal/backend/cpu"
	"github.com/mobiuscreek/sktime-dl/internal/nn"
	"github.com/mobiuscreek/sktime-dl/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.Backend]

func newParam(t *testing.T, backend testBackend, name string, data []float32) *nn.Parameter[testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return nn.NewParameter(name, x)
}

func gradFor(t *testing.T, backend testBackend, param *nn.Parameter[testBackend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	g, err := tensor.FromSlice(data, param.Tensor().Shape(), backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): g.Raw()}
}

func TestAdamFirstStepMatchesSignedLR(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, "w", []float32{1, -1, 0.5})
	adam := NewAdam([]*nn.Parameter[testBackend]{param}, AdamConfig{LR: 0.1}, backend)

	grads := gradFor(t, backend, param, []float32{0.3, -0.2, 0.01})
	adam.Step(grads)

	// After bias correction the very first step is lr * g/(|g| + eps'),
	// which is lr * sign(g) up to eps.
	got := param.Tensor().Data()
	want := []float32{1 - 0.1, -1 + 0.1, 0.5 - 0.1}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-4 {
			t.Errorf("param[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if adam.GetTimestep() != 1 {
		t.Errorf("timestep = %d, want 1", adam.GetTimestep())
	}
}

func TestAdamSkipsParamsWithoutGradient(t *testing.T) {
	backend := autodiff.New(cpu.New())
	withGrad := newParam(t, backend, "a", []float32{1})
	without := newParam(t, backend, "b", []float32{2})
	adam := NewAdam([]*nn.Parameter[testBackend]{withGrad, without}, AdamConfig{}, backend)

	adam.Step(gradFor(t, backend, withGrad, []float32{1}))

	if got := without.Tensor().Data()[0]; got != 2 {
		t.Errorf("parameter without gradient changed: %v", got)
	}
	if got := withGrad.Tensor().Data()[0]; got == 1 {
		t.Error("parameter with gradient did not change")
	}
}

func TestAdamMomentumCarriesAcrossSteps(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, "w", []float32{0})
	adam := NewAdam([]*nn.Parameter[testBackend]{param}, AdamConfig{LR: 0.1}, backend)

	// Constant gradient 1.0 for several steps: with momentum the update
	// stays close to -lr each step, so the parameter walks steadily down.
	prev := float32(0)
	for i := 0; i < 5; i++ {
		adam.Step(gradFor(t, backend, param, []float32{1}))
		cur := param.Tensor().Data()[0]
		if cur >= prev {
			t.Fatalf("step %d: parameter did not decrease (%v -> %v)", i, prev, cur)
		}
		prev = cur
	}
	if math.Abs(float64(prev)+0.5) > 0.05 {
		t.Errorf("after 5 steps param = %v, want about -0.5", prev)
	}
}

func TestAdamDefaults(t *testing.T) {
	backend := autodiff.New(cpu.New())
	adam := NewAdam(nil, AdamConfig{}, backend)

	if got := adam.GetLR(); got != 0.001 {
		t.Errorf("default LR = %v, want 0.001", got)
	}
	if adam.beta1 != 0.9 || adam.beta2 != 0.999 {
		t.Errorf("default betas = (%v, %v), want (0.9, 0.999)", adam.beta1, adam.beta2)
	}
}

func TestAdamSetLR(t *testing.T) {
	backend := autodiff.New(cpu.New())
	adam := NewAdam(nil, AdamConfig{LR: 0.01}, backend)

	adam.SetLR(0.005)
	if got := adam.GetLR(); got != 0.005 {
		t.Errorf("LR after SetLR = %v, want 0.005", got)
	}
}

func TestAdamZeroGrad(t *testing.T) {
	backend := autodiff.New(cpu.New())
	param := newParam(t, backend, "w", []float32{1})
	g, err := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	param.SetGrad(g)

	adam := NewAdam([]*nn.Parameter[testBackend]{param}, AdamConfig{}, backend)
	adam.ZeroGrad()

	if param.Grad() != nil {
		t.Error("ZeroGrad did not clear the gradient")
	}
}
