package callbacks

import "math"

// ReduceLROnPlateau lowers the learning rate when the training loss
// stops improving.
//
// After Patience consecutive epochs without improvement the learning
// rate is multiplied by Factor, never dropping below MinLR. The wait
// counter resets both on improvement and after a reduction.
type ReduceLROnPlateau struct {
	Factor   float32 // multiplicative decay, 0 < Factor < 1
	Patience int     // epochs without improvement before reducing
	MinLR    float32 // lower bound on the learning rate

	opt  LRController
	best float64
	wait int
}

// NewReduceLROnPlateau returns the scheduler with the library defaults:
// factor 0.5, patience 50, minimum learning rate 1e-4.
func NewReduceLROnPlateau() *ReduceLROnPlateau {
	return &ReduceLROnPlateau{
		Factor:   0.5,
		Patience: 50,
		MinLR:    1e-4,
	}
}

// OnTrainBegin resets the scheduler state for a fresh training run.
func (r *ReduceLROnPlateau) OnTrainBegin(opt LRController, totalEpochs int) {
	r.opt = opt
	r.best = math.Inf(1)
	r.wait = 0
}

// OnEpochEnd compares the epoch loss against the best seen so far and
// decays the learning rate once the plateau outlasts the patience.
func (r *ReduceLROnPlateau) OnEpochEnd(logs Logs) {
	if logs.Loss < r.best {
		r.best = logs.Loss
		r.wait = 0
		return
	}

	r.wait++
	if r.wait < r.Patience {
		return
	}
	r.wait = 0

	lr := r.opt.GetLR()
	if lr <= r.MinLR {
		return
	}
	lr *= r.Factor
	if lr < r.MinLR {
		lr = r.MinLR
	}
	r.opt.SetLR(lr)
}
