// Package callbacks provides training-loop hooks.
//
// Callbacks observe the training loop without owning it: the trainer
// invokes OnTrainBegin once and OnEpochEnd after every epoch. The
// ReduceLROnPlateau callback additionally drives the optimizer learning
// rate through the LRController interface.
package callbacks

// LRController exposes the optimizer surface callbacks are allowed to touch.
//
// optim.Optimizer satisfies this interface.
type LRController interface {
	GetLR() float32
	SetLR(lr float32)
}

// Logs carries the per-epoch quantities passed to OnEpochEnd.
type Logs struct {
	Epoch int     // zero-based epoch index
	Loss  float64 // mean training loss over the epoch
	LR    float32 // learning rate in effect during the epoch
}

// Callback receives training-loop notifications.
type Callback interface {
	// OnTrainBegin is called once before the first epoch.
	OnTrainBegin(opt LRController, totalEpochs int)

	// OnEpochEnd is called after each epoch completes.
	OnEpochEnd(logs Logs)
}
