package callbacks

// History records per-epoch logs for inspection after training.
type History struct {
	Epochs []Logs
}

// NewHistory returns an empty history recorder.
func NewHistory() *History {
	return &History{}
}

// OnTrainBegin drops any logs from a previous run.
func (h *History) OnTrainBegin(opt LRController, totalEpochs int) {
	h.Epochs = h.Epochs[:0]
}

// OnEpochEnd appends the epoch logs.
func (h *History) OnEpochEnd(logs Logs) {
	h.Epochs = append(h.Epochs, logs)
}

// FinalLoss returns the loss of the last recorded epoch, or 0 when the
// history is empty.
func (h *History) FinalLoss() float64 {
	if len(h.Epochs) == 0 {
		return 0
	}
	return h.Epochs[len(h.Epochs)-1].Loss
}
