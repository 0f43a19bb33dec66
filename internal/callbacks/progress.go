package callbacks

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ProgressLogger prints one line per epoch while training.
//
// Output goes to Out, which defaults to os.Stdout.
type ProgressLogger struct {
	Out io.Writer

	// Every controls how often epochs are printed. 1 prints every
	// epoch; 10 prints every tenth plus the final epoch.
	Every int

	totalEpochs int
	lastEpoch   time.Time
}

// NewProgressLogger returns a logger that prints every epoch to stdout.
func NewProgressLogger() *ProgressLogger {
	return &ProgressLogger{Out: os.Stdout, Every: 1}
}

// OnTrainBegin records the epoch budget and starts the epoch timer.
func (p *ProgressLogger) OnTrainBegin(opt LRController, totalEpochs int) {
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.Every <= 0 {
		p.Every = 1
	}
	p.totalEpochs = totalEpochs
	p.lastEpoch = time.Now()
}

// OnEpochEnd prints the epoch loss, learning rate and wall time.
func (p *ProgressLogger) OnEpochEnd(logs Logs) {
	now := time.Now()
	elapsed := now.Sub(p.lastEpoch)
	p.lastEpoch = now

	if (logs.Epoch+1)%p.Every != 0 && logs.Epoch+1 != p.totalEpochs {
		return
	}
	fmt.Fprintf(p.Out, "epoch %d/%d  loss=%.6f  lr=%.6f  (%.2fs)\n",
		logs.Epoch+1, p.totalEpochs, logs.Loss, logs.LR, elapsed.Seconds())
}
