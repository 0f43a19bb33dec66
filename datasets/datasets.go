// Package datasets loads and generates time-series regression datasets.
package datasets

import "fmt"

// Dataset holds time-series instances and their regression targets.
//
// X is indexed as X[instance][channel][timestep], matching the input
// layout of the deeplearning estimators.
type Dataset struct {
	X [][][]float64
	Y []float64
}

// NumSamples returns the number of instances.
func (d *Dataset) NumSamples() int {
	return len(d.X)
}

// Split divides the dataset into train and test sets, with testRatio of
// the instances going to the test set. Instances keep their order.
func (d *Dataset) Split(testRatio float64) (train, test *Dataset, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0, 1), got %g", testRatio)
	}
	splitIdx := int(float64(d.NumSamples()) * (1.0 - testRatio))
	if splitIdx == 0 || splitIdx == d.NumSamples() {
		return nil, nil, fmt.Errorf("dataset with %d samples cannot be split at ratio %g", d.NumSamples(), testRatio)
	}

	train = &Dataset{X: d.X[:splitIdx], Y: d.Y[:splitIdx]}
	test = &Dataset{X: d.X[splitIdx:], Y: d.Y[splitIdx:]}
	return train, test, nil
}
