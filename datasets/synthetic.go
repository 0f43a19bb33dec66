package datasets

import (
	"math"
	"math/rand"
)

// MakeRegression generates a synthetic univariate regression dataset.
//
// Each series is a noisy sinusoid with random amplitude, frequency and
// phase; the target is the amplitude. Useful for examples and tests.
func MakeRegression(numSamples, seriesLength int, noise float64, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	ds := &Dataset{
		X: make([][][]float64, numSamples),
		Y: make([]float64, numSamples),
	}
	for i := 0; i < numSamples; i++ {
		amplitude := 0.5 + 2.0*rng.Float64()
		frequency := 1.0 + 4.0*rng.Float64()
		phase := 2 * math.Pi * rng.Float64()

		series := make([]float64, seriesLength)
		for t := range series {
			x := 2 * math.Pi * frequency * float64(t) / float64(seriesLength)
			series[t] = amplitude*math.Sin(x+phase) + noise*rng.NormFloat64()
		}

		ds.X[i] = [][]float64{series}
		ds.Y[i] = amplitude
	}
	return ds
}
