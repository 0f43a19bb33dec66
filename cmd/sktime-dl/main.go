// Command sktime-dl trains an InceptionTime regressor on a CSV or
// synthetic dataset and reports the test RMSE.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mobiuscreek/sktime-dl/datasets"
	"github.com/mobiuscreek/sktime-dl/deeplearning"
)

func main() {
	dataPath := flag.String("data", "", "CSV dataset path (empty = synthetic data)")
	targetCol := flag.Int("target", 0, "Target column index in the CSV")
	hasHeader := flag.Bool("header", true, "CSV has a header row")
	samples := flag.Int("samples", 200, "Synthetic dataset size")
	length := flag.Int("length", 64, "Synthetic series length")
	noise := flag.Float64("noise", 0.1, "Synthetic noise level")
	testRatio := flag.Float64("test-ratio", 0.2, "Fraction of data held out for testing")
	epochs := flag.Int("epochs", 100, "Number of training epochs")
	batchSize := flag.Int("batch", 0, "Batch size (0 = derive from dataset size)")
	depth := flag.Int("depth", 6, "Number of inception blocks")
	filters := flag.Int("filters", 32, "Filters per convolution branch")
	kernel := flag.Int("kernel", 40, "Largest convolution kernel size")
	seed := flag.Int64("seed", 0, "Random seed")
	verbose := flag.Bool("verbose", false, "Print per-epoch progress")
	saveDir := flag.String("save", "", "Directory to save the trained model (empty = don't save)")
	loadPath := flag.String("load", "", "Load a saved model instead of training")
	flag.Parse()

	var ds *datasets.Dataset
	if *dataPath != "" {
		var err error
		ds, err = datasets.LoadCSV(*dataPath, datasets.CSVOptions{
			TargetColumn: *targetCol,
			HasHeader:    *hasHeader,
		})
		if err != nil {
			log.Fatalf("failed to load dataset: %v", err)
		}
		fmt.Printf("Loaded %d samples from %s\n", ds.NumSamples(), *dataPath)
	} else {
		ds = datasets.MakeRegression(*samples, *length, *noise, *seed)
		fmt.Printf("Generated %d synthetic samples of length %d\n", *samples, *length)
	}

	train, test, err := ds.Split(*testRatio)
	if err != nil {
		log.Fatalf("failed to split dataset: %v", err)
	}
	fmt.Printf("Train: %d samples, Test: %d samples\n", train.NumSamples(), test.NumSamples())

	if *loadPath != "" {
		reg, err := deeplearning.Load(*loadPath)
		if err != nil {
			log.Fatalf("failed to load model: %v", err)
		}
		fmt.Printf("Loaded model %s\n", *loadPath)

		rmse, err := reg.Score(test.X, test.Y)
		if err != nil {
			log.Fatalf("failed to score: %v", err)
		}
		fmt.Printf("Test RMSE: %.4f\n", rmse)
		return
	}

	reg := deeplearning.NewInceptionTimeRegressor()
	reg.NumEpochs = *epochs
	reg.BatchSize = *batchSize
	reg.Depth = *depth
	reg.NumFilters = *filters
	reg.KernelSize = *kernel
	reg.RandomSeed = *seed
	reg.Verbose = *verbose
	reg.ModelSaveDir = *saveDir

	fmt.Printf("Training InceptionTime: depth=%d filters=%d kernel=%d epochs=%d\n",
		reg.Depth, reg.NumFilters, reg.KernelSize, reg.NumEpochs)
	if err := reg.Fit(train.X, train.Y); err != nil {
		log.Fatalf("training failed: %v", err)
	}
	if h := reg.History(); h != nil && len(h.Epochs) > 0 {
		fmt.Printf("Final training loss: %.6f\n", h.FinalLoss())
	}

	rmse, err := reg.Score(test.X, test.Y)
	if err != nil {
		log.Fatalf("failed to score: %v", err)
	}
	fmt.Printf("Test RMSE: %.4f\n", rmse)

	if *saveDir != "" {
		fmt.Printf("Model saved to %s/%s.stdl\n", *saveDir, reg.ModelName)
	}
}
