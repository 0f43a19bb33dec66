package datasets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMakeRegressionShape(t *testing.T) {
	ds := MakeRegression(10, 24, 0.1, 42)

	if ds.NumSamples() != 10 {
		t.Fatalf("NumSamples = %d, want 10", ds.NumSamples())
	}
	if len(ds.Y) != 10 {
		t.Fatalf("len(Y) = %d, want 10", len(ds.Y))
	}
	for i, instance := range ds.X {
		if len(instance) != 1 {
			t.Fatalf("instance %d has %d channels, want 1", i, len(instance))
		}
		if len(instance[0]) != 24 {
			t.Fatalf("instance %d has length %d, want 24", i, len(instance[0]))
		}
	}
	for i, y := range ds.Y {
		if y < 0.5 || y > 2.5 {
			t.Errorf("target %d = %v outside amplitude range [0.5, 2.5]", i, y)
		}
	}
}

func TestMakeRegressionDeterministic(t *testing.T) {
	a := MakeRegression(5, 16, 0.2, 7)
	b := MakeRegression(5, 16, 0.2, 7)

	for i := range a.X {
		if a.Y[i] != b.Y[i] {
			t.Fatalf("target %d differs between identical seeds", i)
		}
		for j := range a.X[i][0] {
			if a.X[i][0][j] != b.X[i][0][j] {
				t.Fatalf("series %d differs at step %d between identical seeds", i, j)
			}
		}
	}

	c := MakeRegression(5, 16, 0.2, 8)
	if a.X[0][0][0] == c.X[0][0][0] && a.Y[0] == c.Y[0] {
		t.Error("different seeds produced identical data")
	}
}

func TestSplit(t *testing.T) {
	ds := MakeRegression(10, 8, 0, 1)

	train, test, err := ds.Split(0.3)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if train.NumSamples() != 7 || test.NumSamples() != 3 {
		t.Fatalf("split sizes = (%d, %d), want (7, 3)", train.NumSamples(), test.NumSamples())
	}

	// Ordered split: the test set is the tail of the original.
	if test.Y[0] != ds.Y[7] {
		t.Error("test set does not start at the split index")
	}
}

func TestSplitRejectsBadRatio(t *testing.T) {
	ds := MakeRegression(10, 8, 0, 1)

	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := ds.Split(ratio); err == nil {
			t.Errorf("Split(%g) succeeded, want error", ratio)
		}
	}

	tiny := MakeRegression(1, 8, 0, 1)
	if _, _, err := tiny.Split(0.5); err == nil {
		t.Error("splitting a single-sample dataset succeeded, want error")
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	contents := "target,t0,t1,t2\n1.5,0.1,0.2,0.3\n-2.0,1.0,2.0,3.0\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadCSV(path, CSVOptions{TargetColumn: 0, HasHeader: true})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	if ds.NumSamples() != 2 {
		t.Fatalf("NumSamples = %d, want 2", ds.NumSamples())
	}
	if ds.Y[0] != 1.5 || ds.Y[1] != -2.0 {
		t.Errorf("targets = %v, want [1.5 -2]", ds.Y)
	}
	want := []float64{0.1, 0.2, 0.3}
	for j, v := range want {
		if ds.X[0][0][j] != v {
			t.Errorf("X[0][0][%d] = %v, want %v", j, ds.X[0][0][j], v)
		}
	}
}

func TestLoadCSVTargetInMiddleColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	contents := "0.1,5.0,0.2\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadCSV(path, CSVOptions{TargetColumn: 1})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if ds.Y[0] != 5.0 {
		t.Errorf("target = %v, want 5", ds.Y[0])
	}
	if len(ds.X[0][0]) != 2 || ds.X[0][0][0] != 0.1 || ds.X[0][0][1] != 0.2 {
		t.Errorf("series = %v, want [0.1 0.2]", ds.X[0][0])
	}
}

func TestLoadCSVMaxSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	contents := "1,0.1\n2,0.2\n3,0.3\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadCSV(path, CSVOptions{TargetColumn: 0, MaxSamples: 2})
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if ds.NumSamples() != 2 {
		t.Errorf("NumSamples = %d, want 2", ds.NumSamples())
	}
}

func TestLoadCSVErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, contents string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cases := []struct {
		name string
		path string
		opts CSVOptions
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), CSVOptions{}},
		{"empty file", write("empty.csv", ""), CSVOptions{}},
		{"header only", write("header.csv", "target,t0\n"), CSVOptions{HasHeader: true}},
		{"bad value", write("bad.csv", "1.0,oops\n"), CSVOptions{}},
		{"target out of range", write("range.csv", "1.0,2.0\n"), CSVOptions{TargetColumn: 5}},
		{"no series columns", write("narrow.csv", "1.0\n"), CSVOptions{}},
		{"ragged rows", write("ragged.csv", "1.0,2.0,3.0\n1.0,2.0\n"), CSVOptions{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadCSV(c.path, c.opts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
