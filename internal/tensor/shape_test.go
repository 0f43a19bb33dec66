package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	cases := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1}, // scalar
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{4, 1, 8}, 32},
	}
	for _, c := range cases {
		if got := c.shape.NumElements(); got != c.want {
			t.Errorf("NumElements(%v) = %d, want %d", c.shape, got, c.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{}).Validate(); err != nil {
		t.Errorf("scalar shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShapeEqual(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("equal shapes reported unequal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("different shapes reported equal")
	}
	if (Shape{2, 3}).Equal(Shape{2, 3, 1}) {
		t.Error("shapes of different rank reported equal")
	}
}

func TestShapeCloneIndependent(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()

	c[0] = 99
	if s[0] != 2 {
		t.Error("Clone aliases the original shape")
	}
}

func TestShapeComputeStrides(t *testing.T) {
	cases := []struct {
		shape Shape
		want  []int
	}{
		{Shape{4}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{}, []int{}},
	}
	for _, c := range cases {
		got := c.shape.ComputeStrides()
		if len(got) != len(c.want) {
			t.Errorf("ComputeStrides(%v) = %v, want %v", c.shape, got, c.want)
			continue
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("ComputeStrides(%v)[%d] = %d, want %d", c.shape, i, got[i], c.want[i])
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	cases := []struct {
		a, b      Shape
		want      Shape
		needsCast bool
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, true},
		{Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true},
		// The Conv1D bias pattern: [1,C,1] over [N,C,L].
		{Shape{4, 2, 8}, Shape{1, 2, 1}, Shape{4, 2, 8}, true},
		// The batch-norm stats pattern: [N,C,L] against [1,C,1].
		{Shape{1, 2, 1}, Shape{4, 2, 8}, Shape{4, 2, 8}, true},
		{Shape{3, 1}, Shape{1, 4}, Shape{3, 4}, true},
		{Shape{5}, Shape{}, Shape{5}, true},
	}
	for _, c := range cases {
		got, needs, err := BroadcastShapes(c.a, c.b)
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", c.a, c.b, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
		if needs != c.needsCast {
			t.Errorf("BroadcastShapes(%v, %v) needsBroadcast = %v, want %v", c.a, c.b, needs, c.needsCast)
		}
	}
}

func TestBroadcastShapesIncompatible(t *testing.T) {
	cases := [][2]Shape{
		{Shape{2, 3}, Shape{2, 4}},
		{Shape{2}, Shape{3}},
		{Shape{4, 2, 8}, Shape{2, 2, 1}},
	}
	for _, c := range cases {
		if _, _, err := BroadcastShapes(c[0], c[1]); err == nil {
			t.Errorf("BroadcastShapes(%v, %v) succeeded, want error", c[0], c[1])
		}
	}
}
