package fmath

import (
	"math"
	"testing"
)

func TestGridSetGet(t *testing.T) {
	g := NewGrid(3, 2)
	if g.Dx() != 3 || g.Dy() != 2 {
		t.Fatalf("dims: got %dx%d", g.Dx(), g.Dy())
	}
	g.Set(2, 1, 5.0)
	g.Add(2, 1, 0.5)
	if g.Get(2, 1) != 5.5 {
		t.Fatalf("get: %f", g.Get(2, 1))
	}
	if g.Get(0, 0) != 0 {
		t.Fatal("fresh grid not zero")
	}
}

func TestGridCopyIsIndependent(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(1, 1, 3)
	g2 := g.Copy()
	g2.Set(1, 1, 7)
	if g.Get(1, 1) != 3 {
		t.Fatal("copy aliases original")
	}
}

func TestGridSumScale(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, 1)
	g.Set(1, 0, 2)
	g.Set(0, 1, 3)
	g.Set(1, 1, 4)
	if g.Sum() != 10 {
		t.Fatalf("sum: %f", g.Sum())
	}
	g.Scale(0.1)
	if math.Abs(g.Sum()-1.0) > 1e-12 {
		t.Fatalf("scaled sum: %f", g.Sum())
	}
	min, max := g.MinMax()
	if math.Abs(min-0.1) > 1e-12 || math.Abs(max-0.4) > 1e-12 {
		t.Fatalf("minmax: %f %f", min, max)
	}
}

func TestGammaRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.0031308, 0.01, 0.18, 0.5, 1.0} {
		got := GammaExpand_F64(GammaCompress_F64(v))
		if math.Abs(got-v) > 1e-9 {
			t.Fatalf("round trip %f: got %f", v, got)
		}
	}
}
