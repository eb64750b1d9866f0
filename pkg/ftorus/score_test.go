package ftorus

import (
	"errors"
	"math"
	"testing"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// A delta kernel at the origin has an all-ones spectrum, so scoring
// against it must reproduce the summed features plus bias.
func TestEvalFiltersDeltaIdentity(t *testing.T) {
	const n = 8
	f0, f1 := fmath.NewGrid(n, n), fmath.NewGrid(n, n)
	for i := range f0.Raw() {
		f0.Raw()[i] = 0.01 * float64(i)
		f1.Raw()[i] = math.Cos(float64(i))
	}
	bias := fmath.NewGrid(n, n)
	for i := range bias.Raw() {
		bias.Raw()[i] = -0.3
	}

	delta := fmath.NewGrid(n, n)
	delta.Set(0, 0, 1)
	dspec := fmath.FFT2(delta)

	h, err := EvalFilters([]*fmath.Grid{f0, f1}, []*fmath.CmplxGrid{dspec, dspec.Copy()}, bias)
	if err != nil {
		t.Fatal(err)
	}
	for i := range h.Raw() {
		want := f0.Raw()[i] + f1.Raw()[i] - 0.3
		if math.Abs(h.Raw()[i]-want) > 1e-9 {
			t.Fatalf("at %d: %f, want %f", i, h.Raw()[i], want)
		}
	}
}

// A kernel shifted off the origin translates the features circularly,
// wrapping at the grid edge.
func TestEvalFiltersToroidalShift(t *testing.T) {
	const n = 4
	feat := fmath.NewGrid(n, n)
	feat.Set(n-1, 2, 1) // last column

	shift := fmath.NewGrid(n, n)
	shift.Set(1, 0, 1) // shift one column right

	h, err := EvalFilters([]*fmath.Grid{feat}, []*fmath.CmplxGrid{fmath.FFT2(shift)}, fmath.NewGrid(n, n))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			want := 0.0
			if x == 0 && y == 2 { // wrapped around
				want = 1.0
			}
			if math.Abs(h.Get(x, y)-want) > 1e-9 {
				t.Fatalf("at %d,%d: %f, want %f", x, y, h.Get(x, y), want)
			}
		}
	}
}

func TestEvalFiltersShapeChecks(t *testing.T) {
	f := fmath.NewGrid(4, 4)
	filt := fmath.FFT2(fmath.NewGrid(4, 4))

	_, err := EvalFilters([]*fmath.Grid{f}, []*fmath.CmplxGrid{filt, filt}, fmath.NewGrid(4, 4))
	if !errors.Is(err, fmath.ErrShapeMismatch) {
		t.Fatalf("channel count: %v", err)
	}

	_, err = EvalFilters([]*fmath.Grid{f}, []*fmath.CmplxGrid{filt}, fmath.NewGrid(3, 4))
	if !errors.Is(err, fmath.ErrShapeMismatch) {
		t.Fatalf("bias shape: %v", err)
	}

	_, err = EvalFilters(nil, nil, fmath.NewGrid(4, 4))
	if !errors.Is(err, fmath.ErrShapeMismatch) {
		t.Fatalf("empty features: %v", err)
	}
}
