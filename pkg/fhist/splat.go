package fhist

import (
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// SplatNonUniform distributes a scalar over an irregular, strictly
// increasing bin vector: clamp into range, find the nearest bin, pair
// it with the adjacent bin on whichever side the value lies, and
// weight the pair to sum to 1 and reconstruct the clamped value under
// linear interpolation. An exact hit (or degenerate spacing) collapses
// to a single weight-1 entry. The 1D grid is linear - no wrap.
func SplatNonUniform(x float64, bins []float64) []float64 {
	n := len(bins)
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	if n == 1 {
		w[0] = 1
		return w
	}

	if x < bins[0] {
		x = bins[0]
	}
	if x > bins[n-1] {
		x = bins[n-1]
	}

	nearest := 0
	for i := 1; i < n; i++ {
		if math.Abs(bins[i]-x) < math.Abs(bins[nearest]-x) {
			nearest = i
		}
	}

	// After clamping, x cannot sit beyond the end bins, so the
	// chosen pair always stays in bounds.
	lo, hi := nearest, nearest
	switch {
	case x > bins[nearest]:
		hi = nearest + 1
	case x < bins[nearest]:
		lo = nearest - 1
	}
	if lo == hi {
		w[lo] = 1
		return w
	}

	t := (x - bins[lo]) / math.Max(bins[hi]-bins[lo], fmath.Eps)
	w[lo], w[hi] = 1-t, t
	return w
}

// SplatUV scatters a ground-truth UV coordinate into an n x n target
// PMF using bilinear weights over its 4 surrounding toroidal bins
// (floor and floor+1 mod n per axis). The coordinate is clamped into
// the representable range first; the returned flag reports whether
// clamping moved it, which callers should log and carry on from.
// Total mass is 1 by construction.
func SplatUV(uv fchroma.UV, g fchroma.UVGrid) (*fmath.Grid, bool) {
	clamped := false
	lo, hi := g.FirstBin, g.MaxUV()
	for k := 0; k < 2; k++ {
		if uv[k] < lo {
			uv[k], clamped = lo, true
		}
		if uv[k] > hi {
			uv[k], clamped = hi, true
		}
	}

	fu, fv := g.UVToIdx(uv[0]), g.UVToIdx(uv[1])
	u0, v0 := int(math.Floor(fu)), int(math.Floor(fv))
	u1, v1 := (u0+1)%g.NBins, (v0+1)%g.NBins
	wu1, wv1 := fu-float64(u0), fv-float64(v0)
	wu0, wv0 := 1-wu1, 1-wv1

	pmf := fmath.NewGrid(g.NBins, g.NBins)
	pmf.Add(v0, u0, wu0*wv0)
	pmf.Add(v1, u0, wu0*wv1)
	pmf.Add(v0, u1, wu1*wv0)
	pmf.Add(v1, u1, wu1*wv1)
	return pmf, clamped
}
