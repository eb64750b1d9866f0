package fchroma

import (
	"fmt"
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// A UVGrid fixes the binning of log-chrominance space: NBins bin
// centers per axis, BinSize apart, starting at FirstBin. The grid is
// toroidal - bin 0 and bin NBins-1 are neighbors, because chroma
// histograms wrap. Histograms and PMFs built on a UVGrid put the u
// axis first (grid rows) and the v axis second (grid columns).
type UVGrid struct {
	NBins    int
	BinSize  float64
	FirstBin float64
}

// The standard FFCC working grid: 64 bins of 1/32 starting at -31/32.
func DefaultUVGrid() UVGrid {
	return UVGrid{NBins: 64, BinSize: 1.0 / 32.0, FirstBin: -31.0 / 32.0}
}

func (g UVGrid) Validate() error {
	if g.NBins <= 0 {
		return fmt.Errorf("uvgrid nbins %d: %w", g.NBins, fmath.ErrShapeMismatch)
	}
	if g.BinSize < fmath.Eps {
		return fmt.Errorf("uvgrid binsize %g too small", g.BinSize)
	}
	return nil
}

// IdxToUV maps a (possibly fractional) bin index to physical UV units.
func (g UVGrid) IdxToUV(i float64) float64 { return i*g.BinSize + g.FirstBin }

// UVToIdx is the inverse affine map, to fractional index space.
func (g UVGrid) UVToIdx(uv float64) float64 {
	return (uv - g.FirstBin) / math.Max(g.BinSize, fmath.Eps)
}

// MaxUV is the center of the last bin, the top of the representable
// range on each axis.
func (g UVGrid) MaxUV() float64 { return g.IdxToUV(float64(g.NBins - 1)) }

// BinOf maps a UV coordinate to its nearest bin, wrapping around the
// torus rather than clamping.
func (g UVGrid) BinOf(uv float64) int {
	return FloorMod(int(math.Round(g.UVToIdx(uv))), g.NBins)
}

// FloorMod is the always-non-negative remainder, the wrap used for
// all toroidal indexing.
func FloorMod(a, n int) int { return ((a % n) + n) % n }
