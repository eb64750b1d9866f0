package ffcc

import (
	"fmt"
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// A Model is the learned half of the estimator: a frequency-domain
// filter per feature channel plus a spatial bias, tied to the bin
// grid they were trained on. Training happens elsewhere; here a model
// is materialized once by some loader and read-only forever after.
type Model struct {
	FiltersFFT []*fmath.CmplxGrid
	Bias       *fmath.Grid
	Grid       fchroma.UVGrid
}

func (m *Model) Channels() int { return len(m.FiltersFFT) }

func (m *Model) Validate() error {
	if err := m.Grid.Validate(); err != nil {
		return err
	}
	if len(m.FiltersFFT) == 0 {
		return fmt.Errorf("model has no filters: %w", fmath.ErrShapeMismatch)
	}
	n := m.Grid.NBins
	for c, f := range m.FiltersFFT {
		if f.Dx() != n || f.Dy() != n {
			return fmt.Errorf("filter %d is %dx%d, grid wants %d: %w",
				c, f.Dx(), f.Dy(), n, fmath.ErrShapeMismatch)
		}
	}
	if m.Bias == nil || m.Bias.Dx() != n || m.Bias.Dy() != n {
		return fmt.Errorf("bias does not match %d-bin grid: %w", n, fmath.ErrShapeMismatch)
	}
	return nil
}

// NewSmoothingModel builds an untrained stand-in model: each filter
// is a wrapped Gaussian bump at the origin with the given width in
// bins, so scoring just smooths the histogram and the estimate
// becomes a soft mode of the observed chroma. Channel 0 carries full
// weight and each further channel half the previous, since the edge
// histogram is the noisier vote. Zero bias.
func NewSmoothingModel(g fchroma.UVGrid, channels int, widthBins float64) *Model {
	n := g.NBins
	widthBins = math.Max(widthBins, 0.25)

	bump := fmath.NewGrid(n, n)
	for u := 0; u < n; u++ {
		du := wrapDist(u, n)
		for v := 0; v < n; v++ {
			dv := wrapDist(v, n)
			bump.Set(v, u, math.Exp(-0.5*(du*du+dv*dv)/(widthBins*widthBins)))
		}
	}
	bump.Scale(1.0 / bump.Sum())
	bumpFFT := fmath.FFT2(bump)

	filters := make([]*fmath.CmplxGrid, channels)
	weight := 1.0
	for c := range filters {
		filters[c] = bumpFFT.Copy()
		if weight != 1.0 {
			for i := range filters[c].Raw() {
				filters[c].Raw()[i] *= complex(weight, 0)
			}
		}
		weight /= 2
	}

	return &Model{FiltersFFT: filters, Bias: fmath.NewGrid(n, n), Grid: g}
}

// wrapDist is the circular distance from index i to 0 on an n-ring.
func wrapDist(i, n int) float64 {
	if i > n/2 {
		return float64(n - i)
	}
	return float64(i)
}
