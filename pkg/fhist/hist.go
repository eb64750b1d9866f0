package fhist

import (
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// ChromaHist builds the toroidal log-chrominance histogram of an
// image. Pixels with every channel above fmath.Eps vote for their
// nearest bin - u down the rows, v across the columns - and the
// counts are normalized to unit mass. Also returns the number of
// valid pixels: with zero of them the normalization is eps-floored
// and the histogram comes back all zero, a degenerate-but-defined
// result the caller should warn about rather than die on.
func ChromaHist(im *fchroma.Image, g fchroma.UVGrid) (*fmath.Grid, int) {
	hist := fmath.NewGrid(g.NBins, g.NBins)
	valid := 0

	for _, p := range im.Pix() {
		if p.MinChan() <= fmath.Eps {
			continue
		}
		uv := fchroma.PixelToUV(p)
		hist.Add(g.BinOf(uv[1]), g.BinOf(uv[0]), 1)
		valid++
	}

	hist.Scale(1.0 / math.Max(fmath.Eps, float64(valid)))
	return hist, valid
}

// Featurize builds the feature channels the filter bank scores:
// channel 0 is the raw image's chroma histogram, channel 1 the edge
// image's. Returned counts are the per-channel valid pixel counts.
func Featurize(im *fchroma.Image, g fchroma.UVGrid) ([]*fmath.Grid, []int) {
	rawH, rawN := ChromaHist(im, g)
	edgeH, edgeN := ChromaHist(EdgeImage(im), g)
	return []*fmath.Grid{rawH, edgeH}, []int{rawN, edgeN}
}
