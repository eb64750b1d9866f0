package ffcc

import (
	"fmt"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fhist"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// A FeatureSet is one batch element's model inputs: the histogram
// channels, their valid-pixel counts, and - when configured - the
// non-uniform splat of an auxiliary scalar (typically log exposure
// pulled out of EXIF by ReadExposure).
type FeatureSet struct {
	Hist     []*fmath.Grid
	Valid    []int
	Extended []float64
}

// Preprocess featurizes a batch in parallel. scalars supplies the
// auxiliary feature per image and may be nil when the config has no
// extended bins; otherwise its length must match the batch.
func Preprocess(batch []*fchroma.Image, scalars []float64, cfg Config) ([]FeatureSet, error) {
	wantExtended := len(cfg.Features.ExtendedBins) > 0
	if wantExtended && len(scalars) != len(batch) {
		return nil, fmt.Errorf("%d auxiliary scalars for %d images: %w",
			len(scalars), len(batch), fmath.ErrShapeMismatch)
	}

	out := make([]FeatureSet, len(batch))
	parallelFor(len(batch), cfg.Workers, func(i int) {
		im := batch[i]
		if cfg.Features.EdgeChannel {
			out[i].Hist, out[i].Valid = fhist.Featurize(im, cfg.Grid)
		} else {
			h, n := fhist.ChromaHist(im, cfg.Grid)
			out[i].Hist, out[i].Valid = []*fmath.Grid{h}, []int{n}
		}
		if out[i].Valid[0] == 0 {
			logger.Warn().Int("element", i).Msg("no valid pixels; histogram is all zero")
		}
		if wantExtended {
			out[i].Extended = fhist.SplatNonUniform(scalars[i], cfg.Features.ExtendedBins)
		}
	})

	return out, nil
}
