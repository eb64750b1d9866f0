package ftorus

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// EvalFilters scores feature channels against a frequency-domain
// filter bank: per channel, circular convolution via pointwise
// spectral multiplication, accumulated over channels in the frequency
// domain, inverse transformed once, plus a spatial bias. Filters are
// supplied already transformed; features are transformed here.
func EvalFilters(feats []*fmath.Grid, filters []*fmath.CmplxGrid, bias *fmath.Grid) (*fmath.Grid, error) {
	if len(feats) == 0 {
		return nil, fmt.Errorf("no feature channels: %w", fmath.ErrShapeMismatch)
	}
	if len(feats) != len(filters) {
		return nil, fmt.Errorf("%d feature channels vs %d filters: %w",
			len(feats), len(filters), fmath.ErrShapeMismatch)
	}

	w, h := feats[0].Dx(), feats[0].Dy()
	for c := range feats {
		if feats[c].Dx() != w || feats[c].Dy() != h {
			return nil, fmt.Errorf("feature channel %d is %dx%d, want %dx%d: %w",
				c, feats[c].Dx(), feats[c].Dy(), w, h, fmath.ErrShapeMismatch)
		}
		if filters[c].Dx() != w || filters[c].Dy() != h {
			return nil, fmt.Errorf("filter channel %d is %dx%d, want %dx%d: %w",
				c, filters[c].Dx(), filters[c].Dy(), w, h, fmath.ErrShapeMismatch)
		}
	}
	if bias.Dx() != w || bias.Dy() != h {
		return nil, fmt.Errorf("bias is %dx%d, want %dx%d: %w",
			bias.Dx(), bias.Dy(), w, h, fmath.ErrShapeMismatch)
	}

	acc := fmath.NewCmplxGrid(w, h)
	araw := acc.Raw()
	for c := range feats {
		featFFT := fmath.FFT2(feats[c]).Raw()
		for i, fc := range filters[c].Raw() {
			araw[i] += featFFT[i] * fc
		}
	}

	scores := fmath.IFFT2Real(acc)
	floats.Add(scores.Raw(), bias.Raw())
	return scores, nil
}
