package ffcc

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fhist"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
	"github.com/mahmoudnafifi/ffcc/pkg/ftorus"
)

// An Estimator runs the inference pipeline against one model. It is
// safe for concurrent use: the model is read-only and every call
// allocates its own intermediates.
type Estimator struct {
	Model *Model

	// Debug knobs, in the spirit of dumping intermediate grids
	DumpGrids   bool
	DumpDir     string
	RenderScale int
}

// An Estimate is the fitted illuminant in physical UV units, its
// covariance, and the PMF it was read off (kept around for rendering
// and loss computation).
type Estimate struct {
	UV    fchroma.UV
	Sigma *mat.SymDense
	PMF   *fmath.Grid
}

// Apply white-balances an image with this estimate's gains.
func (est Estimate) Apply(im *fchroma.Image) *fchroma.Image {
	return fchroma.ApplyWB(im, est.UV)
}

// RGB is the estimated illuminant as a unit-norm RGB direction.
func (est Estimate) RGB() fchroma.RGB { return fchroma.UVToRGB(est.UV) }

func NewEstimator(m *Model) (*Estimator, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("estimator model: %w", err)
	}
	return &Estimator{Model: m, RenderScale: 8}, nil
}

// Estimate runs featurize -> score -> softmax -> toroidal fit ->
// unit rescale for a single image.
func (e *Estimator) Estimate(im *fchroma.Image) (Estimate, error) {
	g := e.Model.Grid

	var feats []*fmath.Grid
	var counts []int
	if e.Model.Channels() == 1 {
		h, c := fhist.ChromaHist(im, g)
		feats, counts = []*fmath.Grid{h}, []int{c}
	} else {
		feats, counts = fhist.Featurize(im, g)
	}
	if e.Model.Channels() > len(feats) {
		return Estimate{}, fmt.Errorf("model wants %d feature channels, featurizer built %d: %w",
			e.Model.Channels(), len(feats), fmath.ErrShapeMismatch)
	}
	if counts[0] == 0 {
		logger.Warn().Msg("image has no valid pixels; scoring the empty histogram against the prior")
	}
	for c, f := range feats {
		e.maybeDump(f, fmt.Sprintf("%03d-feature", c))
	}

	scores, err := ftorus.EvalFilters(feats, e.Model.FiltersFFT, e.Model.Bias)
	if err != nil {
		return Estimate{}, err
	}
	e.maybeDump(scores, "010-scores")

	pmf, err := ftorus.Softmax(scores)
	if err != nil {
		return Estimate{}, err
	}
	e.maybeDump(pmf, "011-pmf")

	mom, err := ftorus.FitVonMises(pmf)
	if err != nil {
		return Estimate{}, err
	}
	mom = mom.Rescale(g.BinSize, g.FirstBin)

	logger.Debug().
		Float64("u", mom.Mu[0]).Float64("v", mom.Mu[1]).
		Int("valid", counts[0]).
		Msg("illuminant estimated")

	return Estimate{UV: fchroma.UV{mom.Mu[0], mom.Mu[1]}, Sigma: mom.Sigma, PMF: pmf}, nil
}

// EstimateAll fans a batch out over workers goroutines. Elements are
// independent; the first failure fails the whole batch.
func (e *Estimator) EstimateAll(batch []*fchroma.Image, workers int) ([]Estimate, error) {
	out := make([]Estimate, len(batch))
	errs := make([]error, len(batch))

	parallelFor(len(batch), workers, func(i int) {
		out[i], errs[i] = e.Estimate(batch[i])
	})

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch element %d: %w", i, err)
		}
	}
	return out, nil
}

// GrayWorld estimates straight off the raw chroma histogram - no
// model, no smoothing, just the toroidal soft mode of the observed
// chroma. An image with no valid pixels has no distribution to fit,
// which comes back as an error rather than a degenerate estimate.
func GrayWorld(im *fchroma.Image, g fchroma.UVGrid) (Estimate, error) {
	hist, valid := fhist.ChromaHist(im, g)
	if valid == 0 {
		logger.Warn().Msg("gray world: image has no valid pixels")
		return Estimate{}, fmt.Errorf("gray world: image has no valid pixels")
	}

	mom, err := ftorus.FitVonMises(hist)
	if err != nil {
		return Estimate{}, err
	}
	mom = mom.Rescale(g.BinSize, g.FirstBin)
	return Estimate{UV: fchroma.UV{mom.Mu[0], mom.Mu[1]}, Sigma: mom.Sigma, PMF: hist}, nil
}

func (e *Estimator) maybeDump(g *fmath.Grid, name string) {
	if !e.DumpGrids {
		return
	}
	fn := filepath.Join(e.DumpDir, name+".png")
	if err := RenderGrid(g, e.RenderScale, name, fn); err != nil {
		logger.Error().Err(err).Str("file", fn).Msg("grid dump failed")
	}
}
