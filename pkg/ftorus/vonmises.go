package ftorus

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

var ErrNotNormalized = errors.New("pmf mass is not 1")

// How far a PMF's mass may drift from 1 before we call it a caller bug.
const massTol = 1e-4

// Moments holds a fitted bivariate distribution over the toroidal
// grid: Mu is the circular mean (u then v, fractional bin units until
// Rescale), Sigma the 2x2 covariance of the wrapped deltas.
type Moments struct {
	Mu    [2]float64
	Sigma *mat.SymDense
}

// Rescale maps index-space moments to physical units given the bin
// pitch and the bin-0 center. The mean moves affinely; covariance is
// translation invariant so it only picks up step squared.
func (m Moments) Rescale(step, offset float64) Moments {
	out := Moments{
		Mu:    [2]float64{m.Mu[0]*step + offset, m.Mu[1]*step + offset},
		Sigma: mat.NewSymDense(2, nil),
	}
	for i := 0; i < 2; i++ {
		for j := i; j < 2; j++ {
			out.Sigma.SetSym(i, j, m.Sigma.At(i, j)*step*step)
		}
	}
	return out
}

// FitVonMises fits circular mean and covariance to a PMF living on
// the n x n torus. Each axis is treated as an angle: bin i sits at
// i*2pi/n, the marginal's expected sine and cosine give the mean via
// atan2, and second moments are taken over signed shortest-path
// (wrapped) deltas from that mean - never raw index differences,
// which would be wrong at the seam.
func FitVonMises(pmf *fmath.Grid) (Moments, error) {
	if !pmf.IsSquare() {
		return Moments{}, fmt.Errorf("pmf %dx%d: %w", pmf.Dx(), pmf.Dy(), fmath.ErrNotSquare)
	}
	if mass := pmf.Sum(); math.Abs(mass-1) > massTol {
		return Moments{}, fmt.Errorf("pmf mass %f: %w", mass, ErrNotNormalized)
	}
	n := pmf.Dx()

	// Marginals: u indexes rows, v indexes columns.
	sumU := make([]float64, n)
	sumV := make([]float64, n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			p := pmf.Get(v, u)
			sumU[u] += p
			sumV[v] += p
		}
	}

	muU := circularMean(sumU)
	muV := circularMean(sumV)

	du := wrappedDeltas(muU, n)
	dv := wrappedDeltas(muV, n)

	eu := floats.Dot(du, sumU)
	ev := floats.Dot(dv, sumV)
	varU := secondMoment(du, sumU) - eu*eu
	varV := secondMoment(dv, sumV) - ev*ev

	// Cross moment through the full joint: du' * P * dv.
	P := mat.NewDense(n, n, pmf.Raw())
	cov := mat.Inner(mat.NewVecDense(n, du), P, mat.NewVecDense(n, dv)) - eu*ev

	sigma := mat.NewSymDense(2, nil)
	sigma.SetSym(0, 0, varU)
	sigma.SetSym(0, 1, cov)
	sigma.SetSym(1, 1, varV)

	return Moments{Mu: [2]float64{muU, muV}, Sigma: sigma}, nil
}

// circularMean takes marginal weights over n points on a circle and
// returns the mean position in index units, in [0, n).
func circularMean(w []float64) float64 {
	n := len(w)
	step := 2 * math.Pi / float64(n)
	var c, s float64
	for i, wi := range w {
		a := float64(i) * step
		c += wi * math.Cos(a)
		s += wi * math.Sin(a)
	}
	angle := math.Atan2(s, c)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle / step
}

// wrappedDeltas returns each bin's signed shortest-path distance to
// mu on the n-torus, in [-n/2, n/2).
func wrappedDeltas(mu float64, n int) []float64 {
	d := make([]float64, n)
	nf := float64(n)
	half := nf / 2
	for i := range d {
		m := math.Mod(float64(i)-mu+half, nf)
		if m < 0 {
			m += nf
		}
		d[i] = m - half
	}
	return d
}

func secondMoment(d, w []float64) float64 {
	acc := 0.0
	for i := range d {
		acc += d[i] * d[i] * w[i]
	}
	return acc
}
