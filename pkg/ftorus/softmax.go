package ftorus

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// Softmax turns a score surface into a PMF: shift by the max so the
// exponentials cannot overflow, exponentiate, normalize. The surface
// must be square, since everything downstream lives on a torus.
func Softmax(h *fmath.Grid) (*fmath.Grid, error) {
	if !h.IsSquare() {
		return nil, fmt.Errorf("scores %dx%d: %w", h.Dx(), h.Dy(), fmath.ErrNotSquare)
	}

	pmf := h.Copy()
	raw := pmf.Raw()
	max := floats.Max(raw)
	for i := range raw {
		raw[i] = math.Exp(raw[i] - max)
	}
	// the max entry contributes exactly 1, so the sum can't vanish
	floats.Scale(1.0/floats.Sum(raw), raw)
	return pmf, nil
}
