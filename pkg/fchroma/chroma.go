package fchroma

import (
	"errors"
	"fmt"
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

var ErrNegativeInput = errors.New("negative rgb input")

// The log-chrominance space drops overall brightness and keeps two
// white-point coordinates:
//
//	u = log(g) - log(r)
//	v = log(g) - log(b)
//
// so a neutral gray sits at (0,0) and exposure changes move nothing.
// See https://arxiv.org/abs/1611.07596 (FFCC).

// PixelToUV converts one linear RGB value, clamping each channel to
// fmath.Eps before the logs. Callers wanting the negative-input check
// go through ImageToUV.
func PixelToUV(p RGB) UV {
	r := math.Max(p[0], fmath.Eps)
	g := math.Max(p[1], fmath.Eps)
	b := math.Max(p[2], fmath.Eps)
	return UV{math.Log(g) - math.Log(r), math.Log(g) - math.Log(b)}
}

// ImageToUV converts every pixel to log-chrominance, row-major. A
// negative channel anywhere is a caller bug (linear camera data is
// non-negative) and fails the whole image.
func ImageToUV(im *Image) ([]UV, error) {
	uvs := make([]UV, 0, im.Dx()*im.Dy())
	for y := 0; y < im.Dy(); y++ {
		for x := 0; x < im.Dx(); x++ {
			p := im.At(x, y)
			if p[0] < 0 || p[1] < 0 || p[2] < 0 {
				return nil, fmt.Errorf("pixel %d,%d: %w", x, y, ErrNegativeInput)
			}
			uvs = append(uvs, PixelToUV(p))
		}
	}
	return uvs, nil
}

// UVToRGB maps a white-point estimate back to a unit-norm RGB
// direction, fixing g=1 before normalizing.
func UVToRGB(uv UV) RGB {
	p := RGB{math.Exp(-uv[0]), 1.0, math.Exp(-uv[1])}
	n := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	return RGB{p[0] / n, p[1] / n, p[2] / n}
}

// ApplyWB white-balances an image given the illuminant estimate uv:
// per-pixel channel gains (e^u, 1, e^v). Returns a new image.
func ApplyWB(im *Image, uv UV) *Image {
	gr, gb := math.Exp(uv[0]), math.Exp(uv[1])
	out := NewImage(im.Dx(), im.Dy())
	for i, p := range im.pix {
		out.pix[i] = RGB{p[0] * gr, p[1], p[2] * gb}
	}
	return out
}
