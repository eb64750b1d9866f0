package ffcc

import (
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/mat"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
	"github.com/mahmoudnafifi/ffcc/pkg/ftorus"
)

// Colormap stops for the grid heatmaps, blended in Luv so the ramp
// reads as a steady increase in brightness.
var heatStops = []colorful.Color{
	{R: 0.05, G: 0.05, B: 0.30},
	{R: 0.00, G: 0.55, B: 0.55},
	{R: 0.35, G: 0.80, B: 0.10},
	{R: 1.00, G: 0.95, B: 0.20},
}

func heatColor(t float64) colorful.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	seg := t * float64(len(heatStops)-1)
	i := int(seg)
	if i >= len(heatStops)-1 {
		i = len(heatStops) - 2
	}
	return heatStops[i].BlendLuv(heatStops[i+1], seg-float64(i)).Clamped()
}

// RenderGrid writes a grid as a colormapped PNG, one sc x sc square
// per bin, normalized to the grid's own value range. Screen x is the
// v axis and screen y is the u axis, same as the grid layout.
func RenderGrid(g *fmath.Grid, sc int, title, filename string) error {
	dc := heatmap(g, sc)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 8, 12)
	return dc.SavePNG(filename)
}

// RenderEstimate draws a PMF heatmap with the fitted mean marked by a
// crosshair and a 2-sigma covariance ellipse. The moments must still
// be in bin units, i.e. taken before any rescale to chroma units.
func RenderEstimate(pmf *fmath.Grid, mom ftorus.Moments, sc int, title, filename string) error {
	dc := heatmap(pmf, sc)

	cx := (mom.Mu[1] + 0.5) * float64(sc)
	cy := (mom.Mu[0] + 0.5) * float64(sc)

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawLine(cx-float64(sc), cy, cx+float64(sc), cy)
	dc.DrawLine(cx, cy-float64(sc), cx, cy+float64(sc))
	dc.Stroke()

	var eig mat.EigenSym
	if !eig.Factorize(mom.Sigma, true) {
		logger.Warn().Msg("covariance did not factorize; skipping the ellipse")
	} else {
		vals := eig.Values(nil) // ascending
		var vecs mat.Dense
		eig.VectorsTo(&vecs)
		if vals[1] > fmath.Eps {
			// Major-axis eigenvector, mapped into screen space
			// (x=v, y=u).
			phi := math.Atan2(vecs.At(0, 1), vecs.At(1, 1))
			rx := 2 * math.Sqrt(vals[1]) * float64(sc)
			ry := 0.0
			if vals[0] > 0 {
				ry = 2 * math.Sqrt(vals[0]) * float64(sc)
			}
			dc.Push()
			dc.RotateAbout(phi, cx, cy)
			dc.DrawEllipse(cx, cy, rx, ry)
			dc.Stroke()
			dc.Pop()
		}
	}

	dc.DrawString(title, 8, 12)
	return dc.SavePNG(filename)
}

func heatmap(g *fmath.Grid, sc int) *gg.Context {
	min, max := g.MinMax()
	span := max - min
	if span < fmath.Eps {
		span = 1 // flat grid renders as the bottom stop
	}
	dc := gg.NewContext(g.Dx()*sc, g.Dy()*sc)
	for y := 0; y < g.Dy(); y++ {
		for x := 0; x < g.Dx(); x++ {
			dc.SetColor(heatColor((g.Get(x, y) - min) / span))
			dc.DrawRectangle(float64(x*sc), float64(y*sc), float64(sc), float64(sc))
			dc.Fill()
		}
	}
	return dc
}

// LogChromaStats logs per-axis bucket distributions of an image's
// chroma values, a quick way to eyeball whether the bin grid actually
// covers the data.
func LogChromaStats(im *fchroma.Image, g fchroma.UVGrid) {
	hu := histogram.Histogram{NumBuckets: g.NBins, ValMin: 0, ValMax: g.NBins}
	hv := histogram.Histogram{NumBuckets: g.NBins, ValMin: 0, ValMax: g.NBins}
	skipped := 0
	for _, p := range im.Pix() {
		if p.MinChan() <= fmath.Eps {
			skipped++
			continue
		}
		uv := fchroma.PixelToUV(p)
		hu.Add(histogram.ScalarVal(g.BinOf(uv[0])))
		hv.Add(histogram.ScalarVal(g.BinOf(uv[1])))
	}
	logger.Info().Int("skipped", skipped).Msgf("u bins: %s", hu)
	logger.Info().Int("skipped", skipped).Msgf("v bins: %s", hv)
}
