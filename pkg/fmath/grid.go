package fmath

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"
)

// Eps is the floor used to guard logs and divisions throughout the
// pipeline. Anything smaller than this is treated as zero.
const Eps = 1e-9

// A Grid is a dense 2D grid of floats, stored row-major. It holds
// histograms, PMFs and score surfaces, all of which are square, and
// image channels, which are not.
type Grid struct {
	stride int
	values []float64
}

func NewGrid(w, h int) *Grid {
	return &Grid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g *Grid) NewFromThis() *Grid          { return NewGrid(g.Dx(), g.Dy()) }
func (g *Grid) Set(x, y int, v float64)     { g.values[g.stride*y+x] = v }
func (g *Grid) Get(x, y int) float64        { return g.values[g.stride*y+x] }
func (g *Grid) Add(x, y int, v float64)     { g.values[g.stride*y+x] += v }
func (g *Grid) Dx() int                     { return g.stride }
func (g *Grid) Dy() int                     { return len(g.values) / g.stride }
func (g *Grid) IsSquare() bool              { return g.Dx() == g.Dy() }

// Raw exposes the backing slice, needed for gonum/floats and gonum/mat.
func (g *Grid) Raw() []float64 { return g.values }

func (g *Grid) Copy() *Grid {
	g2 := Grid{stride: g.stride, values: make([]float64, len(g.values))}
	copy(g2.values, g.values)
	return &g2
}

func (g *Grid) Sum() float64      { return floats.Sum(g.values) }
func (g *Grid) Scale(k float64)   { floats.Scale(k, g.values) }

func (g *Grid) MinMax() (float64, float64) {
	return floats.Min(g.values), floats.Max(g.values)
}

func (g *Grid) Stats() string {
	min, max := g.MinMax()
	return fmt.Sprintf("grid[%dx%d, vals{%f,%f}, sum %f]", g.Dx(), g.Dy(), min, max, g.Sum())
}

// SameShape reports whether two grids have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool {
	return g.stride == o.stride && len(g.values) == len(o.values)
}

// ToImg saves a simple grayscale rendering, based on the range of
// values in the grid, gamma compressed so mid values look mid-gray.
func (g *Grid) ToImg(title, filename string) error {
	min, max := g.MinMax()
	spread := max - min
	if spread < Eps {
		spread = Eps
	}

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{g.Dx(), g.Dy()}})
	for x := 0; x < g.Dx(); x++ {
		for y := 0; y < g.Dy(); y++ {
			gray := GammaCompress_F64((g.Get(x, y) - min) / spread)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 8, 12)
	return dc.SavePNG(filename)
}
