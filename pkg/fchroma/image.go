package fchroma

import (
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"golang.org/x/image/math/f64"

	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// Local types so we can hang methods off them.
type RGB f64.Vec3
type UV f64.Vec2

// MinChan returns the smallest of the three channels. Pixels are only
// chroma-representable when this exceeds fmath.Eps.
func (p RGB) MinChan() float64 {
	m := p[0]
	if p[1] < m {
		m = p[1]
	}
	if p[2] < m {
		m = p[2]
	}
	return m
}

// An Image is a linear-light RGB image, one float64 per channel. All
// of the estimator math happens on these; the loaders in pkg/ffcc
// turn files into them.
type Image struct {
	w, h int
	pix  []RGB
}

func NewImage(w, h int) *Image {
	return &Image{w: w, h: h, pix: make([]RGB, w*h)}
}

func (im *Image) Dx() int              { return im.w }
func (im *Image) Dy() int              { return im.h }
func (im *Image) At(x, y int) RGB      { return im.pix[y*im.w+x] }
func (im *Image) Set(x, y int, p RGB)  { im.pix[y*im.w+x] = p }
func (im *Image) Pix() []RGB           { return im.pix }

// FromImage converts a decoded 8/16-bit image, assumed to carry the
// usual sRGB encoding, into linear light.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	im := NewImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := src.At(x, y).RGBA()
			im.Set(x-b.Min.X, y-b.Min.Y, RGB{
				fmath.GammaExpand_F64(float64(r) / 65535.0),
				fmath.GammaExpand_F64(float64(g) / 65535.0),
				fmath.GammaExpand_F64(float64(bb) / 65535.0),
			})
		}
	}
	return im
}

// FromLinearImage is FromImage without the gamma expansion, for
// 16-bit camera dumps that are already linear.
func FromLinearImage(src image.Image) *Image {
	b := src.Bounds()
	im := NewImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := src.At(x, y).RGBA()
			im.Set(x-b.Min.X, y-b.Min.Y, RGB{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(bb) / 65535.0,
			})
		}
	}
	return im
}

// FromHDR pulls the float channels straight out of an HDR image,
// which is linear by definition.
func FromHDR(src hdr.Image) *Image {
	b := src.Bounds()
	im := NewImage(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := src.HDRAt(x, y).HDRRGBA()
			im.Set(x-b.Min.X, y-b.Min.Y, RGB{r, g, bb})
		}
	}
	return im
}

// ToImage gamma compresses back to 8-bit sRGB, clipping at white, for
// writing ordinary output files.
func (im *Image) ToImage() image.Image {
	out := image.NewNRGBA(image.Rect(0, 0, im.w, im.h))
	for y := 0; y < im.h; y++ {
		for x := 0; x < im.w; x++ {
			p := im.At(x, y)
			out.SetNRGBA(x, y, color.NRGBA{clip8(p[0]), clip8(p[1]), clip8(p[2]), 0xFF})
		}
	}
	return out
}

func clip8(v float64) uint8 {
	v = fmath.GammaCompress_F64(v)
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
