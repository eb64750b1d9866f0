package fmath

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// A CmplxGrid is the complex-valued sibling of Grid, used for
// frequency-domain work.
type CmplxGrid struct {
	stride int
	values []complex128
}

func NewCmplxGrid(w, h int) *CmplxGrid {
	return &CmplxGrid{
		stride: w,
		values: make([]complex128, w*h),
	}
}

func (cg *CmplxGrid) Set(x, y int, v complex128) { cg.values[cg.stride*y+x] = v }
func (cg *CmplxGrid) Get(x, y int) complex128    { return cg.values[cg.stride*y+x] }
func (cg *CmplxGrid) Dx() int                    { return cg.stride }
func (cg *CmplxGrid) Dy() int                    { return len(cg.values) / cg.stride }

// Raw exposes the backing slice, so callers can run pointwise
// frequency-domain arithmetic without going through Set/Get.
func (cg *CmplxGrid) Raw() []complex128 { return cg.values }

func (cg *CmplxGrid) Copy() *CmplxGrid {
	c2 := CmplxGrid{stride: cg.stride, values: make([]complex128, len(cg.values))}
	copy(c2.values, cg.values)
	return &c2
}

func (cg *CmplxGrid) SameShape(o *CmplxGrid) bool {
	return cg.stride == o.stride && len(cg.values) == len(o.values)
}

// FFT2 returns the 2D discrete Fourier transform of g, computed as 1D
// transforms along every row and then every column. Plans are reused
// across all the rows (resp. columns) of the call, but not between
// calls; fourier.CmplxFFT is not safe for concurrent use, and batch
// elements run on separate goroutines.
func FFT2(g *Grid) *CmplxGrid {
	cg := NewCmplxGrid(g.Dx(), g.Dy())
	for i, v := range g.values {
		cg.values[i] = complex(v, 0)
	}
	fft2InPlace(cg, true)
	return cg
}

// IFFT2Real returns the real part of the 2D inverse transform of cg.
// The gonum transforms are unnormalized, so the inverse divides by
// w*h to undo the forward scaling. The imaginary part is dropped; for
// the conjugate-symmetric spectra this package produces it is noise.
func IFFT2Real(cg *CmplxGrid) *Grid {
	tmp := cg.Copy()
	fft2InPlace(tmp, false)

	g := NewGrid(cg.Dx(), cg.Dy())
	n := float64(len(tmp.values))
	for i, v := range tmp.values {
		g.values[i] = real(v) / n
	}
	return g
}

// Row-column decomposition. The same fft2 serves both directions:
// forward uses Coefficients, inverse uses Sequence.
func fft2InPlace(cg *CmplxGrid, forward bool) {
	w, h := cg.Dx(), cg.Dy()

	rowFFT := fourier.NewCmplxFFT(w)
	row := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(row, cg.values[y*w:(y+1)*w])
		if forward {
			rowFFT.Coefficients(cg.values[y*w:(y+1)*w], row)
		} else {
			rowFFT.Sequence(cg.values[y*w:(y+1)*w], row)
		}
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	out := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = cg.values[y*w+x]
		}
		if forward {
			colFFT.Coefficients(out, col)
		} else {
			colFFT.Sequence(out, col)
		}
		for y := 0; y < h; y++ {
			cg.values[y*w+x] = out[y]
		}
	}
}
