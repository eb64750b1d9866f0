package fhist

import (
	"math"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
)

var neighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// EdgeImage computes, per channel, the mean absolute difference
// between each pixel and its 8 neighbors. Borders are symmetrically
// padded (missing neighbors mirror back inside the image), so a
// constant image has zero edge response everywhere, borders included.
func EdgeImage(im *fchroma.Image) *fchroma.Image {
	w, h := im.Dx(), im.Dy()
	out := fchroma.NewImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := im.At(x, y)
			var acc fchroma.RGB
			for _, d := range neighbors {
				p := im.At(mirror(x+d[0], w), mirror(y+d[1], h))
				acc[0] += math.Abs(c[0] - p[0])
				acc[1] += math.Abs(c[1] - p[1])
				acc[2] += math.Abs(c[2] - p[2])
			}
			out.Set(x, y, fchroma.RGB{acc[0] / 8.0, acc[1] / 8.0, acc[2] / 8.0})
		}
	}
	return out
}

// mirror reflects an out-of-range index back inside: -1 -> 0, n -> n-1.
func mirror(i, n int) int {
	if i < 0 {
		return -i - 1
	}
	if i >= n {
		return 2*n - i - 1
	}
	return i
}
