package fchroma

import (
	"errors"
	"math"
	"testing"
)

func TestNeutralGrayIsOrigin(t *testing.T) {
	uv := PixelToUV(RGB{0.5, 0.5, 0.5})
	if math.Abs(uv[0]) > 1e-12 || math.Abs(uv[1]) > 1e-12 {
		t.Fatalf("gray uv: %v", uv)
	}
}

func TestUVRoundTrip(t *testing.T) {
	// unit-norm triple, since UVToRGB projects onto the unit sphere
	in := RGB{0.6, 0.48, 0.64}
	n := math.Sqrt(in[0]*in[0] + in[1]*in[1] + in[2]*in[2])
	in = RGB{in[0] / n, in[1] / n, in[2] / n}

	out := UVToRGB(PixelToUV(in))
	for c := 0; c < 3; c++ {
		if math.Abs(out[c]-in[c]) > 1e-9 {
			t.Fatalf("channel %d: %f vs %f", c, out[c], in[c])
		}
	}
}

func TestImageToUVRejectsNegatives(t *testing.T) {
	im := NewImage(2, 1)
	im.Set(1, 0, RGB{0.1, -0.2, 0.3})
	if _, err := ImageToUV(im); !errors.Is(err, ErrNegativeInput) {
		t.Fatalf("want ErrNegativeInput, got %v", err)
	}
}

func TestApplyWBNeutralizesTint(t *testing.T) {
	tint := RGB{0.8, 1.2, 0.6}
	im := NewImage(1, 1)
	im.Set(0, 0, RGB{0.4 * tint[0], 0.4 * tint[1], 0.4 * tint[2]})

	out := ApplyWB(im, PixelToUV(tint))
	p := out.At(0, 0)
	if math.Abs(p[0]-p[1]) > 1e-9 || math.Abs(p[1]-p[2]) > 1e-9 {
		t.Fatalf("not neutral after wb: %v", p)
	}
	if math.Abs(p[1]-0.4*tint[1]) > 1e-9 {
		t.Fatalf("green channel moved: %v", p)
	}
}

func TestUVGridAffineRoundTrip(t *testing.T) {
	g := DefaultUVGrid()
	for _, i := range []float64{0, 1, 31.5, 63} {
		if got := g.UVToIdx(g.IdxToUV(i)); math.Abs(got-i) > 1e-9 {
			t.Fatalf("idx %f round trips to %f", i, got)
		}
	}
}

func TestUVGridBinWraps(t *testing.T) {
	g := UVGrid{NBins: 8, BinSize: 0.25, FirstBin: -1.0}
	if b := g.BinOf(-1.0); b != 0 {
		t.Fatalf("first bin: %d", b)
	}
	if b := g.BinOf(-1.0 + 7*0.25); b != 7 {
		t.Fatalf("last bin: %d", b)
	}
	// one full period above the first bin center lands back on bin 0
	if b := g.BinOf(-1.0 + 8*0.25); b != 0 {
		t.Fatalf("wrap above: %d", b)
	}
	if b := g.BinOf(-1.0 - 0.25); b != 7 {
		t.Fatalf("wrap below: %d", b)
	}
}

func TestFloorMod(t *testing.T) {
	if FloorMod(-1, 8) != 7 || FloorMod(8, 8) != 0 || FloorMod(-9, 8) != 7 {
		t.Fatal("floormod failed")
	}
}
