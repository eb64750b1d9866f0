package ffcc

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
	"github.com/mahmoudnafifi/ffcc/pkg/ftorus"
)

func TestRenderGridWritesPNG(t *testing.T) {
	g := fmath.NewGrid(8, 8)
	for i := range g.Raw() {
		g.Raw()[i] = float64(i)
	}

	fn := filepath.Join(t.TempDir(), "grid.png")
	if err := RenderGrid(g, 4, "ramp", fn); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(fn)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("rendered %dx%d, want 32x32 at scale 4", b.Dx(), b.Dy())
	}
}

func TestRenderEstimateWritesPNG(t *testing.T) {
	pmf := fmath.NewGrid(8, 8)
	pmf.Set(2, 2, 0.5)
	pmf.Set(3, 2, 0.5)
	mom, err := ftorus.FitVonMises(pmf)
	if err != nil {
		t.Fatal(err)
	}

	fn := filepath.Join(t.TempDir(), "fit.png")
	if err := RenderEstimate(pmf, mom, 4, "fit", fn); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(fn); err != nil || fi.Size() == 0 {
		t.Fatalf("expected a non-empty file: %v", err)
	}
}

func TestHeatColorRampEndpoints(t *testing.T) {
	// Out-of-range inputs pin to the end stops; the Luv round trip
	// inside the blend costs a little float noise.
	if d := heatColor(-0.5).DistanceRgb(heatStops[0]); d > 1e-6 {
		t.Fatalf("below-range input %f away from the first stop", d)
	}
	if d := heatColor(1.5).DistanceRgb(heatStops[len(heatStops)-1]); d > 1e-6 {
		t.Fatalf("above-range input %f away from the last stop", d)
	}
}

func TestLogChromaStatsEmits(t *testing.T) {
	old := logger
	defer SetLogger(old)

	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))

	LogChromaStats(constImage(3, 3, fchroma.RGB{0.8, 0.5, 0.4}), fchroma.DefaultUVGrid())
	out := buf.String()
	if !strings.Contains(out, "u bins") || !strings.Contains(out, "v bins") {
		t.Fatalf("expected per-axis stats in the log, got: %s", out)
	}
}
