package ffcc

import (
	"strings"
	"testing"
)

func TestConfigFromYaml(t *testing.T) {
	doc := `
grid:
  nbins: 32
  binsize: 0.0625
  firstbin: -0.9375

features:
  edgechannel: false
  extendedbins: [-4, -2, 0, 2, 4]

rendering:
  outputdir: out
  scale: 4
  dumpgrids: true

workers: 2
loglevel: error
`
	c, err := NewConfigFromYaml([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if c.Grid.NBins != 32 || c.Grid.BinSize != 0.0625 || c.Grid.FirstBin != -0.9375 {
		t.Fatalf("grid did not parse: %+v", c.Grid)
	}
	if c.Features.EdgeChannel {
		t.Fatal("edgechannel should have parsed as false")
	}
	if len(c.Features.ExtendedBins) != 5 || c.Features.ExtendedBins[0] != -4 {
		t.Fatalf("extendedbins did not parse: %v", c.Features.ExtendedBins)
	}
	if c.Rendering.OutputDir != "out" || c.Rendering.Scale != 4 || !c.Rendering.DumpGrids {
		t.Fatalf("rendering did not parse: %+v", c.Rendering)
	}
	if c.Workers != 2 || c.LogLevel != "error" {
		t.Fatalf("got workers %d loglevel %q", c.Workers, c.LogLevel)
	}
}

func TestConfigDefaultsSurviveEmptyYaml(t *testing.T) {
	c, err := NewConfigFromYaml([]byte(""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Grid.NBins != 64 {
		t.Fatalf("default grid should be 64 bins, got %d", c.Grid.NBins)
	}
	if !c.Features.EdgeChannel {
		t.Fatal("edge channel should default on")
	}
	if c.Workers < 1 || c.Rendering.Scale < 1 {
		t.Fatalf("fallbacks not applied: workers %d scale %d", c.Workers, c.Rendering.Scale)
	}
}

func TestConfigRejectsUnsortedExtendedBins(t *testing.T) {
	_, err := NewConfigFromYaml([]byte("features:\n  extendedbins: [0, 2, 1]\n"))
	if err == nil || !strings.Contains(err.Error(), "extendedbins") {
		t.Fatalf("got %v, want an extendedbins ordering error", err)
	}
}

func TestConfigRejectsBadGrid(t *testing.T) {
	_, err := NewConfigFromYaml([]byte("grid:\n  nbins: 0\n"))
	if err == nil {
		t.Fatal("expected an error for a zero-bin grid")
	}
}

func TestConfigYamlRoundTrip(t *testing.T) {
	c := NewConfig()
	c.Workers = 3
	c2, err := NewConfigFromYaml([]byte(c.AsYaml()))
	if err != nil {
		t.Fatal(err)
	}
	if c2.Workers != 3 || c2.Grid != c.Grid {
		t.Fatalf("round trip drifted: %+v vs %+v", c2, c)
	}
}
