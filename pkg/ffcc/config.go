package ffcc

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
)

/* Example config file ...

grid:
  nbins: 64
  binsize: 0.03125
  firstbin: -0.96875

features:
  edgechannel: true
  extendedbins: [-4, -2, -1, 0, 1, 2, 4]

rendering:
  outputdir: out
  scale: 8
  dumpgrids: true

workers: 4
loglevel: info
*/

type FeatureOptions struct {
	// Whether to build the second (edge histogram) feature channel
	EdgeChannel bool

	// Non-uniform bin centers for the auxiliary scalar feature,
	// strictly increasing; empty means no auxiliary feature
	ExtendedBins []float64
}

type RenderOptions struct {
	OutputDir string
	Scale     int // output pixels per histogram bin
	DumpGrids bool
}

type Config struct {
	Grid      fchroma.UVGrid
	Features  FeatureOptions
	Rendering RenderOptions
	Workers   int
	LogLevel  string
}

func NewConfig() Config {
	return Config{
		Grid:      fchroma.DefaultUVGrid(),
		Features:  FeatureOptions{EdgeChannel: true},
		Rendering: RenderOptions{OutputDir: ".", Scale: 8},
		Workers:   runtime.NumCPU(),
		LogLevel:  "warn",
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("config read %s: %v", filename, err)
	}
	return NewConfigFromYaml(contents)
}

func NewConfigFromYaml(contents []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse: %v", err)
	}
	return c, c.Finalize()
}

// Finalize does sanity checks and fills in anything left defaulted.
func (c *Config) Finalize() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	for i := 1; i < len(c.Features.ExtendedBins); i++ {
		if c.Features.ExtendedBins[i] <= c.Features.ExtendedBins[i-1] {
			return fmt.Errorf("extendedbins must be strictly increasing, got %v at %d",
				c.Features.ExtendedBins, i)
		}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Rendering.Scale < 1 {
		c.Rendering.Scale = 8
	}
	if c.LogLevel != "" {
		if err := SetLogLevel(c.LogLevel); err != nil {
			return fmt.Errorf("loglevel: %v", err)
		}
	}
	return nil
}

func (c Config) AsYaml() string {
	b, _ := yaml.Marshal(c)
	return string(b)
}
