package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/ffcc"
	"github.com/mahmoudnafifi/ffcc/pkg/ftorus"
)

var (
	fConfigFile  string
	fOutputDir   string
	fNBins       int
	fBinSize     float64
	fFirstBin    float64
	fUV          string
	fGrayWorld   bool
	fEdge        bool
	fSmoothWidth float64
	fWorkers     int
	fDump        bool
	fLogLevel    string
)

func init() {
	flag.StringVar(&fConfigFile, "c", "", "yaml config file (flags override it)")
	flag.StringVar(&fOutputDir, "o", "", "output directory")

	flag.IntVar(&fNBins, "nbins", 0, "histogram bins per chroma axis")
	flag.Float64Var(&fBinSize, "binsize", 0, "chroma units per bin")
	flag.Float64Var(&fFirstBin, "firstbin", 0, "chroma value of bin 0's center")

	flag.StringVar(&fUV, "uv", "", "skip estimation, white balance with this 'u,v' illuminant")
	flag.BoolVar(&fGrayWorld, "gray", false, "estimate from the raw chroma histogram, no model")
	flag.BoolVar(&fEdge, "edge", true, "score an edge-image histogram channel as well")
	flag.Float64Var(&fSmoothWidth, "smooth", 1.0, "smoothing model filter width, in bins")

	flag.IntVar(&fWorkers, "workers", 0, "goroutines for batch work (0: one per CPU)")
	flag.BoolVar(&fDump, "dump", false, "render intermediate grids and the fitted PMF")
	flag.StringVar(&fLogLevel, "v", "", "library log level: debug, info, warn, error")
	flag.Parse()

	log.Printf("ffcc starting\n")
}

func main() {
	cfg := ffcc.NewConfig()
	if fConfigFile != "" {
		var err error
		if cfg, err = ffcc.LoadConfig(fConfigFile); err != nil {
			log.Fatal(err)
		}
	}

	// Override the config file with command line args, if relevant
	if fNBins > 0 {
		cfg.Grid.NBins = fNBins
	}
	if fBinSize > 0 {
		cfg.Grid.BinSize = fBinSize
	}
	if fFirstBin != 0 {
		cfg.Grid.FirstBin = fFirstBin
	}
	if fOutputDir != "" {
		cfg.Rendering.OutputDir = fOutputDir
	}
	if fWorkers > 0 {
		cfg.Workers = fWorkers
	}
	if fLogLevel != "" {
		cfg.LogLevel = fLogLevel
	}
	cfg.Features.EdgeChannel = fEdge
	cfg.Rendering.DumpGrids = cfg.Rendering.DumpGrids || fDump
	if err := cfg.Finalize(); err != nil {
		log.Fatal(err)
	}

	if flag.NArg() == 0 {
		log.Fatal("usage: ffcc [flags] img.png img.tif img.hdr ...")
	}
	imgs, err := ffcc.LoadImages(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(cfg.Rendering.OutputDir, 0755); err != nil {
		log.Fatal(err)
	}

	if fUV != "" {
		uv, err := parseUV(fUV)
		if err != nil {
			log.Fatal(err)
		}
		for i, im := range imgs {
			writeWB(fchroma.ApplyWB(im, uv), flag.Arg(i), i, cfg)
		}
		return
	}

	// When the config carries extended-feature bins, splat each
	// file's EXIF exposure over them. Files without usable EXIF
	// (most PNGs) just get scalar 0.
	if len(cfg.Features.ExtendedBins) > 0 {
		scalars := make([]float64, len(imgs))
		for i, fn := range flag.Args() {
			if ev, err := ffcc.ReadExposure(fn); err != nil {
				log.Printf("no exposure for '%s': %v\n", fn, err)
			} else {
				scalars[i] = ev
			}
		}
		feats, err := ffcc.Preprocess(imgs, scalars, cfg)
		if err != nil {
			log.Fatal(err)
		}
		for i, fs := range feats {
			log.Printf("%s: exposure %.2f splats to %v\n", flag.Arg(i), scalars[i], fs.Extended)
		}
	}

	ests := make([]ffcc.Estimate, len(imgs))
	if fGrayWorld {
		for i, im := range imgs {
			if ests[i], err = ffcc.GrayWorld(im, cfg.Grid); err != nil {
				log.Fatalf("'%s': %v\n", flag.Arg(i), err)
			}
		}
	} else {
		channels := 1
		if cfg.Features.EdgeChannel {
			channels = 2
		}
		e, err := ffcc.NewEstimator(ffcc.NewSmoothingModel(cfg.Grid, channels, fSmoothWidth))
		if err != nil {
			log.Fatal(err)
		}
		e.DumpGrids = cfg.Rendering.DumpGrids
		e.DumpDir = cfg.Rendering.OutputDir
		e.RenderScale = cfg.Rendering.Scale
		if ests, err = e.EstimateAll(imgs, cfg.Workers); err != nil {
			log.Fatal(err)
		}
	}

	for i, est := range ests {
		rgb := est.RGB()
		log.Printf("%s: uv (%+.4f, %+.4f) illuminant rgb (%.4f, %.4f, %.4f)\n",
			flag.Arg(i), est.UV[0], est.UV[1], rgb[0], rgb[1], rgb[2])

		if cfg.Rendering.DumpGrids {
			ffcc.LogChromaStats(imgs[i], cfg.Grid)
			if mom, err := ftorus.FitVonMises(est.PMF); err == nil {
				fn := outName(flag.Arg(i), i, "fit", cfg)
				if err := ffcc.RenderEstimate(est.PMF, mom, cfg.Rendering.Scale, filepath.Base(flag.Arg(i)), fn); err != nil {
					log.Printf("fit render failed: %v\n", err)
				}
			}
		}

		writeWB(est.Apply(imgs[i]), flag.Arg(i), i, cfg)
	}
}

func outName(input string, i int, tag string, cfg ffcc.Config) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(cfg.Rendering.OutputDir, fmt.Sprintf("%03d-%s-%s.png", i, base, tag))
}

func writeWB(im *fchroma.Image, input string, i int, cfg ffcc.Config) {
	fn := outName(input, i, "wb", cfg)
	if err := ffcc.SaveImage(im, fn); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote '%s'\n", fn)
}

func parseUV(s string) (fchroma.UV, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fchroma.UV{}, fmt.Errorf("-uv wants 'u,v', got '%s'", s)
	}
	u, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fchroma.UV{}, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fchroma.UV{}, err
	}
	return fchroma.UV{u, v}, nil
}
