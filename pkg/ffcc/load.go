package ffcc

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/mahmoudnafifi/ffcc/pkg/fchroma"
	"github.com/mahmoudnafifi/ffcc/pkg/fmath"
)

// LoadImage reads one file into linear RGB. PNGs are assumed to be
// sRGB encoded and get expanded; TIFFs are assumed to be linear
// 16-bit camera dumps; Radiance .hdr files are linear by definition.
func LoadImage(filename string) (*fchroma.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(filename)) {

	case ".png":
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode png '%s': %v", filename, err)
		}
		return fchroma.FromImage(img), nil

	case ".tif", ".tiff":
		img, err := tiff.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode tiff '%s': %v", filename, err)
		}
		return fchroma.FromLinearImage(img), nil

	case ".hdr":
		img, err := rgbe.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode hdr '%s': %v", filename, err)
		}
		h, ok := img.(hdr.Image)
		if !ok {
			return nil, fmt.Errorf("'%s' did not decode to an HDR image", filename)
		}
		return fchroma.FromHDR(h), nil
	}

	return nil, fmt.Errorf("'%s': no loader for this extension", filename)
}

// LoadImages loads many files, in argument order.
func LoadImages(filenames ...string) ([]*fchroma.Image, error) {
	out := make([]*fchroma.Image, 0, len(filenames))
	for _, fn := range filenames {
		im, err := LoadImage(fn)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("file", fn).Int("w", im.Dx()).Int("h", im.Dy()).Msg("loaded")
		out = append(out, im)
	}
	return out, nil
}

// ReadExposure folds a file's EXIF exposure triplet into one log2
// scalar:
//
//	EV = log2(N^2 / t) - log2(ISO / 100)
//
// which is the auxiliary feature the non-uniform splat was made for -
// chroma statistics drift with capture exposure.
// https://en.wikipedia.org/wiki/Exposure_value
func ReadExposure(filename string) (float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("open+r exif '%s': %v", filename, err)
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("exif parsing '%s': %v", filename, err)
	}

	var iso int64
	if tag, err := ex.Get(exif.ISOSpeedRatings); err != nil {
		return 0, fmt.Errorf("exif ISO '%s': %v", filename, err)
	} else if iso, err = tag.Int64(0); err != nil {
		return 0, fmt.Errorf("exif ISO '%s': %v", filename, err)
	}

	tag, err := ex.Get(exif.FNumber)
	if err != nil {
		return 0, fmt.Errorf("exif FNumber '%s': %v", filename, err)
	}
	num, denom, err := tag.Rat2(0)
	if err != nil || denom == 0 {
		return 0, fmt.Errorf("exif FNumber '%s': %d/%d %v", filename, num, denom, err)
	}
	fnum := float64(num) / float64(denom)

	tag, err = ex.Get(exif.ExposureTime)
	if err != nil {
		return 0, fmt.Errorf("exif ExposureTime '%s': %v", filename, err)
	}
	num, denom, err = tag.Rat2(0)
	if err != nil || denom == 0 || num == 0 {
		return 0, fmt.Errorf("exif ExposureTime '%s': %d/%d %v", filename, num, denom, err)
	}
	shutter := float64(num) / float64(denom)

	if iso <= 0 || fnum < fmath.Eps {
		return 0, fmt.Errorf("exif values out of range in '%s': iso %d f/%0.1f", filename, iso, fnum)
	}
	return math.Log2(fnum*fnum/shutter) - math.Log2(float64(iso)/100.0), nil
}

// SaveImage writes linear RGB back out: .png gets gamma compressed to
// 8 bits, .hdr stays linear via the rgbe codec.
func SaveImage(im *fchroma.Image, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return WritePNG(im.ToImage(), filename)
	case ".hdr":
		w, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("open+w '%s': %v", filename, err)
		}
		defer w.Close()
		return rgbe.Encode(w, hdrView{im})
	}
	return fmt.Errorf("'%s': no writer for this extension", filename)
}

func WritePNG(img image.Image, filename string) error {
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer w.Close()
	return png.Encode(w, img)
}

// hdrView adapts a linear Image to hdr.Image so the rgbe codec can
// serialize it.
type hdrView struct {
	im *fchroma.Image
}

func (hv hdrView) ColorModel() color.Model { return hdrcolor.RGBModel }
func (hv hdrView) Bounds() image.Rectangle { return image.Rect(0, 0, hv.im.Dx(), hv.im.Dy()) }
func (hv hdrView) At(x, y int) color.Color { return hv.HDRAt(x, y) }
func (hv hdrView) Size() int               { return hv.im.Dx() * hv.im.Dy() }

func (hv hdrView) HDRAt(x, y int) hdrcolor.Color {
	p := hv.im.At(x, y)
	return hdrcolor.RGB{p[0], p[1], p[2]}
}
