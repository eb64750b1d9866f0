package fmath

import "math"

// sRGB transfer curve, both directions. The estimator wants linear
// light; 8/16-bit files are normally sRGB encoded.
// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/

// GammaExpand_F64 maps an sRGB-encoded value in [0,1] to linear.
func GammaExpand_F64(f float64) float64 {
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}

// GammaCompress_F64 maps a linear value in [0,1] to sRGB encoding.
func GammaCompress_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}
