package fmath

import "errors"

// Precondition failures shared across the pipeline packages. These
// indicate caller bugs and are returned wrapped with context, never
// coerced into a best-effort result.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrNotSquare     = errors.New("grid is not square")
)
