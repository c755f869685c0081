// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch implements an Armijo backtracking line search with
// quadratic/cubic safeguarded interpolation of a scalar merit function,
// robust against point-evaluation failures reported by the oracle.
package linesearch

// InterpType selects the interpolation strategy used to propose the next
// trial step once the full (or floor) step has been probed.
type InterpType int

const (
	// Bisection halves the step on every rejected trial.
	Bisection InterpType = iota
	// Quadratic builds a 1-D quadratic interpolant through (0, phi0, dphi0)
	// and the latest sample.
	Quadratic
	// Cubic builds a cubic interpolant through (0, phi0, dphi0), the latest
	// sample, and the previous sample, when available.
	Cubic
)

func (t InterpType) String() string {
	switch t {
	case Bisection:
		return "Bisection"
	case Quadratic:
		return "Quadratic"
	case Cubic:
		return "Cubic"
	default:
		return "InterpType(?)"
	}
}

// Options configures an ArmijoLineSearch. All fields must be finite and
// strictly positive.
type Options struct {
	// ArmijoC1 is the Armijo sufficient-decrease coefficient (typ. 1e-4).
	ArmijoC1 float64
	// AlphaMin is the lower clamp applied to any proposed step.
	AlphaMin float64
	// DphiThresh: if |phi'(0)| < DphiThresh, the first successful probe is
	// accepted immediately.
	DphiThresh float64
	// MaxNumSteps bounds the backtracking iterations.
	MaxNumSteps int
	// ContractionMin/Max bracket the next proposed step as
	// [ContractionMin*alpha, ContractionMax*alpha].
	ContractionMin float64
	ContractionMax float64
	// Interp selects the interpolation strategy.
	Interp InterpType
}

// DefaultOptions returns reasonable defaults for the Armijo line search.
func DefaultOptions() Options {
	return Options{
		ArmijoC1:       1e-4,
		AlphaMin:       1e-8,
		DphiThresh:     1e-9,
		MaxNumSteps:    20,
		ContractionMin: 0.1,
		ContractionMax: 0.5,
		Interp:         Cubic,
	}
}

// sample is a single (alpha, phi(alpha)) probe of the merit function.
type sample struct {
	alpha float64
	phi   float64
	valid bool
}
