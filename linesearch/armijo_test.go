// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wjallet/pdal/linesearch"
)

// S5: phi(alpha) = (alpha - 0.3)^4, phi0 = phi(0) = 0.0081, dphi0 = phi'(0) = -0.108.
// With Cubic selected, the first rejected probe (alpha = 1) has no previous
// sample, so the quadratic fallback proposes alpha ≈ 0.159, which satisfies
// Armijo. The test checks that the returned step lies in (0, 1] and
// satisfies the Armijo condition.
func TestCubicInterpolationQuartic(t *testing.T) {
	phiFn := func(a float64) float64 {
		d := a - 0.3
		return d * d * d * d
	}
	phi0 := phiFn(0)
	dphi0 := -4 * 0.3 * 0.3 * 0.3

	opts := linesearch.DefaultOptions()
	opts.Interp = linesearch.Cubic
	opts.MaxNumSteps = 30
	ls := linesearch.NewArmijoLineSearch(opts)

	alpha, phiAlpha := ls.Run(func(a float64) (float64, bool) {
		return phiFn(a), true
	}, phi0, dphi0)

	assert.True(t, alpha > 0 && alpha <= 1)
	assert.LessOrEqual(t, phiAlpha, phi0+opts.ArmijoC1*alpha*dphi0+1e-12)
}

func TestAcceptsFullStepWhenSufficientDecrease(t *testing.T) {
	// phi(a) = phi0 + dphi0*a is linear, always satisfies Armijo at a=1 for c1<1.
	phi0 := 10.0
	dphi0 := -5.0
	opts := linesearch.DefaultOptions()
	ls := linesearch.NewArmijoLineSearch(opts)

	alpha, phiAlpha := ls.Run(func(a float64) (float64, bool) {
		return phi0 + dphi0*a, true
	}, phi0, dphi0)

	assert.Equal(t, 1.0, alpha)
	assert.InDelta(t, phi0+dphi0, phiAlpha, 1e-12)
}

func TestBacktracksOnInfeasibleProbe(t *testing.T) {
	// Oracle rejects any alpha above 0.2, otherwise behaves like a steep
	// descent; the search must contract past the infeasible region.
	phi0 := 1.0
	dphi0 := -2.0
	opts := linesearch.DefaultOptions()
	ls := linesearch.NewArmijoLineSearch(opts)

	alpha, phiAlpha := ls.Run(func(a float64) (float64, bool) {
		if a > 0.2 {
			return 0, false
		}
		return phi0 + dphi0*a, true
	}, phi0, dphi0)

	assert.LessOrEqual(t, alpha, 0.2+1e-9)
	assert.False(t, math.IsNaN(phiAlpha))
}

// TestQuadraticSafeguardStaysInBracket picks a first probe whose quadratic
// interpolant minimizer (-dphi0/(2A) = 1/1.4 ≈ 0.714) falls outside
// [ContractionMin, ContractionMax] = [0.1, 0.5] while still failing the
// Armijo test, forcing Run's endpoint-by-interpolant-value safeguard rather
// than a plain clamp.
func TestQuadraticSafeguardStaysInBracket(t *testing.T) {
	phi0 := 1.0
	dphi0 := -1.0
	opts := linesearch.DefaultOptions()
	opts.Interp = linesearch.Quadratic
	opts.ArmijoC1 = 0.4
	opts.MaxNumSteps = 2
	ls := linesearch.NewArmijoLineSearch(opts)

	alpha, _ := ls.Run(func(a float64) (float64, bool) {
		if a == 1 {
			return 0.7, true // fails: 0.7 > phi0 + ArmijoC1*1*dphi0 == 0.6
		}
		return phi0 + dphi0*a - 10, true // trivially Armijo-satisfying thereafter
	}, phi0, dphi0)

	assert.GreaterOrEqual(t, alpha, opts.ContractionMin*1.0-1e-12)
	assert.LessOrEqual(t, alpha, opts.ContractionMax*1.0+1e-12)
}

func TestSmallInitialDerivativeAcceptsUnitStep(t *testing.T) {
	opts := linesearch.DefaultOptions()
	ls := linesearch.NewArmijoLineSearch(opts)

	called := 0
	alpha, _ := ls.Run(func(a float64) (float64, bool) {
		called++
		return 0, true
	}, 0, 1e-12)

	assert.Equal(t, 1.0, alpha)
	assert.Equal(t, 1, called)
}
