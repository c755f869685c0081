// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/wjallet/pdal/polynomial"
)

// Oracle evaluates the scalar merit function phi at a trial step alpha. It
// returns ok=false if the step is infeasible or the evaluation otherwise
// failed (e.g. a manifold retraction out of domain, or a non-finite value).
type Oracle func(alpha float64) (phi float64, ok bool)

// ArmijoLineSearch implements a backtracking line search with
// quadratic/cubic safeguarded interpolation. An instance holds preallocated
// scratch and is safe to reuse across calls to Run on a single goroutine.
type ArmijoLineSearch struct {
	opts Options

	// cubicSys is 2x2 scratch used to solve for the cubic interpolant's
	// leading coefficients; allocated once, reused by every Run call.
	cubicSys *mat.Dense
	cubicRHS *mat.Dense

	prev sample // the sample preceding the current one, for cubic interpolation
	cur  sample
}

// NewArmijoLineSearch returns a line search configured with opts.
func NewArmijoLineSearch(opts Options) *ArmijoLineSearch {
	return &ArmijoLineSearch{
		opts:     opts,
		cubicSys: mat.NewDense(2, 2, nil),
		cubicRHS: mat.NewDense(2, 1, nil),
	}
}

// Run searches for a step alpha in (0, 1] satisfying the Armijo
// sufficient-decrease condition
//
//	phi(alpha) <= phi0 + c1*alpha*dphi0
//
// given phi(0) = phi0 and phi'(0) = dphi0 < 0. It returns the accepted step
// and the merit value there. If no acceptable step is found before alpha
// falls below AlphaMin or MaxNumSteps trials are exhausted, it returns the
// best (smallest-phi) feasible trial seen, or (0, phi0) if no trial was
// feasible.
func (ls *ArmijoLineSearch) Run(phi Oracle, phi0, dphi0 float64) (alpha, phiAlpha float64) {
	o := ls.opts

	if math.Abs(dphi0) < o.DphiThresh {
		if v, ok := phi(1); ok {
			return 1, v
		}
	}

	alpha = 1.0
	ls.prev = sample{}
	ls.cur = sample{}

	bestAlpha, bestPhi, haveBest := 0.0, phi0, false

	for step := 0; step < o.MaxNumSteps; step++ {
		v, ok := phi(alpha)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			alpha = o.ContractionMin * alpha
			if alpha < o.AlphaMin {
				return bestAlpha, bestPhi
			}
			continue
		}

		if v < bestPhi || !haveBest {
			bestAlpha, bestPhi, haveBest = alpha, v, true
		}

		if math.Abs(dphi0) < o.DphiThresh {
			return alpha, v
		}

		if v <= phi0+o.ArmijoC1*alpha*dphi0 {
			return alpha, v
		}

		ls.prev = ls.cur
		ls.cur = sample{alpha: alpha, phi: v, valid: true}

		alphaPrev := alpha
		next, interp, haveInterp := ls.proposeNext(phi0, dphi0)

		lo := o.ContractionMin * alpha
		hi := o.ContractionMax * alpha
		if haveInterp && (next < lo || next > hi) {
			// Safeguard: outside the contraction bracket, fall back to
			// whichever endpoint the interpolant itself prefers.
			if interp.Eval(lo) <= interp.Eval(hi) {
				next = lo
			} else {
				next = hi
			}
		}

		if math.IsNaN(next) {
			next = o.ContractionMin * alphaPrev
		} else {
			next = math.Max(next, o.AlphaMin)
		}
		alpha = next

		if alpha < o.AlphaMin {
			return bestAlpha, bestPhi
		}
	}

	return bestAlpha, bestPhi
}

// proposeNext selects the next trial step via the configured interpolation
// strategy, falling back to bisection when insufficient history is
// available. When an interpolant was built, it is returned alongside the
// minimizer so Run can safeguard against it leaving the contraction
// bracket; haveInterp is false for the bisection fallback, which has no
// interpolant to safeguard against.
func (ls *ArmijoLineSearch) proposeNext(phi0, dphi0 float64) (next float64, interp polynomial.Polynomial, haveInterp bool) {
	switch ls.opts.Interp {
	case Cubic:
		if ls.prev.valid {
			if a, p, ok := ls.cubicMinimizer(phi0, dphi0); ok {
				return a, p, true
			}
		}
		if a, p, ok := ls.quadraticMinimizer(phi0, dphi0); ok {
			return a, p, true
		}
		return 0.5 * ls.cur.alpha, polynomial.Polynomial{}, false
	case Quadratic:
		if a, p, ok := ls.quadraticMinimizer(phi0, dphi0); ok {
			return a, p, true
		}
		return 0.5 * ls.cur.alpha, polynomial.Polynomial{}, false
	default:
		return 0.5 * ls.cur.alpha, polynomial.Polynomial{}, false
	}
}

// quadraticMinimizer fits q(a) = phi0 + dphi0*a + c*a^2 through the current
// sample and returns its minimizer -dphi0/(2c) and the fitted interpolant.
func (ls *ArmijoLineSearch) quadraticMinimizer(phi0, dphi0 float64) (float64, polynomial.Polynomial, bool) {
	a := ls.cur.alpha
	c := (ls.cur.phi - phi0 - dphi0*a) / (a * a)
	if c <= 0 {
		return 0, polynomial.Polynomial{}, false
	}
	p := polynomial.New([]float64{c, dphi0, phi0})
	return -dphi0 / (2 * c), p, true
}

// cubicMinimizer fits a cubic c(a) = phi0 + dphi0*a + b*a^2 + c*a^3 through
// the two most recent samples and phi0, dphi0, then returns the interpolant's
// local minimizer, the root of its derivative where its second derivative is
// positive. The 2x2 linear system for (c, b) has one row per sample a:
// c*a^3 + b*a^2 = phi(a) - phi0 - dphi0*a.
func (ls *ArmijoLineSearch) cubicMinimizer(phi0, dphi0 float64) (float64, polynomial.Polynomial, bool) {
	a1, a2 := ls.cur.alpha, ls.prev.alpha
	f1 := ls.cur.phi - phi0 - dphi0*a1
	f2 := ls.prev.phi - phi0 - dphi0*a2

	a1sq, a2sq := a1*a1, a2*a2
	denom := a1sq * a2sq * (a1 - a2)
	if denom == 0 {
		return 0, polynomial.Polynomial{}, false
	}

	ls.cubicSys.Set(0, 0, a1sq*a1)
	ls.cubicSys.Set(0, 1, a1sq)
	ls.cubicSys.Set(1, 0, a2sq*a2)
	ls.cubicSys.Set(1, 1, a2sq)
	ls.cubicRHS.Set(0, 0, f1)
	ls.cubicRHS.Set(1, 0, f2)

	var coeffs mat.Dense
	if err := coeffs.Solve(ls.cubicSys, ls.cubicRHS); err != nil {
		return 0, polynomial.Polynomial{}, false
	}
	c := coeffs.At(0, 0)
	b := coeffs.At(1, 0)

	disc := b*b - 3*c*dphi0
	if disc < 0 || c == 0 {
		return 0, polynomial.Polynomial{}, false
	}
	root := (-b + math.Sqrt(disc)) / (3 * c)
	if math.IsNaN(root) || math.IsInf(root, 0) {
		return 0, polynomial.Polynomial{}, false
	}
	p := polynomial.New([]float64{c, b, dphi0, phi0})
	return root, p, true
}
