// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/wjallet/pdal"
)

// quadraticCost builds a Cost for ½‖x - target‖².
func quadraticCost(target []float64) pdal.CostND {
	n := len(target)
	return pdal.CostND{
		ValueFunc: func(x mat.Vector) (float64, error) {
			var s float64
			for i := 0; i < n; i++ {
				d := x.AtVec(i) - target[i]
				s += d * d
			}
			return 0.5 * s, nil
		},
		GradientFunc: func(x mat.Vector, grad *mat.VecDense) error {
			for i := 0; i < n; i++ {
				grad.SetVec(i, x.AtVec(i)-target[i])
			}
			return nil
		},
		HessianFunc: func(x mat.Vector, hess *mat.SymDense) error {
			for i := 0; i < n; i++ {
				for j := i; j < n; j++ {
					if i == j {
						hess.SetSym(i, j, 1)
					} else {
						hess.SetSym(i, j, 0)
					}
				}
			}
			return nil
		},
	}
}

// S1: unconstrained quadratic, cost(x) = ½‖x - (1,2)‖², x0 = (0,0). A single
// Newton step reaches the minimizer exactly since the Hessian is constant.
func TestUnconstrainedQuadratic(t *testing.T) {
	problem := &pdal.Problem{
		Manifold: pdal.VectorSpace{N: 2},
		Cost:     quadraticCost([]float64{1, 2}),
	}
	w := pdal.NewWorkspace(problem)
	r := pdal.NewResults(problem)
	s := pdal.NewSolver(problem, pdal.Settings{TargetTol: 1e-8})

	x0 := mat.NewVecDense(2, []float64{0, 0})
	flag := s.Solve(w, r, x0, nil)

	require.Equal(t, pdal.Success, flag)
	assert.InDelta(t, 1.0, r.X.AtVec(0), 1e-6)
	assert.InDelta(t, 2.0, r.X.AtVec(1), 1e-6)
	assert.LessOrEqual(t, r.InnerIters, 3)
}

// linearConstraint builds a HessianFunction for c(x) = a·x - b (vhp == 0).
func linearConstraint(a []float64, b float64) pdal.FuncND {
	n := len(a)
	return pdal.FuncND{
		ValueFunc: func(x mat.Vector, out *mat.VecDense) error {
			var s float64
			for i := 0; i < n; i++ {
				s += a[i] * x.AtVec(i)
			}
			out.SetVec(0, s-b)
			return nil
		},
		JacobianFunc: func(x mat.Vector, jac *mat.Dense) error {
			for i := 0; i < n; i++ {
				jac.Set(0, i, a[i])
			}
			return nil
		},
		VHPFunc: func(x, v mat.Vector, hess *mat.SymDense) error {
			return nil
		},
	}
}

// S2: minimize ½xᵀx subject to x0 + x1 = 1.
func TestEqualityConstrainedQP(t *testing.T) {
	cost := pdal.CostND{
		ValueFunc: func(x mat.Vector) (float64, error) {
			return 0.5 * (x.AtVec(0)*x.AtVec(0) + x.AtVec(1)*x.AtVec(1)), nil
		},
		GradientFunc: func(x mat.Vector, grad *mat.VecDense) error {
			grad.SetVec(0, x.AtVec(0))
			grad.SetVec(1, x.AtVec(1))
			return nil
		},
		HessianFunc: func(x mat.Vector, hess *mat.SymDense) error {
			hess.SetSym(0, 0, 1)
			hess.SetSym(0, 1, 0)
			hess.SetSym(1, 1, 1)
			return nil
		},
	}

	problem := &pdal.Problem{
		Manifold: pdal.VectorSpace{N: 2},
		Cost:     cost,
		Constraints: []pdal.Constraint{
			pdal.NewConstraint(linearConstraint([]float64{1, 1}, 1), pdal.EqualityCone{N: 1}),
		},
	}
	w := pdal.NewWorkspace(problem)
	r := pdal.NewResults(problem)
	s := pdal.NewSolver(problem, pdal.Settings{TargetTol: 1e-8})

	x0 := mat.NewVecDense(2, []float64{0, 0})
	lams0 := []*mat.VecDense{mat.NewVecDense(1, []float64{0})}
	flag := s.Solve(w, r, x0, lams0)

	require.Equal(t, pdal.Success, flag)
	assert.InDelta(t, 0.5, r.X.AtVec(0), 1e-6)
	assert.InDelta(t, 0.5, r.X.AtVec(1), 1e-6)
	assert.InDelta(t, -0.5, r.Lams[0].AtVec(0), 1e-5)
}

// S3: minimize (x-3)^2 subject to x >= 0 (inactive at the optimum).
func TestOneSidedInequalityInactive(t *testing.T) {
	cost := pdal.CostND{
		ValueFunc:    func(x mat.Vector) (float64, error) { d := x.AtVec(0) - 3; return d * d, nil },
		GradientFunc: func(x mat.Vector, grad *mat.VecDense) error { grad.SetVec(0, 2*(x.AtVec(0)-3)); return nil },
		HessianFunc:  func(x mat.Vector, hess *mat.SymDense) error { hess.SetSym(0, 0, 2); return nil },
	}
	cstrFn := pdal.FuncND{
		ValueFunc:    func(x mat.Vector, out *mat.VecDense) error { out.SetVec(0, x.AtVec(0)); return nil },
		JacobianFunc: func(x mat.Vector, jac *mat.Dense) error { jac.Set(0, 0, 1); return nil },
		VHPFunc:      func(x, v mat.Vector, hess *mat.SymDense) error { return nil },
	}

	problem := &pdal.Problem{
		Manifold:    pdal.VectorSpace{N: 1},
		Cost:        cost,
		Constraints: []pdal.Constraint{pdal.NewConstraint(cstrFn, pdal.NonpositiveOrthant{N: 1})},
	}
	w := pdal.NewWorkspace(problem)
	r := pdal.NewResults(problem)
	s := pdal.NewSolver(problem, pdal.Settings{TargetTol: 1e-7})

	x0 := mat.NewVecDense(1, []float64{5})
	lams0 := []*mat.VecDense{mat.NewVecDense(1, []float64{0})}
	flag := s.Solve(w, r, x0, lams0)

	require.Equal(t, pdal.Success, flag)
	assert.InDelta(t, 3.0, r.X.AtVec(0), 1e-4)
	assert.InDelta(t, 0.0, r.Lams[0].AtVec(0), 1e-4)
}

// S4: minimize (x-3)^2 subject to x <= 1 (active at the optimum).
func TestOneSidedInequalityActive(t *testing.T) {
	cost := pdal.CostND{
		ValueFunc:    func(x mat.Vector) (float64, error) { d := x.AtVec(0) - 3; return d * d, nil },
		GradientFunc: func(x mat.Vector, grad *mat.VecDense) error { grad.SetVec(0, 2*(x.AtVec(0)-3)); return nil },
		HessianFunc:  func(x mat.Vector, hess *mat.SymDense) error { hess.SetSym(0, 0, 2); return nil },
	}
	cstrFn := pdal.FuncND{
		ValueFunc:    func(x mat.Vector, out *mat.VecDense) error { out.SetVec(0, x.AtVec(0)-1); return nil },
		JacobianFunc: func(x mat.Vector, jac *mat.Dense) error { jac.Set(0, 0, 1); return nil },
		VHPFunc:      func(x, v mat.Vector, hess *mat.SymDense) error { return nil },
	}

	problem := &pdal.Problem{
		Manifold:    pdal.VectorSpace{N: 1},
		Cost:        cost,
		Constraints: []pdal.Constraint{pdal.NewConstraint(cstrFn, pdal.NonnegativeOrthant{N: 1})},
	}
	w := pdal.NewWorkspace(problem)
	r := pdal.NewResults(problem)
	s := pdal.NewSolver(problem, pdal.Settings{TargetTol: 1e-7})

	x0 := mat.NewVecDense(1, []float64{5})
	lams0 := []*mat.VecDense{mat.NewVecDense(1, []float64{0})}
	flag := s.Solve(w, r, x0, lams0)

	require.Equal(t, pdal.Success, flag)
	assert.InDelta(t, 1.0, r.X.AtVec(0), 1e-4)
	assert.Greater(t, r.Lams[0].AtVec(0), 0.0)
}

// Invariant 1: mu never falls below MuMin.
func TestPenaltyNeverBelowFloor(t *testing.T) {
	problem := &pdal.Problem{
		Manifold: pdal.VectorSpace{N: 2},
		Cost:     quadraticCost([]float64{1, 2}),
		Constraints: []pdal.Constraint{
			pdal.NewConstraint(linearConstraint([]float64{1, -1}, 10), pdal.EqualityCone{N: 1}),
		},
	}
	w := pdal.NewWorkspace(problem)
	r := pdal.NewResults(problem)
	s := pdal.NewSolver(problem, pdal.Settings{
		TargetTol: 1e-10,
		Mu0:       1e-2,
		MuFactor:  0.1,
		MuMin:     1e-6,
		MaxIters:  50,
	})

	x0 := mat.NewVecDense(2, []float64{0, 0})
	lams0 := []*mat.VecDense{mat.NewVecDense(1, []float64{0})}
	s.Solve(w, r, x0, lams0)

	assert.GreaterOrEqual(t, r.Mu, 1e-6-1e-15)
}

// Invariant 9: the tolerance-schedule formula shrinks the tolerance
// monotonically. The check is on the formula itself; it does not call the
// Solver.
func TestScheduleMonotonicity(t *testing.T) {
	// eta after k applications of eta *= mu^alpha forms a strictly
	// decreasing sequence for mu = 0.1 and alpha = 0.5.
	mu := 0.1
	alpha := 0.5
	eta := 1.0
	for i := 0; i < 5; i++ {
		next := eta * math.Pow(mu, alpha)
		assert.Less(t, next, eta)
		eta = next
	}
}
