// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// infNormVec returns the infinity norm of v.
func infNormVec(v *mat.VecDense) float64 {
	var m float64
	for i := 0; i < v.Len(); i++ {
		if a := math.Abs(v.AtVec(i)); a > m {
			m = a
		}
	}
	return m
}

// infNormSlice returns the infinity norm of a plain slice.
func infNormSlice(v []float64) float64 {
	return floats.Norm(v, math.Inf(1))
}

// computeResidualsAndMultipliers evaluates, for every constraint block, the
// primal residual cᵢ(x), the shifted multiplier λ̂ᵢ = Π(λ_prevᵢ + rᵢ/μ), the
// proximal dual error eᵢ = μ(λ̂ᵢ - λᵢ), and the primal-dual multiplier
// λ_pdalᵢ = 2λ̂ᵢ - λᵢ, where λᵢ is the caller-supplied working dual iterate
// (lams, owned by Results). It returns the primal infeasibility
// maxᵢ ‖cᵢ(x)‖_∞.
//
// Returns ErrOracleFailure if any constraint function could not be evaluated
// at x.
func computeResidualsAndMultipliers(problem *Problem, w *Workspace, x mat.Vector, lams []*mat.VecDense, mu float64) (primInfeas float64, err error) {
	muInv := 1 / mu

	for i, c := range problem.Constraints {
		if e := c.Func.Value(x, w.Residuals[i]); e != nil {
			return 0, ErrOracleFailure
		}

		nri := c.Nr()
		for k := 0; k < nri; k++ {
			w.ShiftedLam[i].SetVec(k, w.LamsPrev[i].AtVec(k)+w.Residuals[i].AtVec(k)*muInv)
		}
		c.Cone.DualProjection(w.ShiftedLam[i], w.LamsPlus[i])

		for k := 0; k < nri; k++ {
			w.ProxDualErr[i].SetVec(k, mu*(w.LamsPlus[i].AtVec(k)-lams[i].AtVec(k)))
			w.LamsPDAL[i].SetVec(k, 2*w.LamsPlus[i].AtVec(k)-lams[i].AtVec(k))
		}

		c.Cone.JDualProjection(w.LamsPlus[i], w.JDiag[i])

		if rn := infNormVec(w.Residuals[i]); rn > primInfeas {
			primInfeas = rn
		}
	}
	return primInfeas, nil
}

// computeResidualDerivatives evaluates, for every constraint block, the
// projected Jacobian JΠ(λ̂ᵢ)·Jcᵢ (overwriting w.Jacobians[i] in place) and
// the vector-Hessian product vhpᵢ(x, λ_pdalᵢ) (into w.VHPs[i]). The
// projection's generalized Jacobian (w.JDiag[i]) must already be current,
// i.e. computeResidualsAndMultipliers must run first.
func computeResidualDerivatives(problem *Problem, w *Workspace, x mat.Vector) error {
	for i, c := range problem.Constraints {
		if err := c.Func.Jacobian(x, w.Jacobians[i]); err != nil {
			return ErrOracleFailure
		}
		nri, ndx := w.Jacobians[i].Dims()
		for r := 0; r < nri; r++ {
			scale := w.JDiag[i].AtVec(r)
			for cix := 0; cix < ndx; cix++ {
				w.Jacobians[i].Set(r, cix, scale*w.Jacobians[i].At(r, cix))
			}
		}
		if err := c.Func.VHP(x, w.LamsPDAL[i], w.VHPs[i]); err != nil {
			return ErrOracleFailure
		}
	}
	return nil
}

// assembleLagrangianGradient fills grad with ∇cost(x) + Σᵢ Jcᵢᵀ λ_pdalᵢ,
// using the already-projected Jacobians in w.Jacobians.
func assembleLagrangianGradient(problem *Problem, w *Workspace, x mat.Vector, grad *mat.VecDense) error {
	if err := problem.Cost.CostGradient(x, grad); err != nil {
		return ErrOracleFailure
	}
	for i := range problem.Constraints {
		w.GradScratch.MulVec(w.Jacobians[i].T(), w.LamsPDAL[i])
		grad.AddVec(grad, w.GradScratch)
	}
	return nil
}

// assembleLagrangianHessian fills hess with ∇²cost(x) + Σᵢ vhpᵢ(x, λ_pdalᵢ).
func assembleLagrangianHessian(problem *Problem, w *Workspace, x mat.Vector, hess *mat.SymDense) error {
	if err := problem.Cost.CostHessian(x, hess); err != nil {
		return ErrOracleFailure
	}
	n := hess.SymmetricDim()
	for i := range problem.Constraints {
		for r := 0; r < n; r++ {
			for cidx := r; cidx < n; cidx++ {
				hess.SetSym(r, cidx, hess.At(r, cidx)+w.VHPs[i].At(r, cidx))
			}
		}
	}
	return nil
}
