// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import (
	"gonum.org/v1/gonum/mat"

	"github.com/wjallet/pdal/blocks"
)

// Workspace holds every buffer touched by a solve call, preallocated once at
// construction. It is exclusively owned by a single solve invocation: no
// sharing, no reentrancy.
type Workspace struct {
	Ndx int
	Nr  []int
	Dim int // KKT dimension, Ndx + sum(Nr)

	// XPrev caches the primal iterate at the end of the most recent inner
	// solve; the current iterate itself is owned by Results.X.
	XPrev *mat.VecDense

	CostGrad *mat.VecDense
	CostHess *mat.SymDense

	// GradScratch is ndx-length scratch used to accumulate Jcᵢᵀλ_pdalᵢ terms
	// without allocating inside the Lagrangian gradient assembly.
	GradScratch *mat.VecDense

	// Residuals[i] = cᵢ(x), length Nr[i].
	Residuals []*mat.VecDense
	// Jacobians[i] is Nr[i] x Ndx; overwritten with the projected Jacobian
	// JΠ(λ̂ᵢ)·Jcᵢ each inner iteration.
	Jacobians []*mat.Dense
	// VHPs[i] is the vᵀHv-style contribution to the Lagrangian Hessian
	// from constraint i, evaluated at λ_pdalᵢ, Ndx x Ndx.
	VHPs []*mat.SymDense

	LamsPrev    []*mat.VecDense
	ShiftedLam  []*mat.VecDense // λ_prevᵢ + rᵢ/μ, before dual-cone projection
	LamsPlus    []*mat.VecDense // shifted multipliers λ̂ᵢ
	LamsPDAL    []*mat.VecDense
	ProxDualErr []*mat.VecDense // eᵢ = μ(λ̂ᵢ - λᵢ)

	JDiag []*mat.VecDense // diagonal of the generalized projection Jacobian, per block

	KKT *mat.SymDense
	// KKTDense mirrors KKT as a plain dense matrix, the input format the
	// block LDLᵀ factorization operates on.
	KKTDense *mat.Dense
	RHS      []float64
	Step     []float64

	Signature []int8

	ldlt *blocks.LDLT
}

// NewWorkspace preallocates a Workspace sized for problem.
func NewWorkspace(problem *Problem) *Workspace {
	ndx := problem.Manifold.Ndx()
	nx := problem.Manifold.Nx()
	nr := problem.ConstraintDims()
	total := problem.TotalConstraintDim()
	dim := ndx + total

	w := &Workspace{
		Ndx:      ndx,
		Nr:       nr,
		Dim:      dim,
		XPrev:    mat.NewVecDense(nx, nil),
		CostGrad:    mat.NewVecDense(ndx, nil),
		CostHess:    mat.NewSymDense(ndx, nil),
		GradScratch: mat.NewVecDense(ndx, nil),
		KKT:       mat.NewSymDense(dim, nil),
		KKTDense:  mat.NewDense(dim, dim, nil),
		RHS:       make([]float64, dim),
		Step:      make([]float64, dim),
		Signature: make([]int8, dim),
	}

	for _, nri := range nr {
		w.Residuals = append(w.Residuals, mat.NewVecDense(nri, nil))
		w.Jacobians = append(w.Jacobians, mat.NewDense(nri, ndx, nil))
		w.VHPs = append(w.VHPs, mat.NewSymDense(ndx, nil))
		w.LamsPrev = append(w.LamsPrev, mat.NewVecDense(nri, nil))
		w.ShiftedLam = append(w.ShiftedLam, mat.NewVecDense(nri, nil))
		w.LamsPlus = append(w.LamsPlus, mat.NewVecDense(nri, nil))
		w.LamsPDAL = append(w.LamsPDAL, mat.NewVecDense(nri, nil))
		w.ProxDualErr = append(w.ProxDualErr, mat.NewVecDense(nri, nil))
		w.JDiag = append(w.JDiag, mat.NewVecDense(nri, nil))
	}

	seg := make([]int, 1+len(nr))
	seg[0] = ndx
	copy(seg[1:], nr)
	w.ldlt = blocks.NewLDLT(seg)

	return w
}
