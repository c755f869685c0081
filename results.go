// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// Results is the outcome of a solve call: the best primal iterate, the dual
// iterates per constraint block, the cost at the iterate, iteration counts,
// terminal infeasibilities, the final penalty, and a convergence flag. It is
// owned by the caller and mutated through a borrow during solve.
type Results struct {
	X    *mat.VecDense
	Lams []*mat.VecDense

	Value float64

	InnerIters int
	OuterIters int

	PrimInfeas float64
	DualInfeas float64

	Mu float64

	Converged ConvergedFlag
}

// NewResults preallocates a Results for problem.
func NewResults(problem *Problem) *Results {
	r := &Results{
		X:         mat.NewVecDense(problem.Manifold.Nx(), nil),
		Converged: Uninit,
	}
	for _, nr := range problem.ConstraintDims() {
		r.Lams = append(r.Lams, mat.NewVecDense(nr, nil))
	}
	return r
}
