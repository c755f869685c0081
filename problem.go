// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

// Problem is an ordered cost and constraint list on a manifold. A Problem
// outlives any Solver built against it; it and its Manifold are borrowed
// read-only for the duration of a solve call.
type Problem struct {
	Manifold    Manifold
	Cost        Cost
	Constraints []Constraint
}

// NumConstraints returns the number of constraint blocks.
func (p *Problem) NumConstraints() int { return len(p.Constraints) }

// ConstraintDims returns the block dimension nrᵢ of each constraint, in
// order.
func (p *Problem) ConstraintDims() []int {
	dims := make([]int, len(p.Constraints))
	for i, c := range p.Constraints {
		dims[i] = c.Nr()
	}
	return dims
}

// TotalConstraintDim returns Σᵢ nrᵢ.
func (p *Problem) TotalConstraintDim() int {
	total := 0
	for _, c := range p.Constraints {
		total += c.Nr()
	}
	return total
}
