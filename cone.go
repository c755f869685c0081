// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// ConeSet is the dual-cone projection contract a Constraint's cone type
// must supply. Dim is the block dimension nr.
type ConeSet interface {
	Dim() int
	// DualProjection fills out (length Dim) with the projection of lam onto
	// the polar/dual cone.
	DualProjection(lam mat.Vector, out *mat.VecDense)
	// JDualProjection fills diag (length Dim) with the diagonal of the
	// generalized Jacobian of DualProjection at lam.
	JDualProjection(lam mat.Vector, diag *mat.VecDense)
}

// EqualityCone is the trivial cone for equality constraints: the dual
// projection is the identity, with no kink.
type EqualityCone struct {
	N int
}

func (c EqualityCone) Dim() int { return c.N }

func (c EqualityCone) DualProjection(lam mat.Vector, out *mat.VecDense) {
	out.CopyVec(lam)
}

func (c EqualityCone) JDualProjection(lam mat.Vector, diag *mat.VecDense) {
	for i := 0; i < c.N; i++ {
		diag.SetVec(i, 1)
	}
}

// NonnegativeOrthant is the cone for one-sided constraints cᵢ(x) ≤ 0, whose
// multipliers are nonnegative: the dual projection clamps to max(λ, 0). At the kink λᵢ == 0 the generalized
// Jacobian is pinned to the inactive (zero) branch.
type NonnegativeOrthant struct {
	N int
}

func (c NonnegativeOrthant) Dim() int { return c.N }

func (c NonnegativeOrthant) DualProjection(lam mat.Vector, out *mat.VecDense) {
	for i := 0; i < c.N; i++ {
		v := lam.AtVec(i)
		if v < 0 {
			v = 0
		}
		out.SetVec(i, v)
	}
}

func (c NonnegativeOrthant) JDualProjection(lam mat.Vector, diag *mat.VecDense) {
	for i := 0; i < c.N; i++ {
		if lam.AtVec(i) > 0 {
			diag.SetVec(i, 1)
		} else {
			diag.SetVec(i, 0)
		}
	}
}

// NonpositiveOrthant is the cone for one-sided constraints cᵢ(x) ≥ 0, whose
// multipliers are nonpositive: the mirror image of NonnegativeOrthant,
// clamping to min(λ, 0).
type NonpositiveOrthant struct {
	N int
}

func (c NonpositiveOrthant) Dim() int { return c.N }

func (c NonpositiveOrthant) DualProjection(lam mat.Vector, out *mat.VecDense) {
	for i := 0; i < c.N; i++ {
		v := lam.AtVec(i)
		if v > 0 {
			v = 0
		}
		out.SetVec(i, v)
	}
}

func (c NonpositiveOrthant) JDualProjection(lam mat.Vector, diag *mat.VecDense) {
	for i := 0; i < c.N; i++ {
		if lam.AtVec(i) < 0 {
			diag.SetVec(i, 1)
		} else {
			diag.SetVec(i, 0)
		}
	}
}

// BoxCone clamps each component to [Lo[i], Hi[i]]. The derivative is 1 on
// the interior and, by the same kink convention as the orthant cones, 0
// exactly at either bound.
type BoxCone struct {
	Lo, Hi []float64
}

func (c BoxCone) Dim() int { return len(c.Lo) }

func (c BoxCone) DualProjection(lam mat.Vector, out *mat.VecDense) {
	for i := range c.Lo {
		v := lam.AtVec(i)
		switch {
		case v < c.Lo[i]:
			v = c.Lo[i]
		case v > c.Hi[i]:
			v = c.Hi[i]
		}
		out.SetVec(i, v)
	}
}

func (c BoxCone) JDualProjection(lam mat.Vector, diag *mat.VecDense) {
	for i := range c.Lo {
		v := lam.AtVec(i)
		if v <= c.Lo[i] || v >= c.Hi[i] {
			diag.SetVec(i, 0)
		} else {
			diag.SetVec(i, 1)
		}
	}
}
