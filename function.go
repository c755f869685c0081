// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// Function is the level-0 capability tier: value evaluation only.
// Implementations report evaluation failure (e.g. a domain violation) via a
// non-nil error rather than panicking.
type Function interface {
	// Value evaluates the function at x, writing the result (length nr)
	// into out.
	Value(x mat.Vector, out *mat.VecDense) error
}

// JacobianFunction is the level-1 tier: value plus Jacobian.
type JacobianFunction interface {
	Function
	// Jacobian fills jac (nr x ndx) with the Jacobian of Value at x.
	Jacobian(x mat.Vector, jac *mat.Dense) error
}

// HessianFunction is the level-2 tier: value, Jacobian, and vector-Hessian
// product.
type HessianFunction interface {
	JacobianFunction
	// VHP fills hess (ndx x ndx) with d(J^T v)/dx at x.
	VHP(x, v mat.Vector, hess *mat.SymDense) error
}

// Cost is a level-2 scalar (codimension-1) function: a cost function together
// with its gradient and Hessian.
type Cost interface {
	// CostValue returns the scalar cost at x.
	CostValue(x mat.Vector) (float64, error)
	// CostGradient fills grad (length ndx) with the gradient at x.
	CostGradient(x mat.Vector, grad *mat.VecDense) error
	// CostHessian fills hess (ndx x ndx) with the Hessian at x.
	CostHessian(x mat.Vector, hess *mat.SymDense) error
}
