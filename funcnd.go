// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// FuncND wraps three plain closures into a level-2 HessianFunction, for use
// in tests and examples where defining a named type per constraint would be
// unnecessary ceremony.
type FuncND struct {
	ValueFunc    func(x mat.Vector, out *mat.VecDense) error
	JacobianFunc func(x mat.Vector, jac *mat.Dense) error
	VHPFunc      func(x, v mat.Vector, hess *mat.SymDense) error
}

func (f FuncND) Value(x mat.Vector, out *mat.VecDense) error {
	return f.ValueFunc(x, out)
}

func (f FuncND) Jacobian(x mat.Vector, jac *mat.Dense) error {
	if f.JacobianFunc == nil {
		return ErrNotCapable
	}
	return f.JacobianFunc(x, jac)
}

func (f FuncND) VHP(x, v mat.Vector, hess *mat.SymDense) error {
	if f.VHPFunc == nil {
		return ErrNotCapable
	}
	return f.VHPFunc(x, v, hess)
}

// CostND wraps three plain closures into a level-2 Cost.
type CostND struct {
	ValueFunc    func(x mat.Vector) (float64, error)
	GradientFunc func(x mat.Vector, grad *mat.VecDense) error
	HessianFunc  func(x mat.Vector, hess *mat.SymDense) error
}

func (c CostND) CostValue(x mat.Vector) (float64, error) {
	return c.ValueFunc(x)
}

func (c CostND) CostGradient(x mat.Vector, grad *mat.VecDense) error {
	return c.GradientFunc(x, grad)
}

func (c CostND) CostHessian(x mat.Vector, hess *mat.SymDense) error {
	return c.HessianFunc(x, hess)
}
