// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

// Constraint wraps a level-2 function together with the cone set that
// defines its feasible type (equality, one-sided inequality, or box).
type Constraint struct {
	Func HessianFunction
	Cone ConeSet
}

// Nr returns the constraint's block dimension.
func (c Constraint) Nr() int { return c.Cone.Dim() }

// NewConstraint pairs a function with a cone set. The block dimension is
// taken from the cone; it is not checked against the function's output.
func NewConstraint(fn HessianFunction, cone ConeSet) Constraint {
	return Constraint{Func: fn, Cone: cone}
}
