// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package polynomial implements a minimal dense single-variable polynomial,
// used by the linesearch package to build and safeguard interpolants of a
// scalar merit function.
package polynomial

// Polynomial is represented by its coefficients in decreasing order of
// degree: Coeffs[0] is the leading (highest-degree) coefficient and
// Coeffs[len(Coeffs)-1] is the constant term.
type Polynomial struct {
	Coeffs []float64
}

// New returns a Polynomial with the given coefficients, in decreasing
// order of degree. The slice is copied.
func New(coeffs []float64) Polynomial {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return Polynomial{Coeffs: c}
}

// Degree returns the polynomial degree, the number of coefficients minus one.
func (p Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// Eval evaluates the polynomial at a using Horner's scheme.
func (p Polynomial) Eval(a float64) float64 {
	var r float64
	for _, c := range p.Coeffs {
		r = r*a + c
	}
	return r
}

// Derivative returns the derivative polynomial. A degree-0 polynomial
// differentiates to the zero polynomial of degree 0.
func (p Polynomial) Derivative() Polynomial {
	d := p.Degree()
	if d == 0 {
		return Polynomial{Coeffs: []float64{0}}
	}
	out := make([]float64, d)
	for i := 0; i < d; i++ {
		out[i] = p.Coeffs[i] * float64(d-i)
	}
	return Polynomial{Coeffs: out}
}
