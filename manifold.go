// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// Manifold is an abstract smooth state space. Nx is the ambient dimension of
// a point, Ndx the tangent dimension at any point. Integrate retracts a
// tangent increment delta (length Ndx) at x (length Nx) onto the manifold,
// writing the result into xOut (length Nx, preallocated by the caller).
type Manifold interface {
	Nx() int
	Ndx() int
	Integrate(x, delta mat.Vector, xOut *mat.VecDense)
}

// VectorSpace is the trivial Euclidean manifold: Ndx == Nx == N and
// Integrate is vector addition.
type VectorSpace struct {
	N int
}

func (v VectorSpace) Nx() int  { return v.N }
func (v VectorSpace) Ndx() int { return v.N }

func (v VectorSpace) Integrate(x, delta mat.Vector, xOut *mat.VecDense) {
	xOut.AddVec(x, delta)
}

// ProductManifold composes several manifolds into one whose ambient and
// tangent states are the concatenation of the blocks', and whose Integrate
// applies each block's retraction independently to its own slice.
type ProductManifold struct {
	Blocks []Manifold

	nx, ndx int
}

// NewProductManifold returns a ProductManifold over the given blocks, in
// order.
func NewProductManifold(blocks ...Manifold) *ProductManifold {
	p := &ProductManifold{Blocks: blocks}
	for _, b := range blocks {
		p.nx += b.Nx()
		p.ndx += b.Ndx()
	}
	return p
}

func (p *ProductManifold) Nx() int  { return p.nx }
func (p *ProductManifold) Ndx() int { return p.ndx }

func (p *ProductManifold) Integrate(x, delta mat.Vector, xOut *mat.VecDense) {
	xOff, dOff := 0, 0
	for _, b := range p.Blocks {
		nx, ndx := b.Nx(), b.Ndx()
		xSlice := mat.NewVecDense(nx, nil)
		for i := 0; i < nx; i++ {
			xSlice.SetVec(i, x.AtVec(xOff+i))
		}
		dSlice := mat.NewVecDense(ndx, nil)
		for i := 0; i < ndx; i++ {
			dSlice.SetVec(i, delta.AtVec(dOff+i))
		}
		outSlice := mat.NewVecDense(nx, nil)
		b.Integrate(xSlice, dSlice, outSlice)
		for i := 0; i < nx; i++ {
			xOut.SetVec(xOff+i, outSlice.AtVec(i))
		}
		xOff += nx
		dOff += ndx
	}
}
