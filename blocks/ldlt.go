// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blocks

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrFactorizationFailed is returned by Compute when a pivot is too close
// to zero for the factorization to proceed reliably.
var ErrFactorizationFailed = errors.New("blocks: factorization failed, near-singular pivot")

// ErrNotFactored is returned by SolveInPlace and ReconstructedMatrix when
// called before a successful Compute.
var ErrNotFactored = errors.New("blocks: matrix has not been factored")

// pivotTol is the minimum admissible magnitude of a diagonal pivot. Pivots
// smaller than this are treated as a factorization failure rather than
// risking numerical blow-up in the subsequent triangular solves.
const pivotTol = 1e-13

// LDLT factors a symmetric indefinite matrix M = Pᵀ·L·D·Lᵀ·P, where P is
// a block-structured permutation derived from a segment-length array and a
// permutation of block indices. All scratch storage is allocated once, at
// construction or at a permutation change; Compute and SolveInPlace never
// allocate.
type LDLT struct {
	structure *SymbolicBlockMatrix

	seg  []int // segment lengths, one per block, in original order
	perm []int // perm[i] is the original block placed at permuted slot i

	idx []int // idx[i]: original ambient offset of block i
	// ambient[i] is the original-ambient index that ends up at permuted
	// ambient position i; i.e. permuted[i] = original[ambient[i]].
	ambient []int

	n int // total ambient dimension

	m         *mat.Dense // n x n scratch: permuted matrix, then its L (strict lower) and D (diag) factors in place
	scratch   []float64  // n-length solve scratch
	signature []int8     // sign pattern of D, in permuted order

	factored bool
}

// NewLDLT returns an LDLT for a matrix whose block structure has the given
// segment lengths, with the identity block permutation.
func NewLDLT(seg []int) *LDLT {
	l := &LDLT{seg: append([]int(nil), seg...)}
	ident := make([]int, len(seg))
	for i := range ident {
		ident[i] = i
	}
	l.perm = ident
	l.analyzePattern()
	return l
}

// SetPermutation copies newPerm, replaces the symbolic block structure with a
// deep copy of it (its segment lengths stay in original block order), and
// re-analyzes the resulting sparsity/block pattern. A nil
// newPerm leaves the current permutation untouched (the empty-permutation
// edge case).
func (l *LDLT) SetPermutation(newPerm []int) {
	if newPerm == nil {
		return
	}
	in := l.structure.Copy()
	l.perm = append([]int(nil), newPerm...)
	l.structure = in
	l.structure.PerformedLLT = false
	l.analyzePattern()
}

// analyzePattern derives the original-ambient block offsets idx[i] and the
// ambient permutation (reordered ambient position -> original ambient
// position) implied by seg and perm.
func (l *LDLT) analyzePattern() {
	nblocks := len(l.seg)
	l.idx = make([]int, nblocks)
	off := 0
	for i, s := range l.seg {
		l.idx[i] = off
		off += s
	}
	if l.structure == nil {
		l.structure = NewSymbolicBlockMatrix(l.seg)
	}

	if l.n != off || l.ambient == nil {
		l.n = off
		l.ambient = make([]int, l.n)
		l.scratch = make([]float64, l.n)
		l.signature = make([]int8, l.n)
		l.m = mat.NewDense(l.n, l.n, nil)
	}

	cursor := 0
	for i := 0; i < nblocks; i++ {
		src := l.perm[i]
		length := l.seg[src]
		srcOff := l.idx[src]
		for k := 0; k < length; k++ {
			l.ambient[cursor+k] = srcOff + k
		}
		cursor += length
	}
	l.structure.PerformedLLT = false
	l.factored = false
}

// Dim returns the ambient dimension of the matrix.
func (l *LDLT) Dim() int { return l.n }

// Signature returns the sign pattern of the diagonal of D, indexed in
// permuted order, valid after a successful Compute.
func (l *LDLT) Signature() []int8 { return l.signature }

// Compute performs an in-place dense LDLᵀ factorization of the permuted
// matrix PMPᵀ. M must be n x n symmetric, where n = l.Dim(). Only the
// entries of M that land in the lower triangle of PMPᵀ are read.
func (l *LDLT) Compute(M *mat.Dense) error {
	n := l.n
	for i := 0; i < n; i++ {
		gi := l.ambient[i]
		for j := 0; j <= i; j++ {
			gj := l.ambient[j]
			l.m.Set(i, j, M.At(gi, gj))
		}
	}

	for k := 0; k < n; k++ {
		d := l.m.At(k, k)
		if math.Abs(d) < pivotTol {
			l.factored = false
			return ErrFactorizationFailed
		}
		for i := k + 1; i < n; i++ {
			l.m.Set(i, k, l.m.At(i, k)/d)
		}
		for i := k + 1; i < n; i++ {
			lik := l.m.At(i, k)
			if lik == 0 {
				continue
			}
			for j := k + 1; j <= i; j++ {
				ljk := l.m.At(j, k)
				l.m.Set(i, j, l.m.At(i, j)-lik*d*ljk)
			}
		}
	}

	for i := 0; i < n; i++ {
		if l.m.At(i, i) > 0 {
			l.signature[i] = 1
		} else {
			l.signature[i] = -1
		}
	}
	l.structure.PerformedLLT = true
	l.factored = true
	return nil
}

// SolveInPlace solves M x = b in place: apply P, solve L·D·Lᵀ y = Pb,
// apply Pᵀ. b must have length l.Dim(). Allocation-free.
func (l *LDLT) SolveInPlace(b []float64) error {
	if !l.factored {
		return ErrNotFactored
	}
	n := l.n

	for i := 0; i < n; i++ {
		l.scratch[i] = b[l.ambient[i]]
	}

	// Forward solve: L is unit lower triangular, stored strictly below the
	// diagonal of l.m.
	for i := 0; i < n; i++ {
		sum := l.scratch[i]
		for j := 0; j < i; j++ {
			sum -= l.m.At(i, j) * l.scratch[j]
		}
		l.scratch[i] = sum
	}

	for i := 0; i < n; i++ {
		l.scratch[i] /= l.m.At(i, i)
	}

	// Backward solve against Lᵀ.
	for i := n - 1; i >= 0; i-- {
		sum := l.scratch[i]
		for j := i + 1; j < n; j++ {
			sum -= l.m.At(j, i) * l.scratch[j]
		}
		l.scratch[i] = sum
	}

	for i := 0; i < n; i++ {
		b[l.ambient[i]] = l.scratch[i]
	}
	return nil
}

// ReconstructedMatrix recovers the permuted L·D·Lᵀ product and maps it back
// through Pᵀ·(·)·P into an approximation of the original M. It is a
// diagnostic/testing operation, not part of the allocation-free hot path.
func (l *LDLT) ReconstructedMatrix() (*mat.Dense, error) {
	if !l.factored {
		return nil, ErrNotFactored
	}
	n := l.n

	lMat := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch {
			case j < i:
				lMat.Set(i, j, l.m.At(i, j))
			case j == i:
				lMat.Set(i, j, 1)
			}
		}
	}

	permuted := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		kmaxI := i
		for j := 0; j < n; j++ {
			kmax := kmaxI
			if j < kmax {
				kmax = j
			}
			var s float64
			for k := 0; k <= kmax; k++ {
				s += lMat.At(i, k) * l.m.At(k, k) * lMat.At(j, k)
			}
			permuted.Set(i, j, s)
		}
	}

	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(l.ambient[i], l.ambient[j], permuted.At(i, j))
		}
	}
	return out, nil
}
