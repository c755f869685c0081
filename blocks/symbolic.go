// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blocks implements the block-structured LDLᵀ factorization of a
// symmetric, possibly indefinite, dense matrix under a user-supplied block
// permutation.
package blocks

// SymbolicBlockMatrix describes the row/column partitioning of a matrix as
// an array of segment lengths, together with a flag recording whether a
// factorization has been performed against it.
type SymbolicBlockMatrix struct {
	Seg          []int
	PerformedLLT bool
}

// NewSymbolicBlockMatrix returns a SymbolicBlockMatrix with the given
// segment lengths. The slice is copied.
func NewSymbolicBlockMatrix(seg []int) *SymbolicBlockMatrix {
	s := make([]int, len(seg))
	copy(s, seg)
	return &SymbolicBlockMatrix{Seg: s}
}

// NSegments returns the number of blocks.
func (s *SymbolicBlockMatrix) NSegments() int {
	return len(s.Seg)
}

// Copy returns a deep copy of the symbolic structure.
func (s *SymbolicBlockMatrix) Copy() *SymbolicBlockMatrix {
	out := NewSymbolicBlockMatrix(s.Seg)
	out.PerformedLLT = s.PerformedLLT
	return out
}

// TotalDim returns the sum of segment lengths, the ambient dimension of the
// matrix this structure describes.
func (s *SymbolicBlockMatrix) TotalDim() int {
	n := 0
	for _, l := range s.Seg {
		n += l
	}
	return n
}
