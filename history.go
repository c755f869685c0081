// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "gonum.org/v1/gonum/mat"

// Callback is invoked by the Solver between outer iterations, with access to
// the current Workspace and Results. A default no-op implementation is
// NopCallback.
type Callback interface {
	Call(w *Workspace, r *Results)
}

// NopCallback is the zero-cost default Callback.
type NopCallback struct{}

func (NopCallback) Call(w *Workspace, r *Results) {}

// History is a Callback that appends a snapshot of x, the dual iterates,
// the cost value, and the primal/dual infeasibilities to five parallel
// slices, one entry per outer iteration.
type History struct {
	Xs         []*mat.VecDense
	Lams       [][]*mat.VecDense
	Values     []float64
	PrimInfeas []float64
	DualInfeas []float64
}

// NewHistory returns an empty History with capacity for n outer iterations
// preallocated, to keep the hot path allocation-light even though recording
// itself is necessarily an append.
func NewHistory(n int) *History {
	return &History{
		Xs:         make([]*mat.VecDense, 0, n),
		Lams:       make([][]*mat.VecDense, 0, n),
		Values:     make([]float64, 0, n),
		PrimInfeas: make([]float64, 0, n),
		DualInfeas: make([]float64, 0, n),
	}
}

func (h *History) Call(w *Workspace, r *Results) {
	xCopy := mat.NewVecDense(r.X.Len(), nil)
	xCopy.CopyVec(r.X)
	h.Xs = append(h.Xs, xCopy)

	lamsCopy := make([]*mat.VecDense, len(r.Lams))
	for i, l := range r.Lams {
		c := mat.NewVecDense(l.Len(), nil)
		c.CopyVec(l)
		lamsCopy[i] = c
	}
	h.Lams = append(h.Lams, lamsCopy)

	h.Values = append(h.Values, r.Value)
	h.PrimInfeas = append(h.PrimInfeas, r.PrimInfeas)
	h.DualInfeas = append(h.DualInfeas, r.DualInfeas)
}
