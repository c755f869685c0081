// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Settings configures a Solver. Zero-valued fields are replaced by
// DefaultSettings at construction time, following the teacher's
// optimize.Settings convention.
type Settings struct {
	// TargetTol is the optimality tolerance for both primal and dual
	// infeasibility.
	TargetTol float64

	// Mu0 is the initial penalty parameter; MuFactor its geometric shrink
	// factor on failure, MuMin its floor.
	Mu0, MuFactor, MuMin float64

	// Rho0 and RhoFactor parameterize the primal regularization schedule,
	// shrunk in lockstep with Mu (see SPEC_FULL.md §9, item 3); rho is
	// tracked by the Solver but not added to the KKT system. They are
	// never defaulted from MuFactor; both must be supplied explicitly, or
	// left zero to take the package defaults.
	Rho0, RhoFactor, RhoMin float64

	// AlphaPrim/AlphaDual drive the failure-schedule tolerance update,
	// BetaPrim/BetaDual the success-schedule update.
	AlphaPrim, BetaPrim, AlphaDual, BetaDual float64

	// MaxIters bounds the total number of Newton steps across the whole
	// solve (shared by every inner solve call, not reset per outer
	// iteration), and separately the number of outer iterations.
	MaxIters int

	// Callback is invoked after every outer iteration. Defaults to
	// NopCallback.
	Callback Callback
}

// DefaultSettings mirrors the reference solver's constructor defaults.
func DefaultSettings() Settings {
	return Settings{
		TargetTol: 1e-6,
		Mu0:       1e-2,
		MuFactor:  0.1,
		MuMin:     1e-9,
		Rho0:      0,
		RhoFactor: 0.1,
		RhoMin:    1e-9,
		AlphaPrim: 0.1,
		BetaPrim:  0.9,
		AlphaDual: 1.0,
		BetaDual:  1.0,
		MaxIters:  200,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.TargetTol == 0 {
		s.TargetTol = d.TargetTol
	}
	if s.Mu0 == 0 {
		s.Mu0 = d.Mu0
	}
	if s.MuFactor == 0 {
		s.MuFactor = d.MuFactor
	}
	if s.MuMin == 0 {
		s.MuMin = d.MuMin
	}
	if s.RhoFactor == 0 {
		s.RhoFactor = d.RhoFactor
	}
	if s.RhoMin == 0 {
		s.RhoMin = d.RhoMin
	}
	if s.AlphaPrim == 0 {
		s.AlphaPrim = d.AlphaPrim
	}
	if s.BetaPrim == 0 {
		s.BetaPrim = d.BetaPrim
	}
	if s.AlphaDual == 0 {
		s.AlphaDual = d.AlphaDual
	}
	if s.BetaDual == 0 {
		s.BetaDual = d.BetaDual
	}
	if s.MaxIters == 0 {
		s.MaxIters = d.MaxIters
	}
	if s.Callback == nil {
		s.Callback = NopCallback{}
	}
	return s
}

// Solver drives the PDAL outer penalty loop and inner semismooth-Newton
// loop against a fixed Problem. A Solver may be reused across solve calls
// against fresh Workspace/Results pairs; Problem and Manifold are borrowed
// read-only.
type Solver struct {
	problem  *Problem
	settings Settings

	mu, rho float64
}

// NewSolver returns a Solver for problem configured by settings
// (zero-valued fields take package defaults).
func NewSolver(problem *Problem, settings Settings) *Solver {
	settings = settings.withDefaults()
	return &Solver{
		problem:  problem,
		settings: settings,
		mu:       settings.Mu0,
		rho:      settings.Rho0,
	}
}

// Solve runs the outer/inner iteration to completion, starting from x0 and
// lams0, writing the trajectory into w and the outcome into r. w and r must
// be sized for s.problem (see NewWorkspace/NewResults).
func (s *Solver) Solve(w *Workspace, r *Results, x0 mat.Vector, lams0 []*mat.VecDense) ConvergedFlag {
	r.X.CopyVec(x0)
	for i, l := range lams0 {
		r.Lams[i].CopyVec(l)
		w.LamsPrev[i].CopyVec(l)
	}
	r.Converged = Uninit
	r.InnerIters = 0
	r.OuterIters = 0
	r.Mu = s.mu

	eta, omega := 1.0, 1.0
	eta, omega = s.updateToleranceFailure(eta, omega)

	for {
		flag := s.solveInner(w, r, omega)
		if flag == FactorizationFailure || flag == OracleFailure || flag == TooManyIters {
			r.Converged = flag
			return flag
		}

		w.XPrev.CopyVec(r.X)

		if r.PrimInfeas < eta {
			if r.PrimInfeas < s.settings.TargetTol && r.DualInfeas < s.settings.TargetTol {
				r.Converged = Success
				return Success
			}
			s.acceptMultipliers(w, r)
			eta, omega = s.updateToleranceSuccess(eta, omega)
		} else {
			s.updatePenalty()
			eta, omega = s.updateToleranceFailure(eta, omega)
		}
		r.Mu = s.mu
		if omega < s.settings.TargetTol {
			omega = s.settings.TargetTol
		}

		r.OuterIters++
		s.settings.Callback.Call(w, r)

		if r.OuterIters >= s.settings.MaxIters {
			r.Converged = TooManyIters
			return TooManyIters
		}
	}
}

// solveInner runs Newton steps against the current penalty mu until the
// inner residual falls below omega, a terminal failure occurs, or the
// shared iteration budget (r.InnerIters, across the whole solve) is
// exhausted. On a normal inner convergence it returns Uninit.
func (s *Solver) solveInner(w *Workspace, r *Results, omega float64) ConvergedFlag {
	ndx := w.Ndx
	problem := s.problem

	for {
		if r.InnerIters >= s.settings.MaxIters {
			return TooManyIters
		}

		value, err := problem.Cost.CostValue(r.X)
		if err != nil {
			return OracleFailure
		}
		r.Value = value

		primInfeas, err := computeResidualsAndMultipliers(problem, w, r.X, r.Lams, s.mu)
		if err != nil {
			return OracleFailure
		}
		r.PrimInfeas = primInfeas

		if err := computeResidualDerivatives(problem, w, r.X); err != nil {
			return OracleFailure
		}

		if err := assembleLagrangianGradient(problem, w, r.X, w.CostGrad); err != nil {
			return OracleFailure
		}
		if err := assembleLagrangianHessian(problem, w, r.X, w.CostHess); err != nil {
			return OracleFailure
		}

		for i := 0; i < ndx; i++ {
			w.RHS[i] = w.CostGrad.AtVec(i)
			for j := i; j < ndx; j++ {
				w.KKT.SetSym(i, j, w.CostHess.At(i, j))
			}
		}

		cursor := ndx
		for i, c := range problem.Constraints {
			nri := c.Nr()
			for a := 0; a < nri; a++ {
				w.RHS[cursor+a] = w.ProxDualErr[i].AtVec(a)
				for b := 0; b < ndx; b++ {
					w.KKT.SetSym(b, cursor+a, w.Jacobians[i].At(a, b))
				}
				w.KKT.SetSym(cursor+a, cursor+a, -s.mu)
			}
			cursor += nri
		}

		r.DualInfeas = infNormSlice(w.RHS[:ndx])
		if infNormSlice(w.RHS) < omega {
			return Uninit
		}

		for i := 0; i < w.Dim; i++ {
			for j := 0; j < w.Dim; j++ {
				w.KKTDense.Set(i, j, w.KKT.At(i, j))
			}
		}
		if err := w.ldlt.Compute(w.KKTDense); err != nil {
			return FactorizationFailure
		}
		copy(w.Signature, w.ldlt.Signature())

		for i := range w.Step {
			w.Step[i] = -w.RHS[i]
		}
		if err := w.ldlt.SolveInPlace(w.Step); err != nil {
			return FactorizationFailure
		}

		primalStep := mat.NewVecDense(ndx, w.Step[:ndx])
		problem.Manifold.Integrate(r.X, primalStep, r.X)

		cursor = ndx
		for i, c := range problem.Constraints {
			nri := c.Nr()
			for a := 0; a < nri; a++ {
				r.Lams[i].SetVec(a, r.Lams[i].AtVec(a)+w.Step[cursor+a])
			}
			cursor += nri
		}

		r.InnerIters++
	}
}

// updatePenalty shrinks mu and rho by their respective factors, floored at
// their respective minimums (Open Question 3: rho follows mu in lockstep).
func (s *Solver) updatePenalty() {
	s.mu = math.Max(s.mu*s.settings.MuFactor, s.settings.MuMin)
	s.rho = math.Max(s.rho*s.settings.RhoFactor, s.settings.RhoMin)
}

func (s *Solver) updateToleranceFailure(eta, omega float64) (float64, float64) {
	eta = eta * math.Pow(s.mu, s.settings.AlphaPrim)
	omega = omega * math.Pow(s.mu, s.settings.AlphaDual)
	return eta, omega
}

func (s *Solver) updateToleranceSuccess(eta, omega float64) (float64, float64) {
	eta = eta * math.Pow(s.mu, s.settings.BetaPrim)
	omega = omega * math.Pow(s.mu, s.settings.BetaDual)
	return eta, omega
}

// acceptMultipliers copies the just-computed primal-dual multipliers into
// the persisted lamsPrev, per constraint block.
func (s *Solver) acceptMultipliers(w *Workspace, r *Results) {
	for i := range s.problem.Constraints {
		w.LamsPrev[i].CopyVec(w.LamsPDAL[i])
	}
}
