// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

// ConvergedFlag reports the terminal state of a solve call.
type ConvergedFlag int

const (
	// Uninit is the zero value: solve has not run, or has not terminated.
	Uninit ConvergedFlag = iota
	// Success: both primal and dual infeasibility are below target_tol.
	Success
	// TooManyIters: the inner or outer iteration budget was exhausted.
	TooManyIters
	// FactorizationFailure: the block LDLᵀ factorization of the KKT system failed.
	FactorizationFailure
	// OracleFailure: a user function object reported a non-evaluable point.
	OracleFailure
)

func (f ConvergedFlag) String() string {
	s, ok := convergedFlagNames[f]
	if !ok {
		return "ConvergedFlag(?)"
	}
	return s
}

var convergedFlagNames = map[ConvergedFlag]string{
	Uninit:               "Uninit",
	Success:               "Success",
	TooManyIters:          "TooManyIters",
	FactorizationFailure:  "FactorizationFailure",
	OracleFailure:         "OracleFailure",
}
