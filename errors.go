// Copyright ©2024 The pdal Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdal

import "errors"

// ErrOracleFailure signifies a user function object reported itself
// non-evaluable at the attempted point (e.g. a domain violation).
var ErrOracleFailure = errors.New("pdal: oracle reported evaluation failure")

// ErrFactorization signifies the block LDLᵀ factorization of the KKT system
// failed (a near-singular or pathological pivot was encountered).
var ErrFactorization = errors.New("pdal: KKT factorization failed")

// ErrDimensionMismatch signifies a caller supplied a vector or matrix whose
// dimension does not match the Problem or Manifold it was evaluated against.
var ErrDimensionMismatch = errors.New("pdal: dimension mismatch")

// ErrNotCapable signifies an operation requested a capability tier (Jacobian
// or VHP) that the supplied Function does not implement.
var ErrNotCapable = errors.New("pdal: function does not implement the requested capability")
